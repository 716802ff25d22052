package interfaces

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/reisen39/namarec/config"
)

type VideoInfoLogHook struct {
}

func (h *VideoInfoLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire flattens a VideoInfo passed as the "video" field into readable
// user/title fields instead of dumping the whole struct.
func (h *VideoInfoLogHook) Fire(entry *logrus.Entry) error {
	_ret, ok := entry.Data["video"]
	if !ok {
		return nil
	}
	v, ok := _ret.(*VideoInfo)
	if !ok {
		return nil
	}
	delete(entry.Data, "video")
	entry.Data["user"] = fmt.Sprintf("%s|%s", v.Provider, v.UsersConfig.Name)
	entry.Data["title"] = v.Title
	return nil
}

func init() {
	logrus.AddHook(&VideoInfoLogHook{})
}

type VideoInfo struct {
	Title       string
	Date        string
	Target      string
	VideoID     string
	Provider    string
	FileName    string
	FilePath    string
	WorkID      string
	UsersConfig config.UsersConfig
}

type LiveStatus struct {
	IsLive bool
	Video  *VideoInfo
}
