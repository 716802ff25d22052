package monitor

import (
	"github.com/reisen39/namarec/config"
	"github.com/reisen39/namarec/live/interfaces"
	"github.com/reisen39/namarec/live/monitor/base"
)

type Mock struct {
	Video    *interfaces.VideoInfo
	IsLive   bool
	Provider string
	Ctx      base.MonitorCtx
}

func (m *Mock) CheckLive(usersConfig config.UsersConfig) bool {
	return m.IsLive
}

func (m *Mock) CreateVideo(usersConfig config.UsersConfig) *interfaces.VideoInfo {
	return m.Video
}

func (m *Mock) GetCtx() *base.MonitorCtx {
	return &m.Ctx
}

func (m *Mock) DownloadProvider() string {
	return m.Provider
}
