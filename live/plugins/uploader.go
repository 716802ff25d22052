package plugins

import (
	"encoding/json"
	"fmt"
	"os"
	"path"

	log "github.com/sirupsen/logrus"

	"github.com/reisen39/namarec/config"
	"github.com/reisen39/namarec/live/interfaces"
	"github.com/reisen39/namarec/live/state"
	"github.com/reisen39/namarec/live/videoworker"
	"github.com/reisen39/namarec/utils"
)

type UploadDict struct {
	Title        string
	Filename     string
	Date         string
	Path         string
	RemotePath   string
	User         string
	OriginTitle  string `json:"Origin_Title"`
	OriginTarget string `json:"originTarget"`
}

type PluginUploader struct {
	Ledger *state.Ledger
}

func (p *PluginUploader) LiveStart(process *videoworker.ProcessVideo) error {
	return nil
}

func (p *PluginUploader) DownloadStart(process *videoworker.ProcessVideo) error {
	return nil
}

func (p *PluginUploader) LiveEnd(process *videoworker.ProcessVideo) error {
	video := process.LiveStatus.Video
	if video.FilePath == "" {
		return nil
	}
	remotePath, err := UploadRecording(p.Ledger, video)
	if err != nil {
		return err
	}
	if remotePath == "" {
		return nil
	}

	u := UploadDict{
		Title:        video.Title,
		Filename:     video.FileName,
		Date:         video.Date,
		Path:         video.FilePath,
		RemotePath:   remotePath,
		User:         video.UsersConfig.Name,
		OriginTitle:  video.Title,
		OriginTarget: video.Target,
	}
	data, _ := json.Marshal(u)
	log.Debug(string(data))
	Publish(data, "upload")

	// mail only announces finished uploads, so it carries the remote path
	// and stays silent when the upload was skipped or failed
	_ = SendMail(video.UsersConfig.Name, video.Title, remotePath)
	return nil
}

// UploadRecording ships a finished recording to the per-channel remote
// directory through rclone. The ledger is consulted before and marked after,
// so a recording never gets shipped twice; the returned remote path is empty
// when the file was already uploaded.
func UploadRecording(ledger *state.Ledger, video *interfaces.VideoInfo) (string, error) {
	localPath := video.FilePath
	if !utils.IsFileExist(localPath) {
		return "", fmt.Errorf("upload: %s does not exist", localPath)
	}
	if config.Config.UploadDir == "" {
		log.Debugf("no UploadDir configured, keeping %s local", localPath)
		return "", nil
	}

	if ledger != nil {
		done, err := ledger.Uploaded(localPath)
		if err != nil {
			return "", err
		}
		if done {
			log.Infof("%s is already uploaded, skipping", localPath)
			return "", nil
		}
	}

	remoteDir := config.Config.UploadDir + "/" + utils.RemoveIllegalChar(video.UsersConfig.Name)
	if err := utils.MkdirAll(remoteDir); err != nil {
		return "", err
	}

	var size int64
	fi, err := os.Stat(localPath)
	if err == nil {
		size = fi.Size()
	}

	logger := log.WithField("video", video)
	logger.Infof("uploading %s to %s", localPath, remoteDir)
	if config.Config.DeleteAfterWork {
		err = utils.MoveFiles(localPath, remoteDir)
	} else {
		err = utils.CopyFiles(localPath, remoteDir)
	}
	if err != nil {
		logger.WithError(err).Warnf("upload failed, leaving %s for the next pass", localPath)
		return "", err
	}

	remotePath := remoteDir + "/" + path.Base(localPath)
	if ledger != nil {
		fresh, err := ledger.MarkUploaded(localPath, remotePath, size)
		if err != nil {
			logger.WithError(err).Warn("ledger update failed")
		} else if !fresh {
			logger.Warnf("%s was concurrently marked uploaded", localPath)
		}
	}
	logger.Infof("uploaded to %s", remotePath)
	return remotePath, nil
}
