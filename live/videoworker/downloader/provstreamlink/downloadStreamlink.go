package provstreamlink

import (
	log "github.com/sirupsen/logrus"

	"github.com/reisen39/namarec/config"
	"github.com/reisen39/namarec/live/interfaces"
	"github.com/reisen39/namarec/utils"
)

func addStreamlinkProxy(co []string, proxy string) []string {
	co = append(co, "--http-proxy", "socks5://"+proxy)
	return co
}

// userArgs pulls extra streamlink arguments out of the user's ExtraConfig.
func userArgs(video *interfaces.VideoInfo) []string {
	_arg, ok := video.UsersConfig.ExtraConfig["StreamLinkArgs"]
	if !ok {
		return nil
	}
	arg := []string{}
	if list, ok := _arg.([]interface{}); ok {
		for _, a := range list {
			if s, ok := a.(string); ok {
				arg = append(arg, s)
			}
		}
	}
	return arg
}

type DownloaderStreamlink struct {
}

func (d *DownloaderStreamlink) StartDownload(video *interfaces.VideoInfo, proxy string, cookie string, filepath string) error {
	arg := []string{
		"--force",
		"--hls-timeout", "60",
		"--hls-live-restart",
		"--retry-streams", "10",
		"--retry-max", "10",
		"-o", filepath,
	}
	arg = append(arg, userArgs(video)...)
	if proxy != "" {
		arg = addStreamlinkProxy(arg, proxy)
	}
	if cookie != "" {
		arg = append(arg, "--http-cookies", cookie)
	}
	arg = append(arg, video.Target, config.Config.DownloadQuality)
	logger := log.WithField("video", video)
	logger.Infof("start to download %s, command %s", filepath, arg)
	utils.ExecShell("streamlink", arg...)
	return nil
}
