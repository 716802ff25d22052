package monitor

import (
	"github.com/reisen39/namarec/config"
	"github.com/reisen39/namarec/live/interfaces"
	"github.com/reisen39/namarec/live/monitor/base"
	"github.com/reisen39/namarec/live/monitor/youtube"
	"github.com/reisen39/namarec/utils"
)

type VideoMonitor = base.VideoMonitor
type LiveTrace func(monitor VideoMonitor) *interfaces.LiveStatus

// Monitor is responsible for checking if live starts & live's title/link changed
func CreateVideoMonitor(module config.ModuleConfig) VideoMonitor {
	ctx := base.CreateMonitorCtx(module)
	baseMon := base.BaseMonitor{Ctx: ctx, Provider: module.DownloadProvider}
	switch module.Name {
	case "Youtube":
		return youtube.NewYoutube(baseMon)
	default:
		return nil
	}
}

// sanitize everything in the videoinfo for downloader & plugins
func CleanVideoInfo(info *interfaces.VideoInfo) *interfaces.VideoInfo {
	if info == nil {
		return nil
	}
	info.Title = utils.RemoveIllegalChar(info.Title)
	return info
}
