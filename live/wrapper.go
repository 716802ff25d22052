package live

import (
	"github.com/reisen39/namarec/config"
	"github.com/reisen39/namarec/live/interfaces"
	"github.com/reisen39/namarec/live/monitor"
	"github.com/reisen39/namarec/live/monitor/base"
	"github.com/reisen39/namarec/live/videoworker"
)

func StartMonitor(mon base.VideoMonitor, usersConfig config.UsersConfig, pm *videoworker.PluginManager) {
	var liveTrace = func(mon base.VideoMonitor) *interfaces.LiveStatus {
		return &interfaces.LiveStatus{
			IsLive: mon.CheckLive(usersConfig),
			Video:  monitor.CleanVideoInfo(mon.CreateVideo(usersConfig)),
		}
	}

	videoworker.StartProcessVideo(liveTrace, mon, pm)
}
