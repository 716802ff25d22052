package videoworker

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

type PluginCallback interface {
	LiveStart(p *ProcessVideo) error
	DownloadStart(p *ProcessVideo) error
	LiveEnd(p *ProcessVideo) error
}

type PluginManager struct {
	plugins []PluginCallback
}

func (p *PluginManager) AddPlugin(plug PluginCallback) {
	p.plugins = append(p.plugins, plug)
}

func (p *PluginManager) fire(video *ProcessVideo, stage string, call func(PluginCallback, *ProcessVideo) error) {
	var wg sync.WaitGroup
	wg.Add(len(p.plugins))
	for _, plug := range p.plugins {
		go func(plug PluginCallback) {
			defer wg.Done()
			if err := call(plug, video); err != nil {
				log.WithField("stage", stage).Warn(err)
			}
		}(plug)
	}
	wg.Wait()
}

func (p *PluginManager) OnLiveStart(video *ProcessVideo) {
	p.fire(video, "liveStart", func(plug PluginCallback, v *ProcessVideo) error { return plug.LiveStart(v) })
}

func (p *PluginManager) OnDownloadStart(video *ProcessVideo) {
	p.fire(video, "downloadStart", func(plug PluginCallback, v *ProcessVideo) error { return plug.DownloadStart(v) })
}

func (p *PluginManager) OnLiveEnd(video *ProcessVideo) {
	p.fire(video, "liveEnd", func(plug PluginCallback, v *ProcessVideo) error { return plug.LiveEnd(v) })
}
