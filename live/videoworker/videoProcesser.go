package videoworker

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/reisen39/namarec/config"
	"github.com/reisen39/namarec/live/interfaces"
	"github.com/reisen39/namarec/live/monitor"
	"github.com/reisen39/namarec/live/monitor/youtube"
	"github.com/reisen39/namarec/live/state"
	"github.com/reisen39/namarec/live/videoworker/downloader"
	"github.com/reisen39/namarec/utils"
)

type VideoPathList []string

type LiveTitleHistoryEntry struct {
	Title     string
	StartTime time.Time
}

type ProcessVideo struct {
	LiveStatus    *interfaces.LiveStatus
	TitleHistory  []LiveTitleHistoryEntry
	liveStartTime time.Time
	videoPathList VideoPathList
	LiveTrace     monitor.LiveTrace
	Monitor       monitor.VideoMonitor
	Plugins       *PluginManager
	needStop      bool
	triggerChan   chan int
	finish        chan int
}

var (
	downloadSemOnce sync.Once
	downloadSem     *semaphore.Weighted
)

func acquireDownloadSlot() {
	downloadSemOnce.Do(func() {
		max := int64(6)
		if config.Config != nil && config.Config.MaxDownloads > 0 {
			max = int64(config.Config.MaxDownloads)
		}
		downloadSem = semaphore.NewWeighted(max)
	})
	_ = downloadSem.Acquire(context.Background(), 1)
}

func releaseDownloadSlot() {
	downloadSem.Release(1)
}

func registryKey(v *interfaces.VideoInfo) string {
	return v.Provider + "|" + v.UsersConfig.Name
}

func StartProcessVideo(liveTrace monitor.LiveTrace, mon monitor.VideoMonitor, plugins *PluginManager) *ProcessVideo {
	p := &ProcessVideo{LiveTrace: liveTrace, Monitor: mon, Plugins: plugins}
	liveStatus := liveTrace(mon)
	if !liveStatus.IsLive {
		return p
	}
	p.LiveStatus = liveStatus

	key := registryKey(liveStatus.Video)
	if !state.Default.Add(key, state.Recording{
		Provider: liveStatus.Video.Provider,
		User:     liveStatus.Video.UsersConfig.Name,
		Title:    liveStatus.Video.Title,
		Target:   liveStatus.Video.Target,
		WorkID:   liveStatus.Video.WorkID,
		StartAt:  time.Now(),
	}) {
		log.Warnf("%s already has an active recording, not starting another", key)
		return p
	}
	defer state.Default.Remove(key)

	p.appendTitleHistory(p.LiveStatus.Video.Title)
	p.StartProcessVideo()

	if v := p.LiveStatus.Video; v.Provider == "Youtube" && v.VideoID != "" {
		youtube.MarkHandled(v.VideoID)
	}
	return p
}

func (p *ProcessVideo) StartProcessVideo() {
	log.Infof("%s|%s|%s is living. start to process", p.LiveStatus.Video.Provider, p.LiveStatus.Video.UsersConfig.Name, p.LiveStatus.Video.Title)
	p.needStop = false
	p.liveStartTime = time.Now()
	p.finish = make(chan int)
	p.triggerChan = make(chan int)
	go p.Plugins.OnLiveStart(p)
	go p.keepLiveAlive()
	if p.isNeedDownload() {
		go p.Plugins.OnDownloadStart(p)
		go p.startDownloadVideo()
	}
	<-p.finish
	p.Plugins.OnLiveEnd(p)
}

func (p *ProcessVideo) startDownloadVideo() {
	var pathSlice []string
	if !config.Config.EnableRemux {
		pathSlice = []string{config.Config.DownloadDir, p.LiveStatus.Video.UsersConfig.Name,
			p.liveStartTime.Format("20060102 1504")}
	} else {
		pathSlice = []string{config.Config.DownloadDir, p.LiveStatus.Video.UsersConfig.Name}
	}
	dirpath := strings.Join(pathSlice, "/")
	downDir, err := utils.MakeDir(dirpath)
	if err != nil {
		p.finish <- 1
		return
	}
	p.LiveStatus.Video.UsersConfig.DownloadDir = downDir
	p.videoPathList = VideoPathList{}

	acquireDownloadSlot()
	defer releaseDownloadSlot()

	var failRecord []time.Time
	for {
		ctx := p.Monitor.GetCtx()
		proxy, _ := ctx.GetProxy()
		down := downloader.GetDownloader(p.Monitor.DownloadProvider())
		filePath := utils.GenerateFilepath(downDir, p.LiveStatus.Video.Title+".ts")
		aFilePath := down.DownloadVideo(p.LiveStatus.Video, proxy, "", filePath)
		if aFilePath != "" {
			p.videoPathList = append(p.videoPathList, aFilePath)
		} else {
			failRecord = append(failRecord, time.Now())
			log.Info("Failed to record, trying to refresh live state!")
			select {
			case p.triggerChan <- 1: // refresh at once
			default: // refresher already gone
			}
			if len(failRecord) >= 3 {
				if time.Now().Unix()-failRecord[0].Unix() < 30 {
					log.Info("Waiting for next refresh before we retry")
					failRecord = make([]time.Time, 0)
					time.Sleep(time.Duration(config.Config.CriticalCheckSec) * time.Second)
				} else {
					failRecord = failRecord[1:]
				}
			}
		}
		time.Sleep(time.Millisecond * 100)
		if p.needStop {
			break
		}
	}

	videoName := p.postProcessing()
	if videoName != "" {
		video := p.LiveStatus.Video
		video.FileName = videoName
	}
	p.finish <- 1
}

func (p *ProcessVideo) isNeedDownload() bool {
	return p.LiveStatus.Video.UsersConfig.NeedDownload
}

func (p *ProcessVideo) keepLiveAlive() {
	ticker := time.NewTicker(time.Second * time.Duration(config.Config.NormalCheckSec*3))
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			log.Debug("Refreshing live status...")
		case <-p.triggerChan:
			log.Info("Got emergency trigger signal, refresh at once!")
		}
		if p.isNewLive() {
			p.needStop = true
			if p.isNeedDownload() {
				return // the downloader drives the end when downloading
			}
			p.finish <- 1
			return
		}
	}
}

func (p *ProcessVideo) appendTitleHistory(title string) {
	p.TitleHistory = append(p.TitleHistory, LiveTitleHistoryEntry{
		Title:     title,
		StartTime: time.Now(),
	})
}

func (p *ProcessVideo) isNewLive() bool {
	newLiveStatus := p.LiveTrace(p.Monitor)
	if !newLiveStatus.IsLive || !p.LiveStatus.IsLive || p.LiveStatus.Video.Target != newLiveStatus.Video.Target {
		log.Infof("[isNewLive]%s|%s|%s is new live or offline", p.LiveStatus.Video.Provider, p.LiveStatus.Video.UsersConfig.Name, p.LiveStatus.Video.Title)
		return true
	}
	if len(p.TitleHistory) == 0 || p.LiveStatus.Video.Title != newLiveStatus.Video.Title {
		log.Infof("Room title changed from %s to %s", p.LiveStatus.Video.Title, newLiveStatus.Video.Title)
		p.LiveStatus.Video.Title = newLiveStatus.Video.Title
		p.appendTitleHistory(newLiveStatus.Video.Title)
	}
	log.Debugf("[isNewLive]%s|%s|%s KeepAlive", p.LiveStatus.Video.Provider, p.LiveStatus.Video.UsersConfig.Name, p.LiveStatus.Video.Title)
	return false
}

func (p *ProcessVideo) getFullTitle() string {
	title := fmt.Sprintf("【%s】", p.liveStartTime.Format("2006-01-02"))
	if len(p.TitleHistory) == 0 {
		p.TitleHistory = append(p.TitleHistory, LiveTitleHistoryEntry{
			Title:     p.LiveStatus.Video.Title,
			StartTime: p.liveStartTime,
		})
		log.Warnf("no TitleHistory!")
	}

	for _, titleHistory := range p.TitleHistory {
		title += fmt.Sprintf("【%s】%s", titleHistory.StartTime.Format("15:04:05"), titleHistory.Title)
	}
	return title
}

func (p *ProcessVideo) postProcessing() string {
	if config.Config.EnableRemux {
		return p.remuxRecording()
	}
	pathSlice := []string{config.Config.DownloadDir, p.getFullTitle()}
	dirpath := strings.Join(pathSlice, "/")
	err := os.Rename(p.LiveStatus.Video.UsersConfig.DownloadDir, dirpath)
	if err != nil {
		log.Warnf("rename %s failed: %v", dirpath, err)
		return ""
	}
	p.LiveStatus.Video.FilePath = dirpath
	return dirpath
}
