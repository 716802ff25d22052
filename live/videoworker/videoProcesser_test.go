package videoworker

import (
	"testing"

	"github.com/reisen39/namarec/config"
	"github.com/reisen39/namarec/live/interfaces"
	"github.com/reisen39/namarec/live/monitor"
)

func mockTrace(mon monitor.VideoMonitor) *interfaces.LiveStatus {
	return &interfaces.LiveStatus{
		IsLive: mon.CheckLive(config.UsersConfig{}),
		Video:  mon.CreateVideo(config.UsersConfig{}),
	}
}

func TestProcessVideo_isNewLive(t *testing.T) {
	type fields struct {
		liveStatus *interfaces.LiveStatus
		monitor    monitor.VideoMonitor
	}
	tests := []struct {
		name   string
		fields fields
		want   bool
	}{
		{"now offline", fields{
			liveStatus: &interfaces.LiveStatus{Video: &interfaces.VideoInfo{
				Title:    "1",
				Provider: "mock",
				Target:   "3",
			}, IsLive: true},
			monitor: &monitor.Mock{
				Video:  &interfaces.VideoInfo{},
				IsLive: false,
			},
		}, true},
		{"still live and same", fields{
			liveStatus: &interfaces.LiveStatus{Video: &interfaces.VideoInfo{
				Title:    "1",
				Provider: "mock",
				Target:   "3",
			}, IsLive: true},
			monitor: &monitor.Mock{
				Video: &interfaces.VideoInfo{
					Title:  "1",
					Target: "3",
				},
				IsLive: true,
			},
		}, false},
		{"same title but new link", fields{
			liveStatus: &interfaces.LiveStatus{Video: &interfaces.VideoInfo{
				Title:    "1",
				Provider: "mock",
				Target:   "3",
			}, IsLive: true},
			monitor: &monitor.Mock{
				Video: &interfaces.VideoInfo{
					Title:  "1",
					Target: "4",
				},
				IsLive: true,
			},
		}, true},
		{"same link but new title", fields{
			liveStatus: &interfaces.LiveStatus{Video: &interfaces.VideoInfo{
				Title:    "1",
				Provider: "mock",
				Target:   "3",
			}, IsLive: true},
			monitor: &monitor.Mock{
				Video: &interfaces.VideoInfo{
					Title:  "2",
					Target: "3",
				},
				IsLive: true,
			},
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &ProcessVideo{
				LiveStatus: tt.fields.liveStatus,
				LiveTrace:  mockTrace,
				Monitor:    tt.fields.monitor,
			}
			if got := p.isNewLive(); got != tt.want {
				t.Errorf("isNewLive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProcessVideo_titleHistory(t *testing.T) {
	p := &ProcessVideo{
		LiveStatus: &interfaces.LiveStatus{Video: &interfaces.VideoInfo{
			Title:    "opening",
			Provider: "mock",
			Target:   "3",
		}, IsLive: true},
		LiveTrace: mockTrace,
		Monitor: &monitor.Mock{
			Video: &interfaces.VideoInfo{
				Title:  "part two",
				Target: "3",
			},
			IsLive: true,
		},
	}
	p.appendTitleHistory("opening")
	if p.isNewLive() {
		t.Fatal("title change alone must not end the live")
	}
	if len(p.TitleHistory) != 2 {
		t.Fatalf("TitleHistory len = %d, want 2", len(p.TitleHistory))
	}
	if p.TitleHistory[1].Title != "part two" {
		t.Errorf("TitleHistory[1] = %v", p.TitleHistory[1].Title)
	}
	if p.LiveStatus.Video.Title != "part two" {
		t.Errorf("video title not refreshed: %v", p.LiveStatus.Video.Title)
	}
}
