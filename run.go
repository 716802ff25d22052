package main

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/reisen39/namarec/config"
	"github.com/reisen39/namarec/live"
	"github.com/reisen39/namarec/live/monitor"
	"github.com/reisen39/namarec/live/plugins"
	"github.com/reisen39/namarec/live/state"
	"github.com/reisen39/namarec/live/videoworker"
	"github.com/reisen39/namarec/server"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the channel watcher daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		bootstrap()

		ledger, err := state.OpenLedger(config.Config.LedgerFile)
		if err != nil {
			return err
		}
		defer ledger.Close()

		pm := &videoworker.PluginManager{}
		pm.AddPlugin(&plugins.PluginUploader{Ledger: ledger})
		pm.AddPlugin(&plugins.PluginNotify{})

		server.StartStatusServer(config.Config.StatusPort)
		config.InitProfiling()
		arrangeTask(pm)
		return nil
	},
}

// taskStatus tracks which channels currently have a monitor worker. Keys
// are module|target, so they stay valid when a reload reorders or shrinks
// the config and a long recording outlives its entry.
type taskStatus struct {
	mu   sync.Mutex
	busy map[string]bool
}

func newTaskStatus() *taskStatus {
	return &taskStatus{busy: make(map[string]bool)}
}

// tryStart claims the channel. False means a worker is already on it.
func (s *taskStatus) tryStart(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy[key] {
		return false
	}
	s.busy[key] = true
	return true
}

func (s *taskStatus) done(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busy, key)
}

func taskKey(module config.ModuleConfig, usersConfig config.UsersConfig) string {
	return module.Name + "|" + usersConfig.TargetId
}

// arrangeTask is the scheduler: every tick it starts a monitor worker for
// each enabled channel that doesn't have one running. The busy set is what
// guarantees a channel never gets two workers.
func arrangeTask(pm *videoworker.PluginManager) {
	log.Printf("Arrange tasks...")
	status := newTaskStatus()

	go func() {
		ticker := time.NewTicker(time.Second * 1)
		for {
			if config.ConfigChanged {
				ret, err := config.ReloadConfig()
				if ret {
					if err == nil {
						log.Infof("Config reloaded")
					} else {
						log.Warnf("Config changed but loading failed: %s", err)
					}
				}
			}
			<-ticker.C
		}
	}()

	for {
		for _, module := range config.Config.Module {
			if !module.Enable {
				continue
			}
			for _, usersConfig := range module.Users {
				key := taskKey(module, usersConfig)
				if !status.tryStart(key) {
					continue
				}
				mon := monitor.CreateVideoMonitor(module)
				if mon == nil {
					log.Warnf("unknown module %s", module.Name)
					status.done(key)
					continue
				}
				go func(key string, mon monitor.VideoMonitor, userCon config.UsersConfig) {
					defer status.done(key)
					live.StartMonitor(mon, userCon, pm)
				}(key, mon, usersConfig)
				time.Sleep(time.Millisecond * 10)
			}
		}
		// streams tend to start around the hour and half-hour marks, check
		// faster there
		minute := time.Now().Minute()
		if minute > 55 || minute < 5 || (minute > 25 && minute < 35) {
			time.Sleep(time.Duration(config.Config.CriticalCheckSec) * time.Second)
		} else {
			time.Sleep(time.Duration(config.Config.NormalCheckSec) * time.Second)
		}
	}
}
