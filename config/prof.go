package config

import (
	"runtime"
	"runtime/debug"
	"time"

	log "github.com/sirupsen/logrus"
)

func PrintMemUsage() {
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	log.WithField("prof", true).Warnf("Alloc = %v MiB\tTotalAlloc = %v MiB\tSys = %v MiB\tGoroutines = %v\tNumGC = %v",
		bToMb(m.Alloc),
		bToMb(m.TotalAlloc),
		bToMb(m.Sys),
		runtime.NumGoroutine(),
		m.NumGC)
}

// InitProfiling periodically reports memory usage and nudges memory back to
// the OS. Long recordings otherwise keep buffers pinned for hours.
func InitProfiling() {
	go func() {
		ticker := time.NewTicker(time.Minute * 1)
		for {
			PrintMemUsage()
			<-ticker.C
		}
	}()

	go func() {
		ticker := time.NewTicker(time.Minute * 5)
		for {
			start := time.Now()
			debug.FreeOSMemory()
			log.WithField("prof", true).Debugf("scvg use %s", time.Since(start))
			<-ticker.C
		}
	}()
}
