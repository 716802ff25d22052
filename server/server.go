package server

import (
	"encoding/json"
	"net/http"

	"github.com/gogf/greuse"
	log "github.com/sirupsen/logrus"

	"github.com/reisen39/namarec/live/state"
)

// StartStatusServer exposes the active-recording registry as JSON. The
// listener uses port reuse so a restarting daemon can bind while the old
// one's recordings drain.
func StartStatusServer(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		recs := state.Default.Snapshot()
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"active":     recs,
			"active_num": len(recs),
		}); err != nil {
			log.WithError(err).Warn("status encode failed")
		}
	})

	listener, err := greuse.Listen("tcp", addr)
	if err != nil {
		log.WithError(err).Warnf("status server cannot listen on %s", addr)
		return
	}
	go func() {
		err := http.Serve(listener, mux)
		log.WithError(err).Warn("status server exited")
	}()
	log.Infof("status server listening on %s", addr)
}
