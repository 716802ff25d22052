package state

import (
	"sync"
	"time"
)

type Recording struct {
	Provider string
	User     string
	Title    string
	Target   string
	WorkID   string
	StartAt  time.Time
}

// Registry tracks which targets currently have a recorder attached.
// Invariant: at most one recording per key.
type Registry struct {
	mu     sync.Mutex
	active map[string]Recording
}

func NewRegistry() *Registry {
	return &Registry{active: make(map[string]Recording)}
}

// Add claims the key for rec. It returns false when the key already has an
// active recording, in which case the caller must not start another one.
func (r *Registry) Add(key string, rec Recording) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.active[key]; ok {
		return false
	}
	r.active[key] = rec
	return true
}

func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, key)
}

func (r *Registry) Snapshot() []Recording {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recording, 0, len(r.active))
	for _, rec := range r.active {
		out = append(out, rec)
	}
	return out
}

// Default is the daemon-wide registry, fed by workers and read by the
// status server.
var Default = NewRegistry()
