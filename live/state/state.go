package state

import (
	"encoding/json"
	"errors"
	"io/ioutil"
	"os"
	"syscall"

	"github.com/gofrs/flock"
	log "github.com/sirupsen/logrus"
)

var ErrAlreadyActive = errors.New("another downloader is still active for this target")

// FileStore persists the active-downloader set across processes, so one-shot
// record runs and the daemon cannot double-start on the same target. The
// JSON file is guarded by a flock held only for the duration of each update.
type FileStore struct {
	path string
	lock *flock.Flock
}

type stateData struct {
	ActiveDownloaders map[string]int `json:"active_downloaders"`
}

func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

func (s *FileStore) load() *stateData {
	data := &stateData{ActiveDownloaders: make(map[string]int)}
	raw, err := ioutil.ReadFile(s.path)
	if err != nil {
		return data
	}
	if err := json.Unmarshal(raw, data); err != nil {
		// A corrupt state file must not wedge recording forever.
		log.Warnf("state file %s unreadable, starting fresh: %v", s.path, err)
		return &stateData{ActiveDownloaders: make(map[string]int)}
	}
	if data.ActiveDownloaders == nil {
		data.ActiveDownloaders = make(map[string]int)
	}
	return data
}

func (s *FileStore) save(data *stateData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(s.path, raw, 0644)
}

// Acquire registers pid as the downloader for target. A recorded pid that is
// still alive means someone else owns the target; a dead one is stale state
// from a crashed downloader and gets replaced.
func (s *FileStore) Acquire(target string, pid int) error {
	if err := s.lock.Lock(); err != nil {
		return err
	}
	defer s.lock.Unlock()

	data := s.load()
	if oldPid, ok := data.ActiveDownloaders[target]; ok {
		if PidAlive(oldPid) {
			log.Infof("%s is being downloaded by pid %d", target, oldPid)
			return ErrAlreadyActive
		}
		log.Infof("downloader pid %d for %s is dead, taking over", oldPid, target)
	}
	data.ActiveDownloaders[target] = pid
	return s.save(data)
}

// Release drops target's entry only when pid owns it. A forced run that
// never acquired the entry must not take the live owner's claim with it.
func (s *FileStore) Release(target string, pid int) error {
	if err := s.lock.Lock(); err != nil {
		return err
	}
	defer s.lock.Unlock()

	data := s.load()
	if owner, ok := data.ActiveDownloaders[target]; !ok || owner != pid {
		return nil
	}
	delete(data.ActiveDownloaders, target)
	return s.save(data)
}

// PidAlive checks liveness with a null signal.
func PidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
