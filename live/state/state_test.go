package state

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestRegistrySingleRecordingPerKey(t *testing.T) {
	r := NewRegistry()
	if !r.Add("Youtube|chan1", Recording{User: "chan1"}) {
		t.Fatal("first Add() refused")
	}
	if r.Add("Youtube|chan1", Recording{User: "chan1"}) {
		t.Error("second Add() for the same key must be refused")
	}
	if !r.Add("Youtube|chan2", Recording{User: "chan2"}) {
		t.Error("Add() for a different key refused")
	}
	if got := len(r.Snapshot()); got != 2 {
		t.Errorf("Snapshot() len = %d, want 2", got)
	}
	r.Remove("Youtube|chan1")
	if !r.Add("Youtube|chan1", Recording{User: "chan1"}) {
		t.Error("Add() after Remove() refused")
	}
}

func TestFileStoreAcquireRelease(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "state.json"))

	if err := s.Acquire("vid1", os.Getpid()); err != nil {
		t.Fatalf("Acquire() err: %v", err)
	}
	// our own pid is alive, so a second acquire must fail
	if err := s.Acquire("vid1", os.Getpid()); err != ErrAlreadyActive {
		t.Errorf("Acquire() again = %v, want ErrAlreadyActive", err)
	}
	if err := s.Release("vid1", os.Getpid()); err != nil {
		t.Fatalf("Release() err: %v", err)
	}
	if err := s.Acquire("vid1", os.Getpid()); err != nil {
		t.Errorf("Acquire() after Release() err: %v", err)
	}
}

func TestFileStoreReleaseKeepsForeignEntry(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "state.json"))

	if err := s.Acquire("vid1", os.Getpid()); err != nil {
		t.Fatalf("Acquire() err: %v", err)
	}
	// a forced run that lost the acquire exits and releases on its way out
	if err := s.Release("vid1", os.Getpid()+1); err != nil {
		t.Fatalf("Release() with foreign pid err: %v", err)
	}
	if err := s.Acquire("vid1", os.Getpid()); err != ErrAlreadyActive {
		t.Errorf("owner's claim gone: Acquire() = %v, want ErrAlreadyActive", err)
	}
}

func TestFileStoreStalePid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	// a crashed downloader left its pid behind
	stale := map[string]map[string]int{
		"active_downloaders": {"vid1": 99999999},
	}
	raw, _ := json.Marshal(stale)
	if err := ioutil.WriteFile(path, raw, 0644); err != nil {
		t.Fatal(err)
	}

	s := NewFileStore(path)
	if err := s.Acquire("vid1", os.Getpid()); err != nil {
		t.Errorf("Acquire() with stale pid err: %v, want takeover", err)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	if err := ioutil.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path)
	if err := s.Acquire("vid1", os.Getpid()); err != nil {
		t.Errorf("Acquire() on corrupt state err: %v", err)
	}
}
