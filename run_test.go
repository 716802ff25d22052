package main

import (
	"sync"
	"testing"

	"github.com/reisen39/namarec/config"
)

func TestTaskStatusSingleWorkerPerChannel(t *testing.T) {
	s := newTaskStatus()
	if !s.tryStart("Youtube|chan1") {
		t.Fatal("first tryStart() refused")
	}
	if s.tryStart("Youtube|chan1") {
		t.Error("second tryStart() for a busy channel must be refused")
	}
	if !s.tryStart("Youtube|chan2") {
		t.Error("tryStart() for another channel refused")
	}
	s.done("Youtube|chan1")
	if !s.tryStart("Youtube|chan1") {
		t.Error("tryStart() after done() refused")
	}
}

// A recording can run for hours, so its worker routinely outlives the
// config entry it was started from. Finishing after the channel list
// shrank must only clear the worker's own slot.
func TestTaskStatusSurvivesChannelRemoval(t *testing.T) {
	module := config.ModuleConfig{Name: "Youtube", Users: []config.UsersConfig{
		{TargetId: "chan1"},
		{TargetId: "chan2"},
	}}
	s := newTaskStatus()
	for _, u := range module.Users {
		if !s.tryStart(taskKey(module, u)) {
			t.Fatalf("tryStart(%s) refused", u.TargetId)
		}
	}

	removed := module.Users[1]
	module.Users = module.Users[:1]

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.done(taskKey(module, removed))
	}()
	go func() {
		defer wg.Done()
		s.done(taskKey(module, module.Users[0]))
	}()
	wg.Wait()

	if !s.tryStart(taskKey(module, module.Users[0])) {
		t.Error("surviving channel still marked busy after done()")
	}
}
