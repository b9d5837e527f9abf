package game

import (
	"sync"
	"time"
)

// Scheduler owns one session's timers. Scheduling a name already in use
// replaces the previous timer. A callback racing a cancel may still land
// once after Cancel returns; session callbacks re-check phase under the
// session lock, so a stale tick is a no-op.
type Scheduler interface {
	Once(name string, d time.Duration, fn func())
	Repeat(name string, d time.Duration, fn func())
	Cancel(name string)
	CancelAll()
}

// TimerScheduler is the real-time Scheduler backed by the runtime clock.
type TimerScheduler struct {
	mu    sync.Mutex
	stops map[string]chan struct{}
}

func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{stops: make(map[string]chan struct{})}
}

func (s *TimerScheduler) Once(name string, d time.Duration, fn func()) {
	stop := s.register(name)
	go func() {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			s.unregister(name, stop)
			fn()
		case <-stop:
		}
	}()
}

func (s *TimerScheduler) Repeat(name string, d time.Duration, fn func()) {
	stop := s.register(name)
	go func() {
		t := time.NewTicker(d)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				fn()
			case <-stop:
				return
			}
		}
	}()
}

func (s *TimerScheduler) Cancel(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stop, ok := s.stops[name]; ok {
		close(stop)
		delete(s.stops, name)
	}
}

func (s *TimerScheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, stop := range s.stops {
		close(stop)
		delete(s.stops, name)
	}
}

func (s *TimerScheduler) register(name string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.stops[name]; ok {
		close(old)
	}
	stop := make(chan struct{})
	s.stops[name] = stop
	return stop
}

// unregister drops name only if stop is still its current channel, so a
// fired one-shot never cancels a timer scheduled under the same name later.
func (s *TimerScheduler) unregister(name string, stop chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stops[name] == stop {
		delete(s.stops, name)
	}
}
