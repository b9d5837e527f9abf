package game

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SessionRegistry owns the live sessions. Each session gets its own
// scheduler and rand source; the registry only handles lifecycle.
type SessionRegistry struct {
	settings Settings
	catalog  *CardCatalog
	log      *zap.SugaredLogger

	mu       sync.Mutex
	sessions map[string]*Session
	stop     chan struct{}
	stopOnce sync.Once
}

func NewSessionRegistry(settings Settings, catalog *CardCatalog, log *zap.SugaredLogger) *SessionRegistry {
	return &SessionRegistry{
		settings: settings,
		catalog:  catalog,
		log:      log,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
	}
}

// GetOrCreate returns the session with the given id, creating and starting
// it on first use. The sink wires the session's events to its participants.
func (r *SessionRegistry) GetOrCreate(id string, sink EventSink) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		return s
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	s := NewSession(id, r.settings, r.catalog, NewTimerScheduler(), sink, rng, r.log)
	r.sessions[id] = s
	s.Start()
	r.log.Infof("[Registry] created session %s", id)
	return s
}

func (r *SessionRegistry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Snapshots returns a snapshot of every live session, ordered by id.
func (r *SessionRegistry) Snapshots() []Snapshot {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	out := make([]Snapshot, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out
}

// Remove destroys the session with the given id, cancelling its timers.
func (r *SessionRegistry) Remove(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		s.Close()
		r.log.Infof("[Registry] destroyed session %s", id)
	}
}

// StartSweeper destroys sessions that have been empty past grace. Runs
// until Stop.
func (r *SessionRegistry) StartSweeper(interval, grace time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				r.sweep(grace)
			case <-r.stop:
				return
			}
		}
	}()
}

func (r *SessionRegistry) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *SessionRegistry) sweep(grace time.Duration) {
	r.mu.Lock()
	var stale []*Session
	for id, s := range r.sessions {
		if s.EmptyFor(grace) {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Close()
		r.log.Infof("[Registry] destroyed idle session %s", s.ID)
	}
}
