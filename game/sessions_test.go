package game

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestRegistry() *SessionRegistry {
	return NewSessionRegistry(DefaultSettings(), NewCardCatalog(), zap.NewNop().Sugar())
}

func TestSessionRegistry_GetOrCreate(t *testing.T) {
	r := newTestRegistry()
	defer r.Stop()

	s1 := r.GetOrCreate("room1", newCaptureSink())
	defer s1.Close()

	if got := s1.Phase(); got != PhaseSelection {
		t.Fatalf("new session phase = %s, want %s", got, PhaseSelection)
	}
	if again := r.GetOrCreate("room1", newCaptureSink()); again != s1 {
		t.Fatal("GetOrCreate returned a second engine for the same id")
	}
	if _, ok := r.Get("room2"); ok {
		t.Fatal("Get found a session that was never created")
	}
}

func TestSessionRegistry_Snapshots(t *testing.T) {
	r := newTestRegistry()
	defer r.Stop()

	b := r.GetOrCreate("b", newCaptureSink())
	a := r.GetOrCreate("a", newCaptureSink())
	defer b.Close()
	defer a.Close()

	snaps := r.Snapshots()
	if len(snaps) != 2 || snaps[0].SessionID != "a" || snaps[1].SessionID != "b" {
		t.Fatalf("snapshots = %+v, want sessions a then b", snaps)
	}
}

func TestSessionRegistry_SweepDestroysEmptySessions(t *testing.T) {
	r := newTestRegistry()
	defer r.Stop()

	idle := r.GetOrCreate("idle", newCaptureSink())
	busy := r.GetOrCreate("busy", newCaptureSink())
	defer idle.Close()
	defer busy.Close()

	if err := busy.Join(JoinCommand{PlayerID: "p1", PlayerName: "Alice"}); err != nil {
		t.Fatalf("join: %v", err)
	}

	r.sweep(0)

	if _, ok := r.Get("idle"); ok {
		t.Fatal("empty session survived the sweep")
	}
	if _, ok := r.Get("busy"); !ok {
		t.Fatal("occupied session was swept")
	}
}

func TestSessionRegistry_Remove(t *testing.T) {
	r := newTestRegistry()
	defer r.Stop()

	s := r.GetOrCreate("room1", newCaptureSink())
	r.Remove("room1")

	if _, ok := r.Get("room1"); ok {
		t.Fatal("session still registered after Remove")
	}
	// Removing twice is a no-op.
	r.Remove("room1")
	_ = s
}

func TestSession_EmptyFor(t *testing.T) {
	s, _, _ := newTestSession(t, testSettings())

	if !s.EmptyFor(0) {
		t.Fatal("fresh session with no players should report empty")
	}
	join(t, s, "p1", "Alice")
	if s.EmptyFor(0) {
		t.Fatal("session with a player reported empty")
	}
	if err := s.Leave("p1"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if s.EmptyFor(time.Hour) {
		t.Fatal("just-emptied session reported empty past a long grace")
	}
	if !s.EmptyFor(0) {
		t.Fatal("emptied session should report empty with zero grace")
	}
}
