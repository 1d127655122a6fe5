package session

import (
	"testing"
	"time"
)

func TestRegistryGetSetRemove(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Get(1); ok {
		t.Fatalf("empty registry returned a session")
	}

	r.Set(1, Session{State: AwaitingArea})
	r.Set(2, Session{State: AwaitingArea})
	s, ok := r.Get(1)
	if !ok || s.State != AwaitingArea || s.UserID != 1 {
		t.Fatalf("unexpected session: %+v", s)
	}

	r.Remove(1)
	if _, ok := r.Get(1); ok {
		t.Fatalf("remove did not clear user 1")
	}
	if _, ok := r.Get(2); !ok {
		t.Fatalf("remove should not affect other users")
	}
	// idempotent
	r.Remove(1)
}

func TestRegistryBeginReplacesWithNewGeneration(t *testing.T) {
	r := NewRegistry()
	first := r.Begin(7, AwaitingArea)
	second := r.Begin(7, AwaitingArea)
	if second.Generation <= first.Generation {
		t.Fatalf("generation did not grow: %d -> %d", first.Generation, second.Generation)
	}
	if r.Len() != 1 {
		t.Fatalf("want one session per user, got %d", r.Len())
	}

	if r.RemoveIf(7, first.Generation) {
		t.Fatalf("stale generation removed the current session")
	}
	if r.Touch(7, first.Generation) {
		t.Fatalf("stale generation touched the current session")
	}
	if !r.RemoveIf(7, second.Generation) {
		t.Fatalf("current generation not removed")
	}
	if _, ok := r.Get(7); ok {
		t.Fatalf("session still present")
	}
}

func TestRegistryIdleSince(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	r := NewRegistry()
	r.now = func() time.Time { return now }
	r.Begin(1, AwaitingArea)

	now = now.Add(10 * time.Minute)
	fresh := r.Begin(2, AwaitingArea)

	idle := r.IdleSince(now.Add(-5 * time.Minute))
	if len(idle) != 1 || idle[0].UserID != 1 {
		t.Fatalf("unexpected idle set: %+v", idle)
	}

	now = now.Add(10 * time.Minute)
	r.Touch(2, fresh.Generation)
	idle = r.IdleSince(now.Add(-5 * time.Minute))
	if len(idle) != 1 || idle[0].UserID != 1 {
		t.Fatalf("touch did not refresh user 2: %+v", idle)
	}
}
