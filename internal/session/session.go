package session

import (
	"sync"
	"time"
)

type State int

const (
	Idle State = iota
	AwaitingArea
	Completed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingArea:
		return "awaiting_area"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Session is the dialogue progress of one user. Generation is unique per
// Begin call, so a turn that started on an older session can tell it has been
// superseded.
type Session struct {
	UserID     int64
	State      State
	Generation uint64
	StartedAt  time.Time
	UpdatedAt  time.Time
}

// Registry maps user ids to their current session. A missing entry means Idle.
type Registry struct {
	mu       sync.RWMutex
	sessions map[int64]Session
	lastGen  uint64
	now      func() time.Time
}

func NewRegistry() *Registry {
	return NewRegistryWithClock(time.Now)
}

// NewRegistryWithClock is NewRegistry with an injected time source.
func NewRegistryWithClock(now func() time.Time) *Registry {
	return &Registry{sessions: make(map[int64]Session), now: now}
}

func (r *Registry) Get(userID int64) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[userID]
	return s, ok
}

func (r *Registry) Set(userID int64, s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.UserID = userID
	r.sessions[userID] = s
}

func (r *Registry) Remove(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}

// Begin replaces any session of the user with a fresh one in the given state.
func (r *Registry) Begin(userID int64, state State) Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastGen++
	now := r.now()
	s := Session{UserID: userID, State: state, Generation: r.lastGen, StartedAt: now, UpdatedAt: now}
	r.sessions[userID] = s
	return s
}

// Touch refreshes UpdatedAt if the session of the given generation is still current.
func (r *Registry) Touch(userID int64, generation uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	if !ok || s.Generation != generation {
		return false
	}
	s.UpdatedAt = r.now()
	r.sessions[userID] = s
	return true
}

// RemoveIf deletes the user's session only when it still has the given
// generation. It reports whether a session was removed.
func (r *Registry) RemoveIf(userID int64, generation uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	if !ok || s.Generation != generation {
		return false
	}
	delete(r.sessions, userID)
	return true
}

// IdleSince returns the sessions not updated after cutoff.
func (r *Registry) IdleSince(cutoff time.Time) []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Session
	for _, s := range r.sessions {
		if !s.UpdatedAt.After(cutoff) {
			out = append(out, s)
		}
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
