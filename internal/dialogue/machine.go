// Package dialogue drives the area → recommendation conversation of one user.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"ac-advisor/internal/recommend"
	"ac-advisor/internal/session"
	"ac-advisor/internal/storage"
)

// Option is an affordance offered together with a message.
type Option int

const (
	// OptionNewCalculation lets the user start over from a finished result.
	OptionNewCalculation Option = iota + 1
)

// Presenter delivers messages to a user.
type Presenter interface {
	Prompt(ctx context.Context, userID int64, text string, options ...Option) error
}

// Auditor receives a summary of every completed calculation. It must not block.
type Auditor interface {
	RecordCalculation(c storage.Calculation)
}

// Recommender is satisfied by *recommend.Engine.
type Recommender interface {
	Recommend(area float64) (recommend.Result, error)
}

// Machine is the dialogue state machine. Calls for different users may run
// concurrently; calls for one user are expected to be serialized by the
// caller. Sessions are generation-tagged, so a turn that lost a race with a
// newer Start or Cancel does not touch the newer session.
type Machine struct {
	sessions  *session.Registry
	engine    Recommender
	presenter Presenter
	auditor   Auditor
	now       func() time.Time
}

func NewMachine(sessions *session.Registry, engine Recommender, presenter Presenter, auditor Auditor) *Machine {
	return &Machine{
		sessions:  sessions,
		engine:    engine,
		presenter: presenter,
		auditor:   auditor,
		now:       time.Now,
	}
}

// State returns the user's current dialogue state.
func (m *Machine) State(userID int64) session.State {
	s, ok := m.sessions.Get(userID)
	if !ok {
		return session.Idle
	}
	return s.State
}

// Start opens a fresh session, discarding any session in progress.
func (m *Machine) Start(ctx context.Context, userID int64) error {
	m.sessions.Begin(userID, session.AwaitingArea)
	return m.presenter.Prompt(ctx, userID, promptText)
}

// Restart is Start triggered from the "new calculation" button.
func (m *Machine) Restart(ctx context.Context, userID int64) error {
	m.sessions.Begin(userID, session.AwaitingArea)
	return m.presenter.Prompt(ctx, userID, restartPromptText)
}

// Cancel aborts the user's session. It reports false when there was nothing
// to cancel.
func (m *Machine) Cancel(ctx context.Context, userID int64) (bool, error) {
	s, ok := m.sessions.Get(userID)
	if !ok || s.State != session.AwaitingArea {
		return false, nil
	}
	if !m.sessions.RemoveIf(userID, s.Generation) {
		return false, nil
	}
	return true, m.presenter.Prompt(ctx, userID, cancelledText)
}

// HandleText interprets a free-text reply as the area answer. It reports
// false, without replying, when the user has no session waiting for an area:
// such text belongs to other features.
func (m *Machine) HandleText(ctx context.Context, userID int64, text string) (bool, error) {
	s, ok := m.sessions.Get(userID)
	if !ok || s.State != session.AwaitingArea {
		return false, nil
	}

	area, err := ParseArea(text)
	if err != nil {
		m.sessions.Touch(userID, s.Generation)
		return true, m.presenter.Prompt(ctx, userID, notANumberText)
	}

	res, err := m.engine.Recommend(area)
	if errors.Is(err, recommend.ErrOutOfRange) {
		m.sessions.Touch(userID, s.Generation)
		return true, m.presenter.Prompt(ctx, userID, outOfRangeText())
	}
	if err != nil {
		return true, fmt.Errorf("recommend: %w", err)
	}

	if !m.sessions.RemoveIf(userID, s.Generation) {
		// superseded while computing; the newer session owns the conversation
		log.Printf("dialogue: dropping stale result for user %d (generation %d)", userID, s.Generation)
		return true, nil
	}

	if m.auditor != nil {
		m.auditor.RecordCalculation(storage.Calculation{
			Timestamp:  m.now().UTC(),
			UserID:     userID,
			Area:       res.Area,
			Capacity:   res.Capacity,
			MatchCount: res.MatchCount,
		})
	}
	log.Printf("🔢 calculation for user %d: area=%v btu=%d matches=%d", userID, res.Area, res.Capacity, res.MatchCount)
	return true, m.presenter.Prompt(ctx, userID, FormatResult(res), OptionNewCalculation)
}

// IdleSessions returns the sessions waiting for an area longer than maxIdle.
// It does not change them; each one is closed with ExpireSession on its
// user's lane.
func (m *Machine) IdleSessions(maxIdle time.Duration) []session.Session {
	var out []session.Session
	for _, s := range m.sessions.IdleSince(m.now().Add(-maxIdle)) {
		if s.State == session.AwaitingArea {
			out = append(out, s)
		}
	}
	return out
}

// ExpireSession cancels idle and notifies its user, unless the session was
// replaced or saw activity after it was found idle.
func (m *Machine) ExpireSession(ctx context.Context, idle session.Session) bool {
	cur, ok := m.sessions.Get(idle.UserID)
	if !ok || cur.Generation != idle.Generation || cur.UpdatedAt.After(idle.UpdatedAt) {
		return false
	}
	if !m.sessions.RemoveIf(idle.UserID, idle.Generation) {
		return false
	}
	if err := m.presenter.Prompt(ctx, idle.UserID, expiredText); err != nil {
		log.Printf("failed to notify user %d about expired session: %v", idle.UserID, err)
	}
	return true
}
