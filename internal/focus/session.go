// Package focus tracks timed work sessions against tasks. Sessions are
// ephemeral; a restart loses the running timer.
package focus

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"tasktrove/internal/model"
)

var (
	ErrNoSession     = errors.New("focus: no active session")
	ErrSessionActive = errors.New("focus: a session is already active")
)

type Session struct {
	ID             string       `json:"id"`
	TaskID         model.TaskID `json:"taskId,omitempty"`
	StartedAt      time.Time    `json:"startedAt"`
	PlannedMinutes int          `json:"plannedMinutes"`
}

// Elapsed reports whole minutes since the session started, never negative.
func (s Session) Elapsed(now time.Time) int {
	d := now.Sub(s.StartedAt)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

func newSessionID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return "focus_" + hex.EncodeToString(b)
}

// Tracker holds at most one active session per user.
type Tracker struct {
	mu             sync.Mutex
	sessions       map[string]Session
	defaultMinutes int
	now            func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		sessions:       make(map[string]Session),
		defaultMinutes: 25,
		now:            time.Now,
	}
}

// SetDefaultMinutes overrides the planned length used when a session is
// started without an explicit duration.
func (t *Tracker) SetDefaultMinutes(minutes int) {
	if minutes > 0 {
		t.defaultMinutes = minutes
	}
}

func (t *Tracker) Start(userID string, taskID model.TaskID, plannedMinutes int) (Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.sessions[userID]; ok {
		return Session{}, ErrSessionActive
	}
	if plannedMinutes <= 0 {
		plannedMinutes = t.defaultMinutes
	}
	s := Session{
		ID:             newSessionID(),
		TaskID:         taskID,
		StartedAt:      t.now(),
		PlannedMinutes: plannedMinutes,
	}
	t.sessions[userID] = s
	return s, nil
}

func (t *Tracker) Current(userID string) (Session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[userID]
	return s, ok
}

// Stop ends the active session and returns it plus the elapsed minutes.
func (t *Tracker) Stop(userID string) (Session, int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[userID]
	if !ok {
		return Session{}, 0, ErrNoSession
	}
	delete(t.sessions, userID)
	return s, s.Elapsed(t.now()), nil
}
