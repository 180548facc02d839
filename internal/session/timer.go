// Package session tracks time-on-task for the current tutorial session.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/gotutor/internal/logger"
	"github.com/abhisek/gotutor/internal/store"
)

// Session event actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
)

// MinuteStore holds the cumulative time-on-task. progress.LocalCache
// satisfies it.
type MinuteStore interface {
	TotalMinutes(ctx context.Context, userID string) int
	AddMinutes(ctx context.Context, userID string, n int) error
}

// EventLog records session boundaries. store.EventRepo satisfies it.
type EventLog interface {
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
}

// Timer measures whole elapsed minutes of one session at a time and adds
// them to the stored cumulative total on every tick and at the end. Minutes
// already added are remembered, so nothing is counted twice.
type Timer struct {
	userID  string
	minutes MinuteStore
	events  EventLog
	log     *logger.Logger

	mu      sync.Mutex
	id      string
	start   time.Time
	flushed int
	active  bool
}

// NewTimer returns an idle timer. events may be nil.
func NewTimer(userID string, minutes MinuteStore, events EventLog, log *logger.Logger) *Timer {
	if log == nil {
		log = logger.Nop()
	}
	return &Timer{
		userID:  userID,
		minutes: minutes,
		events:  events,
		log:     log.Named("session"),
	}
}

// Start begins a new session at now and returns its ID. A running session
// is ended first.
func (t *Timer) Start(ctx context.Context, now time.Time) string {
	t.mu.Lock()
	running := t.active
	t.mu.Unlock()
	if running {
		if _, err := t.End(ctx, now); err != nil {
			t.log.Warn("end previous session", "err", err)
		}
	}

	t.mu.Lock()
	t.id = uuid.New().String()
	t.start = now
	t.flushed = 0
	t.active = true
	id := t.id
	t.mu.Unlock()

	t.appendEvent(ctx, store.SessionEventData{
		UserID:    t.userID,
		SessionID: id,
		Action:    ActionStart,
	})
	t.log.Debug("session started", "session_id", id)
	return id
}

// Elapsed returns whole minutes since the session started, or zero when idle.
func (t *Timer) Elapsed(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsedLocked(now)
}

func (t *Timer) elapsedLocked(now time.Time) int {
	if !t.active || now.Before(t.start) {
		return 0
	}
	return int(now.Sub(t.start) / time.Minute)
}

// Tick adds the minutes elapsed since the last flush to the stored total.
// It returns the number of minutes added.
func (t *Timer) Tick(ctx context.Context, now time.Time) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flushLocked(ctx, now)
}

func (t *Timer) flushLocked(ctx context.Context, now time.Time) (int, error) {
	if !t.active {
		return 0, nil
	}
	elapsed := t.elapsedLocked(now)
	delta := elapsed - t.flushed
	if delta <= 0 {
		return 0, nil
	}
	if err := t.minutes.AddMinutes(ctx, t.userID, delta); err != nil {
		return 0, fmt.Errorf("flush session minutes: %w", err)
	}
	t.flushed = elapsed
	return delta, nil
}

// End flushes remaining minutes and closes the session. It returns the
// session's total elapsed minutes.
func (t *Timer) End(ctx context.Context, now time.Time) (int, error) {
	t.mu.Lock()
	if !t.active {
		t.mu.Unlock()
		return 0, nil
	}
	_, err := t.flushLocked(ctx, now)
	elapsed := t.elapsedLocked(now)
	id := t.id
	t.active = false
	t.mu.Unlock()

	t.appendEvent(ctx, store.SessionEventData{
		UserID:       t.userID,
		SessionID:    id,
		Action:       ActionEnd,
		DurationMins: elapsed,
	})
	t.log.Debug("session ended", "session_id", id, "minutes", elapsed)
	return elapsed, err
}

// TimeOnTask returns the stored cumulative total plus the minutes of the
// current session not yet flushed.
func (t *Timer) TimeOnTask(ctx context.Context, now time.Time) int {
	t.mu.Lock()
	pending := t.elapsedLocked(now) - t.flushed
	t.mu.Unlock()
	if pending < 0 {
		pending = 0
	}
	return t.minutes.TotalMinutes(ctx, t.userID) + pending
}

// ID returns the current session ID, empty when idle.
func (t *Timer) ID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return ""
	}
	return t.id
}

// Active reports whether a session is running.
func (t *Timer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *Timer) appendEvent(ctx context.Context, data store.SessionEventData) {
	if t.events == nil {
		return
	}
	if err := t.events.AppendSessionEvent(ctx, data); err != nil {
		t.log.Warn("append session event", "action", data.Action, "err", err)
	}
}
