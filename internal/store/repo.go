package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	UserID string    // empty = all learners
	Limit  int       // max results (0 = unlimited)
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// SessionEventData captures one session lifecycle event.
type SessionEventData struct {
	UserID       string
	SessionID    string
	Action       string // "start" or "end"
	DurationMins int
}

// CompletionEventData captures one lesson completion and its push outcome.
type CompletionEventData struct {
	UserID       string
	LessonID     int
	RemoteSynced bool
	ErrorMessage string
}

// SessionEvent is a stored session lifecycle event.
type SessionEvent struct {
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// CompletionEvent is a stored completion event.
type CompletionEvent struct {
	Sequence  int64
	Timestamp time.Time
	CompletionEventData
}

// EventRepo provides append and query access to learner events.
type EventRepo interface {
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
	AppendCompletionEvent(ctx context.Context, data CompletionEventData) error

	// QuerySessionEvents returns session events, newest first.
	QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error)

	// QueryCompletionEvents returns completion events, newest first.
	QueryCompletionEvents(ctx context.Context, opts QueryOpts) ([]CompletionEvent, error)
}

// ProgressRow is the authority's copy of one (user, lesson) record.
type ProgressRow struct {
	UserID      string
	LessonID    int
	Completed   bool
	CompletedAt *time.Time
}

// ProgressRepo is the authority-side store of learner progress.
type ProgressRepo interface {
	// List returns every row for the learner ordered by lesson.
	List(ctx context.Context, userID string) ([]ProgressRow, error)

	// Upsert stores row keyed by (user, lesson). A completed row is never
	// downgraded and keeps its first completion time.
	Upsert(ctx context.Context, row ProgressRow) (ProgressRow, error)
}
