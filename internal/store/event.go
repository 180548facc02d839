package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/abhisek/gotutor/ent"
	"github.com/abhisek/gotutor/ent/completionevent"
	"github.com/abhisek/gotutor/ent/sessionevent"
)

// sequenceCounter hands out the global sequence number shared by every
// event table, so session and completion events can be interleaved in
// the order they happened.
//
// Kept in raw SQL because ent has no atomic counters. The mutex serializes
// within the process; RETURNING makes the increment atomic in the database.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// eventRepo implements EventRepo backed by ent and the global sequence counter.
type eventRepo struct {
	client *ent.Client
	seq    *sequenceCounter
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.client.SessionEvent.Create().
		SetSequence(seqNum).
		SetUserID(data.UserID).
		SetSessionID(data.SessionID).
		SetAction(data.Action).
		SetDurationMins(data.DurationMins).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendCompletionEvent(ctx context.Context, data CompletionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.client.CompletionEvent.Create().
		SetSequence(seqNum).
		SetUserID(data.UserID).
		SetLessonID(data.LessonID).
		SetRemoteSynced(data.RemoteSynced).
		SetErrorMessage(data.ErrorMessage).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save completion event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error) {
	q := r.client.SessionEvent.Query().
		Order(ent.Desc(sessionevent.FieldSequence))
	if opts.UserID != "" {
		q = q.Where(sessionevent.UserID(opts.UserID))
	}
	if !opts.From.IsZero() {
		q = q.Where(sessionevent.TimestampGTE(opts.From))
	}
	if !opts.To.IsZero() {
		q = q.Where(sessionevent.TimestampLTE(opts.To))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	rows, err := q.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}

	events := make([]SessionEvent, 0, len(rows))
	for _, e := range rows {
		events = append(events, SessionEvent{
			Sequence:  e.Sequence,
			Timestamp: e.Timestamp,
			SessionEventData: SessionEventData{
				UserID:       e.UserID,
				SessionID:    e.SessionID,
				Action:       e.Action,
				DurationMins: e.DurationMins,
			},
		})
	}
	return events, nil
}

func (r *eventRepo) QueryCompletionEvents(ctx context.Context, opts QueryOpts) ([]CompletionEvent, error) {
	q := r.client.CompletionEvent.Query().
		Order(ent.Desc(completionevent.FieldSequence))
	if opts.UserID != "" {
		q = q.Where(completionevent.UserID(opts.UserID))
	}
	if !opts.From.IsZero() {
		q = q.Where(completionevent.TimestampGTE(opts.From))
	}
	if !opts.To.IsZero() {
		q = q.Where(completionevent.TimestampLTE(opts.To))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	rows, err := q.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query completion events: %w", err)
	}

	events := make([]CompletionEvent, 0, len(rows))
	for _, e := range rows {
		events = append(events, CompletionEvent{
			Sequence:  e.Sequence,
			Timestamp: e.Timestamp,
			CompletionEventData: CompletionEventData{
				UserID:       e.UserID,
				LessonID:     e.LessonID,
				RemoteSynced: e.RemoteSynced,
				ErrorMessage: e.ErrorMessage,
			},
		})
	}
	return events, nil
}
