package tutor

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/abhisek/gotutor/internal/store"
)

// ActivityKind distinguishes timeline entries.
type ActivityKind string

const (
	ActivityCompletion ActivityKind = "completion"
	ActivitySession    ActivityKind = "session"
)

// Activity is one entry in the learner's timeline.
type Activity struct {
	Sequence int64
	Time     time.Time
	Kind     ActivityKind

	// Completion entries.
	LessonID     int
	LessonTitle  string
	Synced       bool
	ErrorMessage string

	// Session entries.
	SessionID string
	Action    string
	Minutes   int
}

// Summary is a one-line description of the entry.
func (a Activity) Summary() string {
	switch a.Kind {
	case ActivityCompletion:
		return fmt.Sprintf("Completed %s", a.LessonTitle)
	case ActivitySession:
		if a.Action == "end" {
			return fmt.Sprintf("Session ended after %dm", a.Minutes)
		}
		return "Session started"
	}
	return string(a.Kind)
}

// History merges the learner's completion and session events into one
// timeline, newest first. limit <= 0 means no limit.
func (e *Engine) History(ctx context.Context, events store.EventRepo, limit int) ([]Activity, error) {
	opts := store.QueryOpts{UserID: e.progress.UserID(), Limit: limit}

	completions, err := events.QueryCompletionEvents(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("query completion events: %w", err)
	}
	sessions, err := events.QuerySessionEvents(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}

	out := make([]Activity, 0, len(completions)+len(sessions))
	for _, c := range completions {
		title := fmt.Sprintf("Lesson %d", c.LessonID)
		if l, ok := e.catalog.Get(c.LessonID); ok {
			title = l.Title
		}
		out = append(out, Activity{
			Sequence:     c.Sequence,
			Time:         c.Timestamp,
			Kind:         ActivityCompletion,
			LessonID:     c.LessonID,
			LessonTitle:  title,
			Synced:       c.RemoteSynced,
			ErrorMessage: c.ErrorMessage,
		})
	}
	for _, s := range sessions {
		out = append(out, Activity{
			Sequence:  s.Sequence,
			Time:      s.Timestamp,
			Kind:      ActivitySession,
			SessionID: s.SessionID,
			Action:    s.Action,
			Minutes:   s.DurationMins,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Sequence > out[j].Sequence })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
