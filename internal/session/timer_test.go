package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/gotutor/internal/progress"
	"github.com/abhisek/gotutor/internal/store"
)

type memMinutes struct {
	total int
	err   error
}

func (m *memMinutes) TotalMinutes(context.Context, string) int { return m.total }

func (m *memMinutes) AddMinutes(_ context.Context, _ string, n int) error {
	if m.err != nil {
		return m.err
	}
	m.total += n
	return nil
}

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestElapsedWholeMinutes(t *testing.T) {
	tm := NewTimer("u1", &memMinutes{}, nil, nil)
	if got := tm.Elapsed(t0); got != 0 {
		t.Errorf("idle elapsed = %d", got)
	}
	tm.Start(context.Background(), t0)

	tests := []struct {
		after time.Duration
		want  int
	}{
		{0, 0},
		{59 * time.Second, 0},
		{time.Minute, 1},
		{150 * time.Second, 2},
		{-time.Minute, 0},
	}
	for _, tt := range tests {
		if got := tm.Elapsed(t0.Add(tt.after)); got != tt.want {
			t.Errorf("Elapsed(+%s) = %d, want %d", tt.after, got, tt.want)
		}
	}
}

func TestTickAndEndNeverDoubleCount(t *testing.T) {
	mins := &memMinutes{total: 10}
	tm := NewTimer("u1", mins, nil, nil)
	ctx := context.Background()
	tm.Start(ctx, t0)

	for i := 1; i <= 3; i++ {
		added, err := tm.Tick(ctx, t0.Add(time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if added != 1 {
			t.Errorf("tick %d added %d, want 1", i, added)
		}
	}
	// A second tick in the same minute adds nothing.
	if added, _ := tm.Tick(ctx, t0.Add(3*time.Minute+30*time.Second)); added != 0 {
		t.Errorf("repeat tick added %d", added)
	}

	if got := tm.TimeOnTask(ctx, t0.Add(4*time.Minute+10*time.Second)); got != 14 {
		t.Errorf("TimeOnTask = %d, want 14", got)
	}

	elapsed, err := tm.End(ctx, t0.Add(5*time.Minute))
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if elapsed != 5 {
		t.Errorf("session elapsed = %d, want 5", elapsed)
	}
	if mins.total != 15 {
		t.Errorf("stored total = %d, want 15", mins.total)
	}

	// Ending twice is harmless.
	if _, err := tm.End(ctx, t0.Add(9*time.Minute)); err != nil {
		t.Fatalf("second end: %v", err)
	}
	if mins.total != 15 {
		t.Errorf("stored total after second end = %d, want 15", mins.total)
	}
}

func TestNewSessionStartsAtZero(t *testing.T) {
	mins := &memMinutes{}
	tm := NewTimer("u1", mins, nil, nil)
	ctx := context.Background()

	first := tm.Start(ctx, t0)
	second := tm.Start(ctx, t0.Add(3*time.Minute))
	if first == second || second == "" {
		t.Errorf("session ids not distinct: %q, %q", first, second)
	}
	if mins.total != 3 {
		t.Errorf("restart should flush the previous session, total = %d", mins.total)
	}
	if got := tm.Elapsed(t0.Add(3 * time.Minute)); got != 0 {
		t.Errorf("new session elapsed = %d, want 0", got)
	}
}

func TestTickFailureRetriesLater(t *testing.T) {
	mins := &memMinutes{err: errors.New("disk full")}
	tm := NewTimer("u1", mins, nil, nil)
	ctx := context.Background()
	tm.Start(ctx, t0)

	if _, err := tm.Tick(ctx, t0.Add(2*time.Minute)); err == nil {
		t.Fatal("expected error")
	}
	mins.err = nil
	added, err := tm.Tick(ctx, t0.Add(3*time.Minute))
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if added != 3 || mins.total != 3 {
		t.Errorf("added=%d total=%d, want 3/3", added, mins.total)
	}
}

func TestTimerPersistsThroughLocalCacheAndEvents(t *testing.T) {
	name := strings.NewReplacer("/", "_").Replace(t.Name())
	s, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	cache := progress.NewLocalCache(s.SlotRepo(), nil)
	tm := NewTimer("u1", cache, s.EventRepo(), nil)
	id := tm.Start(ctx, t0)
	if _, err := tm.End(ctx, t0.Add(7*time.Minute)); err != nil {
		t.Fatalf("end: %v", err)
	}

	if got := cache.TotalMinutes(ctx, "u1"); got != 7 {
		t.Errorf("stored minutes = %d, want 7", got)
	}

	events, err := s.EventRepo().QuerySessionEvents(ctx, store.QueryOpts{UserID: "u1"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Action != ActionEnd || events[0].DurationMins != 7 || events[0].SessionID != id {
		t.Errorf("end event = %+v", events[0])
	}
	if events[1].Action != ActionStart || events[1].SessionID != id {
		t.Errorf("start event = %+v", events[1])
	}
}
