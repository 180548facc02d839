package store

import (
	"context"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.Client() == nil {
		t.Fatal("expected non-nil ent client")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// In-memory databases report "memory" for journal_mode.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSlotMissing(t *testing.T) {
	s := openTestStore(t)
	data, ok, err := s.SlotRepo().GetSlot(context.Background(), "u1", "records")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok || data != nil {
		t.Fatalf("expected missing slot, got ok=%v data=%q", ok, data)
	}
}

func TestSlotPutOverwrites(t *testing.T) {
	s := openTestStore(t)
	repo := s.SlotRepo()
	ctx := context.Background()

	if err := repo.PutSlot(ctx, "u1", "records", []byte(`[1]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.PutSlot(ctx, "u1", "records", []byte(`[1,2]`)); err != nil {
		t.Fatalf("put again: %v", err)
	}

	data, ok, err := repo.GetSlot(ctx, "u1", "records")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || string(data) != `[1,2]` {
		t.Fatalf("got ok=%v data=%q, want [1,2]", ok, data)
	}

	n, err := s.Client().ProgressSlot.Query().Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("slot rows = %d, want 1", n)
	}
}

func TestSlotsAreScopedPerUser(t *testing.T) {
	s := openTestStore(t)
	repo := s.SlotRepo()
	ctx := context.Background()

	for _, u := range []string{"alice", "bob"} {
		if err := repo.PutSlot(ctx, u, "time_spent", []byte(u)); err != nil {
			t.Fatalf("put %s: %v", u, err)
		}
	}
	if err := repo.DeleteSlots(ctx, "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, ok, _ := repo.GetSlot(ctx, "alice", "time_spent"); ok {
		t.Error("alice slot survived delete")
	}
	data, ok, _ := repo.GetSlot(ctx, "bob", "time_spent")
	if !ok || string(data) != "bob" {
		t.Errorf("bob slot = %q ok=%v, want bob", data, ok)
	}
}

func TestSessionEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, a := range []string{"start", "tick", "end"} {
		err := repo.AppendSessionEvent(ctx, SessionEventData{
			UserID:       "u1",
			SessionID:    "sess-1",
			Action:       a,
			DurationMins: 1,
		})
		if err != nil {
			t.Fatalf("append %s: %v", a, err)
		}
	}

	events, err := repo.QuerySessionEvents(ctx, QueryOpts{UserID: "u1"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Action != "end" || events[2].Action != "start" {
		t.Errorf("expected newest first, got %s..%s", events[0].Action, events[2].Action)
	}
	if events[0].Sequence <= events[1].Sequence {
		t.Errorf("sequence not descending: %d, %d", events[0].Sequence, events[1].Sequence)
	}

	limited, err := repo.QuerySessionEvents(ctx, QueryOpts{UserID: "u1", Limit: 2})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit 2 returned %d", len(limited))
	}

	other, err := repo.QuerySessionEvents(ctx, QueryOpts{UserID: "u2"})
	if err != nil {
		t.Fatalf("query other: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected no events for u2, got %d", len(other))
	}
}

func TestCompletionEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendCompletionEvent(ctx, CompletionEventData{UserID: "u1", LessonID: 1, RemoteSynced: true}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.AppendCompletionEvent(ctx, CompletionEventData{UserID: "u1", LessonID: 2, ErrorMessage: "connection refused"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := repo.QueryCompletionEvents(ctx, QueryOpts{UserID: "u1"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].LessonID != 2 || events[0].RemoteSynced || events[0].ErrorMessage != "connection refused" {
		t.Errorf("unexpected newest event: %+v", events[0])
	}
	if events[1].LessonID != 1 || !events[1].RemoteSynced {
		t.Errorf("unexpected oldest event: %+v", events[1])
	}

	future, err := repo.QueryCompletionEvents(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("query from: %v", err)
	}
	if len(future) != 0 {
		t.Errorf("expected no events after now+1h, got %d", len(future))
	}
}

func TestProgressUpsertNeverDowngrades(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	first := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)

	got, err := repo.Upsert(ctx, ProgressRow{UserID: "u1", LessonID: 3, Completed: true, CompletedAt: &first})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !got.Completed || got.CompletedAt == nil || !got.CompletedAt.Equal(first) {
		t.Fatalf("unexpected row after create: %+v", got)
	}

	got, err = repo.Upsert(ctx, ProgressRow{UserID: "u1", LessonID: 3, Completed: true, CompletedAt: &later})
	if err != nil {
		t.Fatalf("upsert again: %v", err)
	}
	if !got.CompletedAt.Equal(first) {
		t.Errorf("completed_at = %v, want first completion %v", got.CompletedAt, first)
	}

	got, err = repo.Upsert(ctx, ProgressRow{UserID: "u1", LessonID: 3, Completed: false})
	if err != nil {
		t.Fatalf("upsert downgrade: %v", err)
	}
	if !got.Completed {
		t.Error("completed lesson was downgraded")
	}

	rows, err := repo.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
}

func TestProgressUpsertPromotesIncomplete(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	if _, err := repo.Upsert(ctx, ProgressRow{UserID: "u1", LessonID: 1}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	at := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	got, err := repo.Upsert(ctx, ProgressRow{UserID: "u1", LessonID: 1, Completed: true, CompletedAt: &at})
	if err != nil {
		t.Fatalf("upsert complete: %v", err)
	}
	if !got.Completed || got.CompletedAt == nil {
		t.Errorf("expected completed row, got %+v", got)
	}
}

func TestProgressListOrdered(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	for _, id := range []int{5, 2, 9} {
		if _, err := repo.Upsert(ctx, ProgressRow{UserID: "u1", LessonID: id}); err != nil {
			t.Fatalf("upsert %d: %v", id, err)
		}
	}
	rows, err := repo.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []int{2, 5, 9}
	for i, r := range rows {
		if r.LessonID != want[i] {
			t.Errorf("rows[%d].LessonID = %d, want %d", i, r.LessonID, want[i])
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	seq1, err := s.seq.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	seq2, err := s.seq.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if seq2 != seq1+1 {
		t.Errorf("expected sequential: %d, %d", seq1, seq2)
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tables := []string{
		"session_events",
		"completion_events",
		"progress_slots",
		"progress_records",
		"global_sequence",
	}
	for _, table := range tables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}
