package progress

import (
	"context"
	"testing"
)

func TestLocalCacheLoadMissing(t *testing.T) {
	c := NewLocalCache(newMemSlots(), nil)
	got := c.Load(context.Background(), "u1")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil set, got %#v", got)
	}
}

func TestLocalCacheCorruptStorage(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{{{"},
		{"object not array", `{"user_id":"u1"}`},
		{"truncated", `[{"user_id":"u1","lesson_id":1,`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := newMemSlots()
			slots.set("u1", SlotRecords, tt.data)
			got := NewLocalCache(slots, nil).Load(context.Background(), "u1")
			if len(got) != 0 {
				t.Errorf("expected empty set, got %v", got)
			}
		})
	}
}

func TestLocalCacheDropsInvalidEntries(t *testing.T) {
	slots := newMemSlots()
	slots.set("u1", SlotRecords, `[
		{"user_id":"u1","lesson_id":1,"completed":true,"completed_at":"2025-03-01T10:00:00Z"},
		{"user_id":"u1","lesson_id":0,"completed":false},
		{"user_id":"u1","lesson_id":2,"completed":true},
		{"user_id":"u1","lesson_id":3,"completed":"yes"},
		{"user_id":"u1","lesson_id":4,"completed":true,"completed_at":"yesterday"},
		{"user_id":"u2","lesson_id":5,"completed":false},
		"garbage",
		{"user_id":"u1","lesson_id":6,"completed":false}
	]`)

	got := NewLocalCache(slots, nil).Load(context.Background(), "u1")
	if len(got) != 2 {
		t.Fatalf("expected 2 surviving records, got %d: %v", len(got), got)
	}
	if got[0].LessonID != 1 || got[1].LessonID != 6 {
		t.Errorf("unexpected survivors: %v", got)
	}
}

func TestLocalCacheUpsertRoundTrip(t *testing.T) {
	c := NewLocalCache(newMemSlots(), nil)
	ctx := context.Background()

	if err := c.Upsert(ctx, Record{UserID: "u1", LessonID: 3}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	want := NewCompletion("u1", 3, ts("2025-03-01T10:00:00Z"))
	if err := c.Upsert(ctx, want); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := c.Upsert(ctx, NewCompletion("u1", 4, ts("2025-03-02T10:00:00Z"))); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got := c.Load(ctx, "u1")
	n := 0
	for _, r := range got {
		if r.LessonID == 3 {
			n++
			if !r.Completed || !r.CompletedAt.Equal(*want.CompletedAt) {
				t.Errorf("record 3 = %+v, want %+v", r, want)
			}
		}
	}
	if n != 1 {
		t.Errorf("expected exactly one record for lesson 3, got %d", n)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 records, got %d", len(got))
	}
}

func TestLocalCacheUpsertRejectsInvalid(t *testing.T) {
	c := NewLocalCache(newMemSlots(), nil)
	if err := c.Upsert(context.Background(), Record{LessonID: 1}); err == nil {
		t.Error("expected error for empty user")
	}
	if err := c.Upsert(context.Background(), Record{UserID: "u1"}); err == nil {
		t.Error("expected error for zero lesson")
	}
}

func TestLocalCacheUpsertOverCorruptSlot(t *testing.T) {
	slots := newMemSlots()
	slots.set("u1", SlotRecords, "not json")
	c := NewLocalCache(slots, nil)
	ctx := context.Background()

	if err := c.Upsert(ctx, NewCompletion("u1", 1, ts("2025-03-01T10:00:00Z"))); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got := c.Load(ctx, "u1"); len(got) != 1 {
		t.Errorf("expected 1 record after upsert over corrupt slot, got %d", len(got))
	}
}

func TestLocalCacheMinutes(t *testing.T) {
	slots := newMemSlots()
	c := NewLocalCache(slots, nil)
	ctx := context.Background()

	if got := c.TotalMinutes(ctx, "u1"); got != 0 {
		t.Errorf("initial total = %d", got)
	}
	for _, n := range []int{3, 0, 4} {
		if err := c.AddMinutes(ctx, "u1", n); err != nil {
			t.Fatalf("add %d: %v", n, err)
		}
	}
	if got := c.TotalMinutes(ctx, "u1"); got != 7 {
		t.Errorf("total = %d, want 7", got)
	}
	if err := c.AddMinutes(ctx, "u1", -1); err == nil {
		t.Error("expected error for negative minutes")
	}

	slots.set("u1", SlotTimeSpent, "lots")
	if got := c.TotalMinutes(ctx, "u1"); got != 0 {
		t.Errorf("corrupt total = %d, want 0", got)
	}
	if err := c.AddMinutes(ctx, "u1", 2); err != nil {
		t.Fatalf("add after corrupt: %v", err)
	}
	if got := c.TotalMinutes(ctx, "u1"); got != 2 {
		t.Errorf("total after corrupt = %d, want 2", got)
	}
}

func TestLocalCacheReset(t *testing.T) {
	c := NewLocalCache(newMemSlots(), nil)
	ctx := context.Background()

	_ = c.Upsert(ctx, NewCompletion("u1", 1, ts("2025-03-01T10:00:00Z")))
	_ = c.AddMinutes(ctx, "u1", 5)
	_ = c.Upsert(ctx, NewCompletion("u2", 1, ts("2025-03-01T10:00:00Z")))

	if err := c.Reset(ctx, "u1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(c.Load(ctx, "u1")) != 0 || c.TotalMinutes(ctx, "u1") != 0 {
		t.Error("u1 state survived reset")
	}
	if len(c.Load(ctx, "u2")) != 1 {
		t.Error("u2 state lost by u1 reset")
	}
}
