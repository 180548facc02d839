package progress

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/gotutor/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadUsesAuthority(t *testing.T) {
	remote := &fakeAuthority{records: []Record{
		NewCompletion("u1", 1, ts("2025-03-01T10:00:00Z")),
		NewCompletion("u2", 2, ts("2025-03-01T10:00:00Z")),
	}}
	local := NewLocalCache(newMemSlots(), nil)
	_ = local.Upsert(context.Background(), NewCompletion("u1", 9, ts("2025-03-01T10:00:00Z")))

	r := NewReconciler("u1", local, remote, Options{})
	got := r.Load(context.Background())

	if r.Degraded() {
		t.Error("expected non-degraded load")
	}
	if len(got) != 1 || got[0].LessonID != 1 {
		t.Errorf("expected only remote record for u1, got %v", got)
	}
}

func TestLoadFallsBackToLocal(t *testing.T) {
	local := NewLocalCache(newMemSlots(), nil)
	_ = local.Upsert(context.Background(), NewCompletion("u1", 2, ts("2025-03-01T10:00:00Z")))

	r := NewReconciler("u1", local, &fakeAuthority{fetchErr: errUnreachable}, Options{})
	got := r.Load(context.Background())

	if !r.Degraded() {
		t.Error("expected degraded flag")
	}
	if len(got) != 1 || got[0].LessonID != 2 {
		t.Errorf("expected local record, got %v", got)
	}
}

func TestLoadTimesOut(t *testing.T) {
	r := NewReconciler("u1", NewLocalCache(newMemSlots(), nil), &fakeAuthority{block: true},
		Options{Timeout: 20 * time.Millisecond})

	start := time.Now()
	r.Load(context.Background())
	if time.Since(start) > time.Second {
		t.Fatal("load did not honour timeout")
	}
	if !r.Degraded() {
		t.Error("timeout should fall back to local")
	}
}

func TestLoadWithoutAuthority(t *testing.T) {
	r := NewReconciler("u1", NewLocalCache(newMemSlots(), nil), nil, Options{})
	r.Load(context.Background())
	if !r.Degraded() {
		t.Error("expected degraded without authority")
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	remote := &fakeAuthority{}
	local := NewLocalCache(newMemSlots(), nil)
	r := NewReconciler("u1", local, remote, Options{})
	ctx := context.Background()
	r.Load(ctx)

	first := ts("2025-03-01T10:00:00Z")
	rec, changed := r.Complete(ctx, 1, first)
	if !changed || !rec.Completed || !rec.CompletedAt.Equal(first) {
		t.Fatalf("first completion: changed=%v rec=%+v", changed, rec)
	}

	rec, changed = r.Complete(ctx, 1, first.Add(time.Hour))
	if changed {
		t.Error("second completion should be a no-op")
	}
	if !rec.CompletedAt.Equal(first) {
		t.Errorf("completedAt changed to %v", rec.CompletedAt)
	}

	r.Wait()
	if n := len(remote.submissions()); n != 1 {
		t.Errorf("expected one remote push, got %d", n)
	}
	stored := local.Load(ctx, "u1")
	if len(stored) != 1 || !stored[0].CompletedAt.Equal(first) {
		t.Errorf("local set = %v", stored)
	}
	if len(r.Records()) != 1 {
		t.Errorf("known set has %d records", len(r.Records()))
	}
}

func TestCompleteSurvivesRemoteFailure(t *testing.T) {
	slots := newMemSlots()
	remote := &fakeAuthority{fetchErr: errUnreachable, submitErr: errUnreachable}
	ctx := context.Background()

	r := NewReconciler("u1", NewLocalCache(slots, nil), remote, Options{})
	r.Load(ctx)
	if _, changed := r.Complete(ctx, 4, ts("2025-03-01T10:00:00Z")); !changed {
		t.Fatal("expected completion despite remote failure")
	}
	if !r.IsCompleted(4) {
		t.Error("in-memory set not updated")
	}

	// A new session with the authority still down sees the completion.
	again := NewReconciler("u1", NewLocalCache(slots, nil), remote, Options{})
	got := again.Load(ctx)
	if rec, ok := Find(got, 4); !ok || !rec.Completed {
		t.Errorf("lesson 4 not completed after fallback load: %v", got)
	}
}

func TestCompleteRecordsEvents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	remote := &fakeAuthority{}

	r := NewReconciler("u1", NewLocalCache(s.SlotRepo(), nil), remote, Options{Events: s.EventRepo()})
	r.Load(ctx)
	r.Complete(ctx, 1, ts("2025-03-01T10:00:00Z"))
	r.Wait()

	remote.setSubmitErr(errUnreachable)
	r.Complete(ctx, 2, ts("2025-03-01T11:00:00Z"))
	r.Complete(ctx, 2, ts("2025-03-01T12:00:00Z"))
	r.Wait()

	events, err := s.EventRepo().QueryCompletionEvents(ctx, store.QueryOpts{UserID: "u1"})
	if err != nil {
		t.Fatalf("query events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 completion events, got %d", len(events))
	}
	if events[0].LessonID != 2 || events[0].RemoteSynced || events[0].ErrorMessage == "" {
		t.Errorf("failed push event = %+v", events[0])
	}
	if events[1].LessonID != 1 || !events[1].RemoteSynced {
		t.Errorf("synced event = %+v", events[1])
	}
}

func TestCompleteWritesLocallyWhenPushTimesOut(t *testing.T) {
	remote := &fakeAuthority{block: true}
	slots := newMemSlots()
	r := NewReconciler("u1", NewLocalCache(slots, nil), remote, Options{Timeout: 20 * time.Millisecond})
	ctx := context.Background()

	if _, changed := r.Complete(ctx, 3, ts("2025-03-01T10:00:00Z")); !changed {
		t.Fatal("expected change")
	}
	if got := NewLocalCache(slots, nil).Load(ctx, "u1"); len(got) != 1 {
		t.Errorf("local write missing after timed-out push: %v", got)
	}
	r.Wait()
}

func TestCompleteDoesNotWaitForHungAuthority(t *testing.T) {
	remote := &fakeAuthority{block: true}
	type pushResult struct {
		rec Record
		err error
	}
	results := make(chan pushResult, 1)
	r := NewReconciler("u1", NewLocalCache(newMemSlots(), nil), remote, Options{
		Timeout: 2 * time.Second,
		OnPushed: func(rec Record, err error) {
			results <- pushResult{rec, err}
		},
	})
	ctx, cancel := context.WithCancel(context.Background())

	start := time.Now()
	rec, changed := r.Complete(ctx, 5, ts("2025-03-01T10:00:00Z"))
	elapsed := time.Since(start)
	if !changed || !rec.Completed {
		t.Fatalf("changed=%v rec=%+v", changed, rec)
	}
	if elapsed > 500*time.Millisecond {
		t.Fatalf("Complete took %v with a hung authority", elapsed)
	}
	if !r.IsCompleted(5) {
		t.Error("completion not visible immediately")
	}

	// Cancelling the caller's context does not cut the push short; it still
	// ends at the authority timeout and reports the failure.
	cancel()
	select {
	case res := <-results:
		if res.rec.LessonID != 5 || !errors.Is(res.err, context.DeadlineExceeded) {
			t.Errorf("push result = %+v", res)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("push never finished")
	}
	r.Wait()
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name   string
		local  []Record
		remote []Record
		want   map[int]*time.Time // nil value means incomplete
	}{
		{
			name:   "completed beats incomplete",
			local:  []Record{NewCompletion("u", 1, ts("2025-03-01T10:00:00Z"))},
			remote: []Record{{UserID: "u", LessonID: 1}},
			want:   map[int]*time.Time{1: tp("2025-03-01T10:00:00Z")},
		},
		{
			name:   "remote completion never downgraded",
			local:  []Record{{UserID: "u", LessonID: 1}},
			remote: []Record{NewCompletion("u", 1, ts("2025-03-01T10:00:00Z"))},
			want:   map[int]*time.Time{1: tp("2025-03-01T10:00:00Z")},
		},
		{
			name:   "later completion wins",
			local:  []Record{NewCompletion("u", 1, ts("2025-03-02T10:00:00Z"))},
			remote: []Record{NewCompletion("u", 1, ts("2025-03-01T10:00:00Z"))},
			want:   map[int]*time.Time{1: tp("2025-03-02T10:00:00Z")},
		},
		{
			name:   "remote later completion wins",
			local:  []Record{NewCompletion("u", 1, ts("2025-03-01T10:00:00Z"))},
			remote: []Record{NewCompletion("u", 1, ts("2025-03-02T10:00:00Z"))},
			want:   map[int]*time.Time{1: tp("2025-03-02T10:00:00Z")},
		},
		{
			name:   "union of lessons",
			local:  []Record{NewCompletion("u", 1, ts("2025-03-01T10:00:00Z"))},
			remote: []Record{NewCompletion("u", 2, ts("2025-03-01T11:00:00Z"))},
			want: map[int]*time.Time{
				1: tp("2025-03-01T10:00:00Z"),
				2: tp("2025-03-01T11:00:00Z"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.local, tt.remote)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d records, want %d", len(got), len(tt.want))
			}
			for _, r := range got {
				want := tt.want[r.LessonID]
				if want == nil {
					if r.Completed {
						t.Errorf("lesson %d completed, want incomplete", r.LessonID)
					}
					continue
				}
				if !r.Completed || !r.CompletedAt.Equal(*want) {
					t.Errorf("lesson %d = %+v, want completed at %v", r.LessonID, r, want)
				}
			}
		})
	}
}

func TestResync(t *testing.T) {
	ctx := context.Background()
	remote := &fakeAuthority{records: []Record{NewCompletion("u1", 1, ts("2025-03-01T10:00:00Z"))}}
	local := NewLocalCache(newMemSlots(), nil)
	_ = local.Upsert(ctx, NewCompletion("u1", 2, ts("2025-03-02T10:00:00Z")))

	r := NewReconciler("u1", local, remote, Options{})
	res, err := r.Resync(ctx)
	if err != nil {
		t.Fatalf("resync: %v", err)
	}
	if res.Pushed != 1 || res.PushFailed != 0 {
		t.Errorf("pushed=%d failed=%d", res.Pushed, res.PushFailed)
	}
	if sub := remote.submissions(); len(sub) != 1 || sub[0].LessonID != 2 {
		t.Errorf("submitted = %v", sub)
	}
	if got := local.Load(ctx, "u1"); len(got) != 2 {
		t.Errorf("local after resync = %v", got)
	}
	if len(r.Records()) != 2 || r.Degraded() {
		t.Errorf("known=%v degraded=%v", r.Records(), r.Degraded())
	}
}

func TestResyncFailsWhenUnreachable(t *testing.T) {
	r := NewReconciler("u1", NewLocalCache(newMemSlots(), nil), &fakeAuthority{fetchErr: errUnreachable}, Options{})
	if _, err := r.Resync(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestDecodeRecordsClearsStrayTimestamp(t *testing.T) {
	recs, dropped, err := DecodeRecords([]byte(`[{"user_id":"u","lesson_id":1,"completed":false,"completed_at":"2025-03-01T10:00:00Z"}]`))
	if err != nil || dropped != 0 || len(recs) != 1 {
		t.Fatalf("recs=%v dropped=%d err=%v", recs, dropped, err)
	}
	if recs[0].CompletedAt != nil {
		t.Error("incomplete record kept completed_at")
	}
}
