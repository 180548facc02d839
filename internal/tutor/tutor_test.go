package tutor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/gotutor/internal/engagement"
	"github.com/abhisek/gotutor/internal/kvstore"
	"github.com/abhisek/gotutor/internal/lessons"
	"github.com/abhisek/gotutor/internal/logger"
	"github.com/abhisek/gotutor/internal/progress"
	"github.com/abhisek/gotutor/internal/remote"
	"github.com/abhisek/gotutor/internal/session"
)

type fakeExec struct {
	result remote.ExecResult
	err    error
	calls  int
}

func (f *fakeExec) Execute(_ context.Context, _ string) (remote.ExecResult, error) {
	f.calls++
	return f.result, f.err
}

var fixedNow = time.Date(2024, 3, 10, 15, 0, 0, 0, time.Local)

func newTestEngine(t *testing.T, exec Executor) *Engine {
	t.Helper()
	db, err := kvstore.Open(kvstore.InMemoryConfig())
	if err != nil {
		t.Fatalf("open kvstore: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	local := progress.NewLocalCache(db.Slots(), logger.Nop())
	rec := progress.NewReconciler("demo-user", local, nil, progress.Options{})
	e := New(Options{
		Catalog:  lessons.NewCatalog(nil, nil),
		Progress: rec,
		Timer:    session.NewTimer("demo-user", local, nil, nil),
		Exec:     exec,
		Clock:    func() time.Time { return fixedNow },
	})
	e.Load(context.Background())
	t.Cleanup(rec.Wait)
	return e
}

const helloCode = `package main

import "fmt"

func main() {
	fmt.Println("Hello, World!")
}`

func TestRunCompletesLesson(t *testing.T) {
	exec := &fakeExec{result: remote.ExecResult{Output: "Hello, World!\n"}}
	e := newTestEngine(t, exec)
	ctx := context.Background()

	res := e.Run(ctx, 1, helloCode)
	if !res.Passed || !res.Newly {
		t.Fatalf("expected first run to complete lesson, got %+v", res)
	}
	if res.Record.CompletedAt == nil || !res.Record.CompletedAt.Equal(fixedNow) {
		t.Errorf("completedAt = %v, want %v", res.Record.CompletedAt, fixedNow)
	}

	again := e.Run(ctx, 1, helloCode)
	if !again.Passed || again.Newly {
		t.Errorf("second run should pass without changing the record, got %+v", again)
	}
	if !again.Record.CompletedAt.Equal(*res.Record.CompletedAt) {
		t.Error("completedAt changed on second run")
	}
	if exec.calls != 2 {
		t.Errorf("executor calls = %d, want 2", exec.calls)
	}

	// Persisted locally as well.
	local := e.Progress().Local().Load(ctx, "demo-user")
	if len(local) != 1 || local[0].LessonID != 1 {
		t.Errorf("local records = %+v", local)
	}
}

func TestRunBlankCodeSkipsExecution(t *testing.T) {
	exec := &fakeExec{}
	e := newTestEngine(t, exec)

	res := e.Run(context.Background(), 1, "   \n\t")
	if res.Passed || res.Output != "" {
		t.Errorf("unexpected result %+v", res)
	}
	if exec.calls != 0 {
		t.Error("blank code should not be executed")
	}
}

func TestRunExecutionErrorVetoes(t *testing.T) {
	tests := []struct {
		name string
		exec *fakeExec
		want string
	}{
		{
			name: "reported error",
			exec: &fakeExec{result: remote.ExecResult{Output: "Hello", Error: "exit status 2"}},
			want: "Error: exit status 2",
		},
		{
			name: "transport failure",
			exec: &fakeExec{err: errors.New("connection refused")},
			want: "Error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, tt.exec)
			res := e.Run(context.Background(), 1, helloCode)
			if res.Passed {
				t.Error("expected veto")
			}
			if res.Output != tt.want {
				t.Errorf("output = %q, want %q", res.Output, tt.want)
			}
			if e.Progress().IsCompleted(1) {
				t.Error("lesson should not be completed")
			}
		})
	}
}

func TestRunUnknownLessonUsesDefaultRule(t *testing.T) {
	e := newTestEngine(t, &fakeExec{result: remote.ExecResult{Output: "ok"}})

	if res := e.Run(context.Background(), 99, "x := 1"); res.Passed {
		t.Error("short code should not pass the default rule")
	}
	if res := e.Run(context.Background(), 99, "package main\n\nfunc main() {}\n"); !res.Passed {
		t.Error("long enough code should pass the default rule")
	}
}

func TestSnapshotAndReset(t *testing.T) {
	exec := &fakeExec{result: remote.ExecResult{Output: "Hello, World!"}}
	e := newTestEngine(t, exec)
	ctx := context.Background()

	e.Run(ctx, 1, helloCode)
	if err := e.Progress().Local().AddMinutes(ctx, "demo-user", 12); err != nil {
		t.Fatalf("add minutes: %v", err)
	}

	s := e.Snapshot(ctx)
	if s.CompletedCount != 1 || s.TotalLessons != 10 {
		t.Errorf("counts = %d/%d, want 1/10", s.CompletedCount, s.TotalLessons)
	}
	if s.CompletionPercentage != 10 {
		t.Errorf("percentage = %v, want 10", s.CompletionPercentage)
	}
	if s.Tier != engagement.TierGettingStarted {
		t.Errorf("tier = %q", s.Tier)
	}
	if s.StreakDays != 1 {
		t.Errorf("streak = %d, want 1", s.StreakDays)
	}
	if s.TotalTimeMinutes != 12 {
		t.Errorf("minutes = %d, want 12", s.TotalTimeMinutes)
	}
	if got := e.Recent(3); len(got) != 1 {
		t.Errorf("recent = %+v", got)
	}

	if err := e.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	s = e.Snapshot(ctx)
	if s.CompletedCount != 0 || s.TotalTimeMinutes != 0 {
		t.Errorf("after reset got %+v", s)
	}
}
