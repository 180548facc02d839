package progress

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/gotutor/internal/tutor/tutortest"
)

var now = time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local)

func loaded(t *testing.T, env *tutortest.Env) *ProgressScreen {
	t.Helper()
	s := New(env.Engine)
	s.Update(s.Init()())
	if !s.loaded {
		t.Fatal("snapshot not applied")
	}
	return s
}

func TestEmptyProgress(t *testing.T) {
	env := tutortest.New(t, now)
	view := loaded(t, env).View(100, 40)

	for _, want := range []string{"Getting Started", "0 / 10 lessons", "No completed lessons yet", "Complete 3 more lessons to reach Beginner level"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestProgressShowsRecentAndGoal(t *testing.T) {
	env := tutortest.New(t, now)
	ctx := context.Background()
	for id := 1; id <= 5; id++ {
		env.Engine.Progress().Complete(ctx, id, now.Add(time.Duration(id)*time.Minute))
	}

	s := loaded(t, env)
	if s.snap.CompletedCount != 5 || s.snap.Tier.DisplayName() != "Intermediate" {
		t.Fatalf("snapshot = %+v", s.snap)
	}
	if len(s.recent) != recentCount || s.recent[0].LessonID != 5 {
		t.Errorf("recent = %+v", s.recent)
	}

	view := s.View(100, 40)
	for _, want := range []string{"50.0%", "1 day", "Completed Loops", "to reach Expert level"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestLoadingView(t *testing.T) {
	env := tutortest.New(t, now)
	if view := New(env.Engine).View(80, 20); !strings.Contains(view, "Loading") {
		t.Errorf("expected loading placeholder, got %q", view)
	}
}
