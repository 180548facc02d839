package history

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gotutor/internal/tutor/tutortest"
)

var now = time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local)

func TestHistoryListsCompletionsAndSessions(t *testing.T) {
	env := tutortest.New(t, now)
	ctx := context.Background()

	env.Engine.Timer().Start(ctx, now)
	env.Engine.Progress().Complete(ctx, 1, now)
	env.Engine.Progress().Wait()
	if _, err := env.Engine.Timer().End(ctx, now.Add(7*time.Minute)); err != nil {
		t.Fatalf("end session: %v", err)
	}

	s := New(env.Engine, env.Store.EventRepo())
	s.Update(s.Init()())

	if len(s.entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(s.entries))
	}
	view := s.View(120, 30)
	for _, want := range []string{"Completed Hello, Go!", "Session ended after 7m", "Session started"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	// Newest first: the session end is at the top.
	if !strings.Contains(s.entries[0].Summary(), "ended") {
		t.Errorf("first entry = %q", s.entries[0].Summary())
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(120, 30), "saved on this device only") {
		t.Error("expanded completion should show its sync status")
	}
}

func TestHistoryEmpty(t *testing.T) {
	env := tutortest.New(t, now)
	s := New(env.Engine, env.Store.EventRepo())
	s.Update(s.Init()())
	if !strings.Contains(s.View(80, 20), "Nothing here yet") {
		t.Error("expected empty state")
	}
}
