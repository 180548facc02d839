package lessons

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gotutor/internal/router"
	"github.com/abhisek/gotutor/internal/tutor/tutortest"
)

var now = time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local)

func TestListMarksCompletedLessons(t *testing.T) {
	env := tutortest.New(t, now)
	s := New(env.Engine)
	if len(s.menu.Items) != 10 {
		t.Fatalf("items = %d, want 10", len(s.menu.Items))
	}
	if strings.HasPrefix(s.menu.Items[2].Label, "✓") {
		t.Error("lesson 3 should not be marked yet")
	}

	env.Engine.Progress().Complete(context.Background(), 3, now)
	s.Resume()

	if !strings.HasPrefix(s.menu.Items[2].Label, "✓") {
		t.Errorf("lesson 3 label = %q", s.menu.Items[2].Label)
	}
}

func TestResumeKeepsSelection(t *testing.T) {
	env := tutortest.New(t, now)
	s := New(env.Engine)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Resume()
	if s.menu.Selected != 2 {
		t.Errorf("selected = %d, want 2", s.menu.Selected)
	}
}

func TestEnterOpensLesson(t *testing.T) {
	env := tutortest.New(t, now)
	s := New(env.Engine)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "Variables and Types" {
		t.Errorf("pushed %q", msg.Screen.Title())
	}
}

func TestViewShowsSelectedDescription(t *testing.T) {
	env := tutortest.New(t, now)
	view := New(env.Engine).View(100, 30)
	if !strings.Contains(view, "Write your first Go program") {
		t.Errorf("description missing:\n%s", view)
	}
}
