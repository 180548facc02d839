package home

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

func TestContinueOpensFirstIncompleteLesson(t *testing.T) {
	env := tutortest.New(t, now)
	env.Engine.Progress().Complete(context.Background(), 1, now)

	h := New(env.Engine, env.Store.EventRepo())
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "Variables and Types" {
		t.Errorf("continue opened %q", msg.Screen.Title())
	}
}

func TestContinueDisabledWhenAllComplete(t *testing.T) {
	env := tutortest.New(t, now)
	for id := 1; id <= 10; id++ {
		env.Engine.Progress().Complete(context.Background(), id, now)
	}

	h := New(env.Engine, nil)
	if !h.menu.Items[0].Disabled {
		t.Error("continue should be disabled")
	}
	if h.menu.Selected != 1 {
		t.Errorf("selected = %d, want 1", h.menu.Selected)
	}
	if !h.menu.Items[3].Disabled {
		t.Error("history should be disabled without an event log")
	}
}

func TestResumeRefreshesSummary(t *testing.T) {
	env := tutortest.New(t, now)
	h := New(env.Engine, nil)
	if !strings.Contains(h.menu.Items[1].Detail, "0/10") {
		t.Fatalf("detail = %q", h.menu.Items[1].Detail)
	}

	env.Engine.Progress().Complete(context.Background(), 4, now)
	h.Resume()

	if !strings.Contains(h.menu.Items[1].Detail, "1/10") {
		t.Errorf("detail after resume = %q", h.menu.Items[1].Detail)
	}
	if !strings.Contains(h.View(120, 40), "10.0% complete") {
		t.Error("summary line not refreshed")
	}
}
