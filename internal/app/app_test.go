package app

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gotutor/internal/router"
	"github.com/abhisek/gotutor/internal/tutor/tutortest"
)

var now = time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local)

func newTestModel(t *testing.T) (AppModel, *tutortest.Env) {
	t.Helper()
	env := tutortest.New(t, now)
	return newAppModel(Options{Engine: env.Engine, Events: env.Store.EventRepo()}), env
}

func TestHeaderStats(t *testing.T) {
	m, env := newTestModel(t)
	env.Engine.Progress().Complete(context.Background(), 1, now)
	env.Engine.Progress().Complete(context.Background(), 2, now.Add(-24*time.Hour))

	got := m.headerStats()
	if got.Completed != 2 || got.Total != 10 || got.Streak != 2 {
		t.Errorf("header stats = %+v", got)
	}
}

func TestSessionTickFlushesMinutes(t *testing.T) {
	m, env := newTestModel(t)
	ctx := context.Background()
	env.Engine.Timer().Start(ctx, now)

	_, cmd := m.Update(sessionTickMsg(now.Add(3 * time.Minute)))
	if cmd == nil {
		t.Error("expected the next tick to be scheduled")
	}
	if got := env.Engine.Progress().Local().TotalMinutes(ctx, tutortest.UserID); got != 3 {
		t.Errorf("stored minutes = %d, want 3", got)
	}
}

func TestCtrlCQuits(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestEscPopsOnlyAboveRoot(t *testing.T) {
	m, _ := newTestModel(t)
	if _, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape}); cmd != nil {
		t.Error("esc at root should do nothing")
	}

	// Open the lesson list.
	next, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m = next.(AppModel)
	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	m.Update(cmd())
	if m.router.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", m.router.Depth())
	}

	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestViewBeforeAndAfterResize(t *testing.T) {
	m, _ := newTestModel(t)
	m.View()

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(AppModel)
	if m.width != 120 || m.height != 40 {
		t.Fatalf("size = %dx%d", m.width, m.height)
	}
	m.View()

	next, _ = m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	next.(AppModel).View()
}
