package lesson

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gotutor/internal/remote"
	"github.com/abhisek/gotutor/internal/router"
	"github.com/abhisek/gotutor/internal/tutor/tutortest"
)

var now = time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local)

func ctrl(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func newScreen(t *testing.T, lessonID int) (*LessonScreen, *tutortest.Env) {
	t.Helper()
	env := tutortest.New(t, now)
	l, ok := env.Engine.Catalog().Get(lessonID)
	if !ok {
		t.Fatalf("lesson %d not in catalog", lessonID)
	}
	return New(env.Engine, l), env
}

// run presses ctrl+r and feeds the finished message back.
func run(t *testing.T, s *LessonScreen) {
	t.Helper()
	_, cmd := s.Update(ctrl('r'))
	if cmd == nil {
		t.Fatal("expected run command")
	}
	if !s.running {
		t.Error("expected running state while the command is pending")
	}
	s.Update(cmd())
}

func TestEditorStartsWithExercise(t *testing.T) {
	s, _ := newScreen(t, 1)
	if !strings.Contains(s.editor.Value(), "Hello, World!") {
		t.Errorf("editor = %q", s.editor.Value())
	}
}

func TestRunSolutionCompletesLesson(t *testing.T) {
	s, env := newScreen(t, 1)
	env.Exec.Result = remote.ExecResult{Output: "Hello, World!\n"}

	s.Update(ctrl('s'))
	if !s.solution {
		t.Fatal("expected solution to be shown")
	}
	run(t, s)

	if !s.passed || !s.newly {
		t.Errorf("passed=%v newly=%v", s.passed, s.newly)
	}
	if !env.Engine.Progress().IsCompleted(1) {
		t.Error("lesson 1 should be completed")
	}
	if !strings.Contains(s.View(120, 30), "Lesson complete") {
		t.Error("completion banner missing")
	}

	run(t, s)
	if s.newly {
		t.Error("second run should not report a new completion")
	}
}

func TestRunErrorShowsOutputWithoutCompleting(t *testing.T) {
	s, env := newScreen(t, 1)
	env.Exec.Result = remote.ExecResult{Error: "syntax error"}

	run(t, s)

	if s.output != "Error: syntax error" {
		t.Errorf("output = %q", s.output)
	}
	if s.passed || env.Engine.Progress().IsCompleted(1) {
		t.Error("error output must not complete the lesson")
	}
}

func TestResetRestoresExercise(t *testing.T) {
	s, env := newScreen(t, 2)
	env.Exec.Result = remote.ExecResult{Output: "x"}

	s.Update(ctrl('s'))
	run(t, s)
	s.Update(ctrl('x'))

	if s.hasOutput || s.output != "" || s.solution {
		t.Error("reset should clear output and solution state")
	}
	if !strings.Contains(s.editor.Value(), "Create variables") {
		t.Errorf("editor not reset: %q", s.editor.Value())
	}
}

func TestBlankCodeDoesNotRun(t *testing.T) {
	s, env := newScreen(t, 1)
	s.editor.SetValue("   ")

	_, cmd := s.Update(ctrl('r'))
	if cmd != nil || s.running {
		t.Error("blank code should not start a run")
	}
	if env.Exec.Calls() != 0 {
		t.Error("executor should not be called")
	}
}

func TestNextLessonReplacesScreen(t *testing.T) {
	s, _ := newScreen(t, 1)
	_, cmd := s.Update(ctrl('n'))
	if cmd == nil {
		t.Fatal("expected navigation command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if got := msg.Screen.Title(); got != "Variables and Types" {
		t.Errorf("next lesson = %q", got)
	}

	last, _ := newScreen(t, 10)
	if _, cmd := last.Update(ctrl('n')); cmd != nil {
		t.Error("last lesson has no next")
	}
}
