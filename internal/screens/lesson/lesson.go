// Package lesson is the lesson workspace: instructions, a code editor and
// the output of the last run.
package lesson

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gotutor/internal/lessons"
	"github.com/abhisek/gotutor/internal/router"
	"github.com/abhisek/gotutor/internal/screen"
	"github.com/abhisek/gotutor/internal/tutor"
	"github.com/abhisek/gotutor/internal/ui/components"
	"github.com/abhisek/gotutor/internal/ui/layout"
	"github.com/abhisek/gotutor/internal/ui/theme"
)

// runFinishedMsg carries the result of a run back to the screen.
type runFinishedMsg struct {
	Result tutor.RunResult
}

// LessonScreen shows one lesson and runs the learner's code.
type LessonScreen struct {
	engine *tutor.Engine
	lesson lessons.Lesson
	editor components.Editor

	output    string
	hasOutput bool
	running   bool
	passed    bool
	newly     bool
	solution  bool

	width, height int
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)

// New creates a LessonScreen whose editor starts with the exercise text.
func New(engine *tutor.Engine, l lessons.Lesson) *LessonScreen {
	return &LessonScreen{
		engine: engine,
		lesson: l,
		editor: components.NewEditor(l.Exercise),
	}
}

func (s *LessonScreen) Init() tea.Cmd {
	return s.editor.Init()
}

func (s *LessonScreen) Title() string {
	return s.lesson.Title
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	if s.running {
		return []layout.KeyHint{{Key: "…", Description: "Running"}}
	}
	hints := []layout.KeyHint{
		{Key: "Ctrl+R", Description: "Run"},
		{Key: "Ctrl+S", Description: "Solution"},
		{Key: "Ctrl+X", Description: "Reset"},
	}
	if _, ok := s.nextLesson(); ok {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+N", Description: "Next"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case runFinishedMsg:
		s.running = false
		s.output = msg.Result.Output
		s.hasOutput = true
		s.passed = msg.Result.Passed
		s.newly = msg.Result.Newly
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+r":
			return s, s.run()
		case "ctrl+s":
			s.editor.SetValue(s.lesson.Solution)
			s.solution = true
			return s, nil
		case "ctrl+x":
			s.editor.SetValue(s.lesson.Exercise)
			s.output = ""
			s.hasOutput = false
			s.passed = false
			s.newly = false
			s.solution = false
			return s, nil
		case "ctrl+n":
			if next, ok := s.nextLesson(); ok {
				return s, func() tea.Msg {
					return router.ReplaceScreenMsg{Screen: New(s.engine, next)}
				}
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.editor, cmd = s.editor.Update(msg)
	return s, cmd
}

// run executes the editor's code off the UI goroutine. A run already in
// flight is not restarted.
func (s *LessonScreen) run() tea.Cmd {
	if s.running {
		return nil
	}
	code := s.editor.Value()
	if strings.TrimSpace(code) == "" {
		return nil
	}
	s.running = true
	s.output = ""
	engine, id := s.engine, s.lesson.ID
	return func() tea.Msg {
		return runFinishedMsg{Result: engine.Run(context.Background(), id, code)}
	}
}

func (s *LessonScreen) nextLesson() (lessons.Lesson, bool) {
	all := s.engine.Catalog().All()
	for i, l := range all {
		if l.ID == s.lesson.ID && i+1 < len(all) {
			return all[i+1], true
		}
	}
	return lessons.Lesson{}, false
}

func (s *LessonScreen) View(width, height int) string {
	if width != s.width || height != s.height {
		s.width, s.height = width, height
		s.resize()
	}

	if layout.IsCompactWidth(width) {
		return lipgloss.JoinVertical(lipgloss.Left,
			s.renderInstructions(width, height/3),
			s.editor.View(),
			s.renderOutput(width),
		)
	}

	left := s.renderInstructions(width*2/5, height)
	right := lipgloss.JoinVertical(lipgloss.Left, s.editor.View(), s.renderOutput(width-width*2/5))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// outputHeight is the outer height reserved for the output panel.
const outputHeight = 7

func (s *LessonScreen) resize() {
	if layout.IsCompactWidth(s.width) {
		s.editor.SetSize(s.width, s.height-s.height/3-outputHeight)
		return
	}
	s.editor.SetSize(s.width-s.width*2/5, s.height-outputHeight)
}

func (s *LessonScreen) renderInstructions(width, height int) string {
	var b strings.Builder

	status := ""
	if s.engine.Progress().IsCompleted(s.lesson.ID) {
		status = "  " + theme.Correct.Render("✓ completed")
	}
	b.WriteString(theme.Title.Render(s.lesson.Title) + status + "\n")
	b.WriteString(theme.Hint.Render(string(s.lesson.Difficulty)) + "\n\n")
	if s.lesson.Description != "" {
		b.WriteString(theme.Body.Render(s.lesson.Description) + "\n\n")
	}
	if s.lesson.Content != "" {
		b.WriteString(theme.Subtitle.Render(s.lesson.Content) + "\n\n")
	}
	b.WriteString(theme.Selected.Render("Exercise") + "\n")
	b.WriteString(theme.Code.Render(s.lesson.Exercise))

	return lipgloss.NewStyle().
		Width(width).
		MaxHeight(height).
		Padding(0, 1).
		Render(b.String())
}

func (s *LessonScreen) renderOutput(width int) string {
	var body string
	switch {
	case s.running:
		body = theme.Hint.Render("Running...")
	case !s.hasOutput:
		body = theme.Hint.Render("Press Ctrl+R to run your code.")
	case s.output == "":
		body = theme.Hint.Render("(no output)")
	default:
		body = theme.Body.Render(strings.TrimRight(s.output, "\n"))
	}

	var banner string
	switch {
	case s.newly:
		banner = theme.Correct.Render("🎉 Lesson complete!")
	case s.passed:
		banner = theme.Correct.Render("✓ Passed")
	case s.hasOutput && !s.running:
		banner = theme.Incorrect.Render("Not quite yet. Keep going!")
	}
	if s.solution {
		banner = strings.TrimSpace(banner + "  " + theme.Hint.Render("(solution shown)"))
	}

	content := theme.Subtitle.Render("Output") + "\n" + body
	if banner != "" {
		content += "\n" + banner
	}

	return theme.Panel.
		Width(max(width-2, 10)).
		MaxHeight(outputHeight).
		Render(content)
}
