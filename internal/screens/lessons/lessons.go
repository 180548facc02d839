// Package lessons renders the lesson catalog with completion marks.
package lessons

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	catalog "github.com/abhisek/gotutor/internal/lessons"
	"github.com/abhisek/gotutor/internal/router"
	"github.com/abhisek/gotutor/internal/screen"
	lessonscreen "github.com/abhisek/gotutor/internal/screens/lesson"
	"github.com/abhisek/gotutor/internal/tutor"
	"github.com/abhisek/gotutor/internal/ui/components"
	"github.com/abhisek/gotutor/internal/ui/layout"
	"github.com/abhisek/gotutor/internal/ui/theme"
)

// LessonListScreen lists every lesson in order.
type LessonListScreen struct {
	engine  *tutor.Engine
	lessons []catalog.Lesson
	menu    components.Menu
}

var _ screen.Screen = (*LessonListScreen)(nil)
var _ screen.KeyHintProvider = (*LessonListScreen)(nil)
var _ screen.Resumer = (*LessonListScreen)(nil)

// New creates a LessonListScreen.
func New(engine *tutor.Engine) *LessonListScreen {
	s := &LessonListScreen{engine: engine}
	s.refresh()
	return s
}

func (s *LessonListScreen) refresh() {
	s.lessons = s.engine.Catalog().All()
	items := make([]components.MenuItem, 0, len(s.lessons))
	for _, l := range s.lessons {
		mark := "○"
		if s.engine.Progress().IsCompleted(l.ID) {
			mark = "✓"
		}
		items = append(items, components.MenuItem{
			Label:  fmt.Sprintf("%s %2d. %s", mark, l.ID, l.Title),
			Detail: string(l.Difficulty),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: lessonscreen.New(s.engine, l)}
				}
			},
		})
	}
	selected := s.menu.Selected
	s.menu = components.NewMenu(items)
	if selected < len(items) {
		s.menu.Selected = selected
	}
}

func (s *LessonListScreen) Init() tea.Cmd {
	return nil
}

// Resume refreshes completion marks.
func (s *LessonListScreen) Resume() tea.Cmd {
	s.refresh()
	return nil
}

func (s *LessonListScreen) Title() string {
	return "Lessons"
}

func (s *LessonListScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LessonListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *LessonListScreen) View(width, height int) string {
	if len(s.lessons) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No lessons available.")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.menu.View())

	if l, ok := s.selected(); ok {
		b.WriteString("\n")
		desc := lipgloss.NewStyle().Width(min(width-4, 80)).Foreground(theme.TextDim).Render(l.Description)
		b.WriteString("  " + theme.Title.Render(l.Title) + "\n")
		for _, line := range strings.Split(desc, "\n") {
			b.WriteString("  " + line + "\n")
		}
		if l.Category != "" {
			b.WriteString("  " + theme.Hint.Render("category: "+l.Category) + "\n")
		}
	}

	return b.String()
}

func (s *LessonListScreen) selected() (catalog.Lesson, bool) {
	if s.menu.Selected < 0 || s.menu.Selected >= len(s.lessons) {
		return catalog.Lesson{}, false
	}
	return s.lessons[s.menu.Selected], true
}
