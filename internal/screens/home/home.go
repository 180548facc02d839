package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gotutor/internal/engagement"
	"github.com/abhisek/gotutor/internal/lessons"
	"github.com/abhisek/gotutor/internal/router"
	"github.com/abhisek/gotutor/internal/screen"
	"github.com/abhisek/gotutor/internal/screens/history"
	lessonscreen "github.com/abhisek/gotutor/internal/screens/lesson"
	lessonlist "github.com/abhisek/gotutor/internal/screens/lessons"
	progressscreen "github.com/abhisek/gotutor/internal/screens/progress"
	"github.com/abhisek/gotutor/internal/store"
	"github.com/abhisek/gotutor/internal/tutor"
	"github.com/abhisek/gotutor/internal/ui/components"
	"github.com/abhisek/gotutor/internal/ui/theme"
)

// HomeScreen is the main menu.
type HomeScreen struct {
	engine *tutor.Engine
	events store.EventRepo
	menu   components.Menu
	snap   engagement.Snapshot
	next   *lessons.Lesson
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen. events may be nil, which disables history.
func New(engine *tutor.Engine, events store.EventRepo) *HomeScreen {
	h := &HomeScreen{engine: engine, events: events}
	h.refresh()
	return h
}

// refresh recomputes the summary and rebuilds the menu, keeping the
// current selection.
func (h *HomeScreen) refresh() {
	h.snap = h.engine.Snapshot(context.Background())
	h.next = nextLesson(h.engine)

	selected := h.menu.Selected
	h.menu = components.NewMenu(h.menuItems())
	if selected > 0 && selected < len(h.menu.Items) && !h.menu.Items[selected].Disabled {
		h.menu.Selected = selected
	}
}

func (h *HomeScreen) menuItems() []components.MenuItem {
	cont := components.MenuItem{Label: "CONTINUE", Disabled: true, Detail: "all lessons complete"}
	if h.next != nil {
		l := *h.next
		cont = components.MenuItem{
			Label:  "CONTINUE",
			Detail: fmt.Sprintf("%d. %s", l.ID, l.Title),
			Action: func() tea.Cmd {
				return push(lessonscreen.New(h.engine, l))
			},
		}
	}

	return []components.MenuItem{
		cont,
		{
			Label:  "LESSONS",
			Detail: fmt.Sprintf("%d/%d complete", h.snap.CompletedCount, h.snap.TotalLessons),
			Action: func() tea.Cmd { return push(lessonlist.New(h.engine)) },
		},
		{
			Label:  "PROGRESS",
			Detail: h.snap.Tier.DisplayName(),
			Action: func() tea.Cmd { return push(progressscreen.New(h.engine)) },
		},
		{
			Label:    "HISTORY",
			Disabled: h.events == nil,
			Action: func() tea.Cmd {
				return push(history.New(h.engine, h.events))
			},
		},
		{
			Label:  "QUIT",
			Action: func() tea.Cmd { return tea.Quit },
		},
	}
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

// nextLesson returns the first lesson in order that is not completed.
func nextLesson(engine *tutor.Engine) *lessons.Lesson {
	for _, l := range engine.Catalog().All() {
		if !engine.Progress().IsCompleted(l.ID) {
			return &l
		}
	}
	return nil
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

// Resume refreshes the summary after returning from another screen.
func (h *HomeScreen) Resume() tea.Cmd {
	h.refresh()
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, renderBanner(width))
	sections = append(sections, theme.Subtitle.Render("Learn Go one exercise at a time"))

	summary := fmt.Sprintf("%s %s  ·  %.1f%% complete  ·  %d day streak  ·  %dm practiced",
		h.snap.Tier.Icon(), h.snap.Tier.DisplayName(),
		h.snap.CompletionPercentage, h.snap.StreakDays, h.snap.TotalTimeMinutes)
	sections = append(sections, theme.Body.Render(summary))

	if h.engine.Progress().Degraded() {
		sections = append(sections, theme.Hint.Render("offline: showing progress saved on this device"))
	}

	sections = append(sections, theme.Card.Render(strings.TrimRight(h.menu.View(), "\n")))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
