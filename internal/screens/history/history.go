package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/gotutor/internal/router"
	"github.com/abhisek/gotutor/internal/screen"
	"github.com/abhisek/gotutor/internal/store"
	"github.com/abhisek/gotutor/internal/tutor"
	"github.com/abhisek/gotutor/internal/ui/layout"
	"github.com/abhisek/gotutor/internal/ui/theme"
)

// historyLimit caps how many timeline entries are loaded.
const historyLimit = 100

type historyLoadedMsg struct {
	Entries []tutor.Activity
	Err     error
}

// HistoryScreen displays past completions and sessions.
type HistoryScreen struct {
	engine   *tutor.Engine
	events   store.EventRepo
	entries  []tutor.Activity
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(engine *tutor.Engine, events store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		engine:   engine,
		events:   events,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	engine, events := s.engine, s.events
	return func() tea.Msg {
		entries, err := engine.History(context.Background(), events, historyLimit)
		return historyLoadedMsg{Entries: entries, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.entries = msg.Entries
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.entries)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.entries) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  Nothing here yet. Complete a lesson!")
	}

	// Keep the selection visible.
	first := 0
	if visible := height - 2; visible > 0 && s.selected >= visible {
		first = s.selected - visible + 1
	}

	var b strings.Builder
	b.WriteString("\n")

	for i := first; i < len(s.entries); i++ {
		e := s.entries[i]
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		icon := "◷"
		if e.Kind == tutor.ActivityCompletion {
			icon = "✓"
		}
		line := fmt.Sprintf("%s%s  %s %s", prefix, e.Time.Local().Format("Jan 02, 2006 15:04"), icon, e.Summary())

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, detail(e)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func detail(e tutor.Activity) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	switch e.Kind {
	case tutor.ActivityCompletion:
		if e.Synced {
			return lipgloss.NewStyle().Foreground(theme.Success).Render("    saved to server")
		}
		msg := "    saved on this device only"
		if e.ErrorMessage != "" {
			msg += ": " + e.ErrorMessage
		}
		return lipgloss.NewStyle().Foreground(theme.Accent).Render(msg)
	default:
		return dim.Render("    session " + e.SessionID)
	}
}
