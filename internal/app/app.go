package app

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gotutor/internal/engagement"
	"github.com/abhisek/gotutor/internal/logger"
	"github.com/abhisek/gotutor/internal/progress"
	"github.com/abhisek/gotutor/internal/router"
	"github.com/abhisek/gotutor/internal/screen"
	"github.com/abhisek/gotutor/internal/screens/home"
	"github.com/abhisek/gotutor/internal/store"
	"github.com/abhisek/gotutor/internal/tutor"
	"github.com/abhisek/gotutor/internal/ui/layout"
)

// TickInterval is how often the session timer flushes elapsed minutes.
const TickInterval = time.Minute

// Options holds the dependencies the TUI needs.
type Options struct {
	Engine *tutor.Engine
	Events store.EventRepo // optional; enables the history screen
	Logger *logger.Logger
}

// sessionTickMsg fires once per TickInterval while the app runs.
type sessionTickMsg time.Time

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	engine *tutor.Engine
	log    *logger.Logger
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return AppModel{
		router: router.New(home.New(opts.Engine, opts.Events)),
		engine: opts.Engine,
		log:    opts.Logger.Named("app"),
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return sessionTickMsg(t)
	})
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sessionTickMsg:
		if t := m.engine.Timer(); t != nil {
			if _, err := t.Tick(context.Background(), time.Time(msg)); err != nil {
				m.log.Warn("failed to save time-on-task", "err", err)
			}
		}
		return m, tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// headerStats summarises the record set for the header bar.
func (m AppModel) headerStats() layout.HeaderStats {
	records := m.engine.Progress().Records()
	return layout.HeaderStats{
		Completed: progress.CompletedCount(records),
		Total:     m.engine.Catalog().Total(),
		Streak:    engagement.Streak(records, m.engine.Now()),
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.headerStats(), m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program and times the session around it.
func Run(ctx context.Context, opts Options) error {
	if t := opts.Engine.Timer(); t != nil {
		t.Start(ctx, time.Now())
		defer func() {
			if _, err := t.End(context.Background(), time.Now()); err != nil && opts.Logger != nil {
				opts.Logger.Warn("failed to save session time", "err", err)
			}
		}()
	}

	p := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
