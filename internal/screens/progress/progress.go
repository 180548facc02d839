// Package progress renders the learner's engagement panel.
package progress

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gotutor/internal/engagement"
	rec "github.com/abhisek/gotutor/internal/progress"
	"github.com/abhisek/gotutor/internal/screen"
	"github.com/abhisek/gotutor/internal/tutor"
	"github.com/abhisek/gotutor/internal/ui/components"
	"github.com/abhisek/gotutor/internal/ui/theme"
)

// recentCount is how many completions the recent activity list shows.
const recentCount = 3

// snapshotMsg delivers a freshly computed snapshot.
type snapshotMsg struct {
	Snap   engagement.Snapshot
	Recent []rec.Record
}

// ProgressScreen shows tier, completion, streak and time-on-task.
type ProgressScreen struct {
	engine *tutor.Engine
	snap   engagement.Snapshot
	recent []rec.Record
	loaded bool
}

var _ screen.Screen = (*ProgressScreen)(nil)

// New creates a ProgressScreen.
func New(engine *tutor.Engine) *ProgressScreen {
	return &ProgressScreen{engine: engine}
}

func (s *ProgressScreen) Init() tea.Cmd {
	engine := s.engine
	return func() tea.Msg {
		return snapshotMsg{
			Snap:   engine.Snapshot(context.Background()),
			Recent: engine.Recent(recentCount),
		}
	}
}

func (s *ProgressScreen) Title() string {
	return "Your Progress"
}

func (s *ProgressScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(snapshotMsg); ok {
		s.snap = msg.Snap
		s.recent = msg.Recent
		s.loaded = true
	}
	return s, nil
}

func (s *ProgressScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading progress...")
	}

	cw := min(width-4, 72)
	sections := []string{
		s.renderTier(cw),
		s.renderStats(cw),
		s.renderRecent(cw),
		s.renderGoal(cw),
	}
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, "\n"+content)
}

func (s *ProgressScreen) renderTier(width int) string {
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("Achievement Level") + "\n")
	b.WriteString(theme.Title.Render(s.snap.Tier.Icon()+" "+s.snap.Tier.DisplayName()) + "\n\n")
	b.WriteString(fmt.Sprintf("%s %d / %d lessons\n",
		theme.Subtitle.Render("Progress"), s.snap.CompletedCount, s.snap.TotalLessons))

	bar := components.NewProgressBar("", s.snap.CompletionPercentage/100, true, width-4)
	b.WriteString(bar.View())

	return theme.Card.Width(width).Render(b.String())
}

func (s *ProgressScreen) renderStats(width int) string {
	streakUnit := "days"
	if s.snap.StreakDays == 1 {
		streakUnit = "day"
	}
	rows := [][2]string{
		{"🏆 Lessons Completed", fmt.Sprintf("%d", s.snap.CompletedCount)},
		{"⏱  Time Spent", fmt.Sprintf("%dm", s.snap.TotalTimeMinutes)},
		{"🎯 Current Streak", fmt.Sprintf("%d %s", s.snap.StreakDays, streakUnit)},
	}

	inner := width - 4
	var lines []string
	for _, r := range rows {
		label := theme.Body.Render(r[0])
		value := theme.Selected.Render(r[1])
		gap := max(inner-lipgloss.Width(label)-lipgloss.Width(value), 1)
		lines = append(lines, label+strings.Repeat(" ", gap)+value)
	}
	return theme.Card.Width(width).Render(strings.Join(lines, "\n"))
}

func (s *ProgressScreen) renderRecent(width int) string {
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("Recent Activity"))
	if len(s.recent) == 0 {
		b.WriteString("\n" + theme.Hint.Render("No completed lessons yet"))
	}
	for _, r := range s.recent {
		title := fmt.Sprintf("Lesson %d", r.LessonID)
		if l, ok := s.engine.Catalog().Get(r.LessonID); ok {
			title = l.Title
		}
		when := ""
		if r.CompletedAt != nil {
			when = r.CompletedAt.Local().Format("Jan 02, 15:04")
		}
		b.WriteString("\n" + theme.Correct.Render("●") + " " +
			theme.Body.Render("Completed "+title) + "  " + theme.Hint.Render(when))
	}
	return theme.Card.Width(width).Render(b.String())
}

func (s *ProgressScreen) renderGoal(width int) string {
	var text string
	if goal, ok := engagement.NextTier(s.snap); ok {
		noun := "lessons"
		if goal.LessonsNeeded == 1 {
			noun = "lesson"
		}
		text = fmt.Sprintf("• Complete %d more %s to reach %s level",
			goal.LessonsNeeded, noun, goal.Tier.DisplayName())
	} else {
		text = "• Every lesson is complete. Well done!"
	}
	if s.snap.StreakDays == 0 {
		text += "\n• Complete a lesson today to start a streak"
	} else {
		text += fmt.Sprintf("\n• Come back tomorrow to make it %d days", s.snap.StreakDays+1)
	}
	return theme.Card.Width(width).
		BorderForeground(theme.Accent).
		Render(theme.Subtitle.Render("Next Goals") + "\n" + theme.Body.Render(text))
}
