package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/gotutor/internal/engagement"
	"github.com/abhisek/gotutor/internal/tutor"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		d.engine.Load(ctx)
		printStats(cmd.OutOrStdout(), d.engine, d.engine.Snapshot(ctx))
		return nil
	},
}

func printStats(w io.Writer, engine *tutor.Engine, s engagement.Snapshot) {
	fmt.Fprintf(w, "Learner:            %s\n", engine.Progress().UserID())
	fmt.Fprintf(w, "Achievement level:  %s %s\n", s.Tier.Icon(), s.Tier.DisplayName())
	fmt.Fprintf(w, "Lessons completed:  %d / %d (%.1f%%)\n", s.CompletedCount, s.TotalLessons, s.CompletionPercentage)
	fmt.Fprintf(w, "Current streak:     %d %s\n", s.StreakDays, plural(s.StreakDays, "day", "days"))
	fmt.Fprintf(w, "Time spent:         %dm\n", s.TotalTimeMinutes)
	if engine.Progress().Degraded() {
		fmt.Fprintln(w, "(progress server unreachable; showing progress saved on this device)")
	}

	fmt.Fprintln(w, "\nRecent activity:")
	recent := engine.Recent(3)
	if len(recent) == 0 {
		fmt.Fprintln(w, "  No completed lessons yet")
	}
	for _, r := range recent {
		title := fmt.Sprintf("Lesson %d", r.LessonID)
		if l, ok := engine.Catalog().Get(r.LessonID); ok {
			title = l.Title
		}
		fmt.Fprintf(w, "  ✓ %s (%s)\n", title, r.CompletedAt.Local().Format("2006-01-02 15:04"))
	}

	if goal, ok := engagement.NextTier(s); ok {
		fmt.Fprintf(w, "\nNext goal: complete %d more %s to reach %s\n",
			goal.LessonsNeeded, plural(goal.LessonsNeeded, "lesson", "lessons"), goal.Tier.DisplayName())
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
