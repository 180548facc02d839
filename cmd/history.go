package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/gotutor/internal/tutor"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show completed lessons and past sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		entries, err := d.engine.History(cmd.Context(), d.events, limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No history yet.")
			return nil
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("WHEN", "EVENT", "SYNC")
		for _, e := range entries {
			sync := ""
			if e.Kind == tutor.ActivityCompletion {
				sync = "local only"
				if e.Synced {
					sync = "server"
				}
			}
			t.Row(e.Time.Local().Format("2006-01-02 15:04"), e.Summary(), sync)
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of entries (0 for all)")
}
