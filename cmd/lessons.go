package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"
)

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "List lessons and which ones are complete",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		d.engine.Load(cmd.Context())

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ID", "DONE", "TITLE", "DIFFICULTY", "CATEGORY")
		for _, l := range d.engine.Catalog().All() {
			done := ""
			if d.engine.Progress().IsCompleted(l.ID) {
				done = "✓"
			}
			t.Row(fmt.Sprint(l.ID), done, l.Title, string(l.Difficulty), l.Category)
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		if d.engine.Catalog().Fallback() {
			fmt.Fprintln(cmd.OutOrStdout(), "(lesson server unreachable; showing built-in lessons)")
		}
		return nil
	},
}
