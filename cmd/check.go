package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <lesson-id> <file.go>",
	Short: "Run a Go file against a lesson and record completion",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lessonID, err := strconv.Atoi(args[0])
		if err != nil || lessonID <= 0 {
			return fmt.Errorf("invalid lesson id %q", args[0])
		}
		code, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[1], err)
		}

		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		d.engine.Load(ctx)

		title := fmt.Sprintf("Lesson %d", lessonID)
		if l, ok := d.engine.Catalog().Get(lessonID); ok {
			title = l.Title
		}

		res := d.engine.Run(ctx, lessonID, string(code))
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "--- output ---")
		fmt.Fprintln(out, res.Output)
		fmt.Fprintln(out, "--------------")

		switch {
		case res.Newly:
			fmt.Fprintf(out, "🎉 %s complete!\n", title)
		case res.Passed:
			fmt.Fprintf(out, "✓ %s passed (already completed)\n", title)
		default:
			fmt.Fprintf(out, "✗ %s not complete yet\n", title)
		}
		return nil
	},
}
