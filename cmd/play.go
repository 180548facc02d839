package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/gotutor/internal/app"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the interactive tutorial",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp opens the stores, loads lessons and progress, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	d, err := openDeps(cmd, true)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	d.engine.Load(ctx)

	return app.Run(ctx, app.Options{
		Engine: d.engine,
		Events: d.events,
		Logger: d.log,
	})
}
