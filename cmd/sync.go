package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile local progress with the progress server",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		res, err := d.engine.Progress().Resync(cmd.Context())
		if err != nil {
			return fmt.Errorf("sync: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Synced %d records: %d pushed, %d failed.\n",
			len(res.Records), res.Pushed, res.PushFailed)
		return nil
	},
}
