package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear progress and time saved on this device",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		if !yes {
			fmt.Fprintf(cmd.OutOrStdout(), "This clears local progress for %q. Re-run with --yes to confirm.\n", d.cfg.UserID)
			return nil
		}
		if err := d.engine.Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Local progress for %q cleared.\n", d.cfg.UserID)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Skip the confirmation")
}
