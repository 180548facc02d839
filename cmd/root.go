package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/gotutor/internal/config"
	"github.com/abhisek/gotutor/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "gotutor",
	Short: "Interactive Go tutorial in the terminal",
	Long:  "GoTutor: work through Go lessons, run your code and track your progress.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which is cancelled on
// interrupt.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides GOTUTOR_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (default <data dir>/config.yaml)")
	rootCmd.PersistentFlags().String("user", "", "Learner ID (overrides GOTUTOR_USER_ID env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and environment, then applies the
// persistent flags, which take precedence over both.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		dir, err := store.DataDir()
		if err != nil {
			return config.Config{}, fmt.Errorf("resolve data dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if u, _ := cmd.Flags().GetString("user"); u != "" {
		cfg.UserID = u
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return config.Config{}, fmt.Errorf("resolve DB path: %w", err)
	}
	cfg.DBPath = dbPath
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path (GOTUTOR_DB or the config file), then the
// default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
