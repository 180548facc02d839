package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/gotutor/internal/lessons"
	"github.com/abhisek/gotutor/internal/server"
	"github.com/abhisek/gotutor/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the progress server (lessons, progress and metrics API)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		log, err := newLogger(cfg, false)
		if err != nil {
			return err
		}
		defer log.Sync()

		dbPath := cfg.Server.DBPath
		if dbPath == "" {
			dbPath = cfg.DBPath
		} else if err := store.EnsureDir(dbPath); err != nil {
			return fmt.Errorf("resolve server DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		srv := server.New(server.Options{
			Progress: st.ProgressRepo(),
			Lessons:  lessons.Builtin(),
			Logger:   log,
		})
		log.Debug("opened progress database", "path", dbPath)
		return srv.Run(cmd.Context(), cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
