package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/gotutor/internal/config"
	"github.com/abhisek/gotutor/internal/kvstore"
	"github.com/abhisek/gotutor/internal/lessons"
	"github.com/abhisek/gotutor/internal/logger"
	"github.com/abhisek/gotutor/internal/progress"
	"github.com/abhisek/gotutor/internal/remote"
	"github.com/abhisek/gotutor/internal/session"
	"github.com/abhisek/gotutor/internal/store"
	"github.com/abhisek/gotutor/internal/tutor"
)

// deps is everything a client command needs, opened from config.
type deps struct {
	cfg    config.Config
	log    *logger.Logger
	store  *store.Store
	kv     *kvstore.DB
	events store.EventRepo
	engine *tutor.Engine
}

// openDeps loads config, opens the local stores and builds the engine.
// Interactive runs log to a file because the TUI owns the terminal.
func openDeps(cmd *cobra.Command, interactive bool) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg, interactive)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	d := &deps{cfg: cfg, log: log, store: st, events: st.EventRepo()}

	var slots progress.SlotStore = st.SlotRepo()
	if cfg.Cache.Backend == config.BackendBadger {
		dir := cfg.Cache.BadgerDir
		if dir == "" {
			dir = filepath.Join(filepath.Dir(cfg.DBPath), "badger")
		}
		kcfg := kvstore.DefaultConfig(dir)
		kcfg.Logger = log
		kv, err := kvstore.Open(kcfg)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("open badger cache: %w", err)
		}
		d.kv = kv
		slots = kv.Slots()
	}

	local := progress.NewLocalCache(slots, log)
	authority := remote.NewProgressClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, nil, log)
	reconciler := progress.NewReconciler(cfg.UserID, local, authority, progress.Options{
		Timeout: cfg.Remote.Timeout,
		Events:  d.events,
		Logger:  log,
	})

	d.engine = tutor.New(tutor.Options{
		Catalog:  lessons.NewCatalog(remote.NewLessonClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, nil), log),
		Progress: reconciler,
		Timer:    session.NewTimer(cfg.UserID, local, d.events, log),
		Exec:     remote.NewExecutionClient(cfg.Execution.BaseURL, cfg.Execution.Timeout, nil),
		Logger:   log,
	})
	return d, nil
}

// Close waits for pending progress pushes, then releases the stores and
// flushes the logger.
func (d *deps) Close() {
	if d.engine != nil {
		d.engine.Progress().Wait()
	}
	if d.kv != nil {
		if err := d.kv.Close(); err != nil {
			d.log.Warn("close badger cache", "err", err)
		}
	}
	if err := d.store.Close(); err != nil {
		d.log.Warn("close store", "err", err)
	}
	d.log.Sync()
}

func newLogger(cfg config.Config, interactive bool) (*logger.Logger, error) {
	opts := logger.Options{Mode: cfg.Log.Mode, Level: cfg.Log.Level}
	if interactive {
		opts.Path = cfg.Log.File
		if opts.Path == "" {
			opts.Path = filepath.Join(filepath.Dir(cfg.DBPath), "gotutor.log")
		}
	}
	log, err := logger.New(opts)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}
