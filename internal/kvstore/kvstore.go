// Package kvstore keeps the local progress cache in an embedded BadgerDB
// instead of SQLite.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/abhisek/gotutor/internal/logger"
)

// Config holds configuration for the BadgerDB instance.
type Config struct {
	// Path is the directory for BadgerDB files. Ignored when InMemory is true.
	Path string

	// InMemory disables disk persistence. Used by tests.
	InMemory bool

	SyncWrites bool

	// Logger receives BadgerDB's internal logs. Nil disables them.
	Logger *logger.Logger

	// GCInterval is how often value log GC runs. Zero disables it.
	GCInterval     time.Duration
	GCDiscardRatio float64
}

// DefaultConfig returns the on-disk configuration rooted at path.
func DefaultConfig(path string) Config {
	return Config{
		Path:           path,
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// InMemoryConfig returns a configuration with no disk I/O.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// DB wraps a badger database and its background GC loop.
type DB struct {
	db   *badger.DB
	stop chan struct{}
	done chan struct{}
}

// Open opens the database described by cfg.
func Open(cfg Config) (*DB, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{log: cfg.Logger.Named("badger")})
	} else {
		opts = opts.WithLogger(nil)
	}

	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	d := &DB{db: bdb, stop: make(chan struct{}), done: make(chan struct{})}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		go d.runGC(cfg.GCInterval, cfg.GCDiscardRatio)
	} else {
		close(d.done)
	}
	return d, nil
}

func (d *DB) runGC(interval time.Duration, ratio float64) {
	defer close(d.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			// Keep collecting until badger reports nothing to rewrite.
			for d.db.RunValueLogGC(ratio) == nil {
			}
		}
	}
}

// Close stops GC and closes the database.
func (d *DB) Close() error {
	close(d.stop)
	<-d.done
	return d.db.Close()
}

// Slots returns the progress slot storage over this database.
func (d *DB) Slots() *Slots {
	return &Slots{db: d.db}
}

// Slots implements progress slot storage. Keys are "slot/<user>/<kind>"
// with the user ID path-escaped, so no user's prefix covers another's.
type Slots struct {
	db *badger.DB
}

func slotKey(userID, kind string) []byte {
	return append(userPrefix(userID), kind...)
}

func userPrefix(userID string) []byte {
	return []byte("slot/" + url.PathEscape(userID) + "/")
}

// GetSlot returns the slot contents and whether the slot exists.
func (s *Slots) GetSlot(_ context.Context, userID, kind string) ([]byte, bool, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(slotKey(userID, kind))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get slot %s/%s: %w", userID, kind, err)
	}
	return out, true, nil
}

// PutSlot replaces the slot contents.
func (s *Slots) PutSlot(_ context.Context, userID, kind string, data []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(slotKey(userID, kind), data)
	})
	if err != nil {
		return fmt.Errorf("put slot %s/%s: %w", userID, kind, err)
	}
	return nil
}

// DeleteSlots removes every slot belonging to userID.
func (s *Slots) DeleteSlots(_ context.Context, userID string) error {
	prefix := userPrefix(userID)
	err := s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		var keys [][]byte
		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete slots for %s: %w", userID, err)
	}
	return nil
}

// badgerLogger adapts logger.Logger to badger.Logger.
type badgerLogger struct {
	log *logger.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.SugaredLogger.Errorf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.SugaredLogger.Warnf(format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.SugaredLogger.Infof(format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.SugaredLogger.Debugf(format, args...)
}
