// Package config loads gotutor settings from an optional YAML file and
// GOTUTOR_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Cache backends for the local progress cache.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Config holds all application configuration.
type Config struct {
	// UserID identifies the learner. The client has no login; the
	// default matches the single-user demo account.
	UserID string `yaml:"user_id"`

	// DBPath is the SQLite file. Empty means store.DefaultDBPath().
	DBPath string `yaml:"db_path"`

	Cache     CacheConfig     `yaml:"cache"`
	Remote    RemoteConfig    `yaml:"remote"`
	Execution ExecutionConfig `yaml:"execution"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
}

// CacheConfig selects where the local progress cache lives.
type CacheConfig struct {
	Backend   string `yaml:"backend"`    // "sqlite" or "badger"
	BadgerDir string `yaml:"badger_dir"` // Empty means <data dir>/badger.
}

// RemoteConfig points at the Remote Progress Authority.
type RemoteConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ExecutionConfig points at the code execution service. `gotutor serve`
// does not run code, so there is no default; an empty BaseURL makes every
// run report that no execution service is configured.
type ExecutionConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig configures `gotutor serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// DBPath is the authority database. Empty shares the client database.
	DBPath string `yaml:"db_path"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Mode  string `yaml:"mode"`  // "dev" or "prod"
	Level string `yaml:"level"` // debug, info, warn, error
	// File receives log output while the TUI owns the terminal.
	File string `yaml:"file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserID: "demo-user",
		Cache: CacheConfig{
			Backend: BackendSQLite,
		},
		Remote: RemoteConfig{
			BaseURL: "http://localhost:8080/api",
			Timeout: 10 * time.Second,
		},
		Execution: ExecutionConfig{
			Timeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Mode:  "dev",
			Level: "info",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty or the file does not exist), and environment overrides.
// The result is validated.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides cfg with GOTUTOR_* variables.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("GOTUTOR_USER_ID"); v != "" {
		cfg.UserID = v
	}
	if v := os.Getenv("GOTUTOR_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("GOTUTOR_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv("GOTUTOR_BADGER_DIR"); v != "" {
		cfg.Cache.BadgerDir = v
	}
	if v := os.Getenv("GOTUTOR_REMOTE_URL"); v != "" {
		cfg.Remote.BaseURL = v
	}
	if v := os.Getenv("GOTUTOR_REMOTE_TIMEOUT"); v != "" {
		d, err := parseDuration("GOTUTOR_REMOTE_TIMEOUT", v)
		if err != nil {
			return err
		}
		cfg.Remote.Timeout = d
	}
	if v := os.Getenv("GOTUTOR_EXECUTION_URL"); v != "" {
		cfg.Execution.BaseURL = v
	}
	if v := os.Getenv("GOTUTOR_EXECUTION_TIMEOUT"); v != "" {
		d, err := parseDuration("GOTUTOR_EXECUTION_TIMEOUT", v)
		if err != nil {
			return err
		}
		cfg.Execution.Timeout = d
	}
	if v := os.Getenv("GOTUTOR_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("GOTUTOR_SERVER_DB"); v != "" {
		cfg.Server.DBPath = v
	}
	if v := os.Getenv("GOTUTOR_LOG_MODE"); v != "" {
		cfg.Log.Mode = v
	}
	if v := os.Getenv("GOTUTOR_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("GOTUTOR_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	return nil
}

// parseDuration accepts Go durations ("15s") or a bare number of seconds.
func parseDuration(name, v string) (time.Duration, error) {
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", name, v)
	}
	return time.Duration(secs) * time.Second, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	switch c.Cache.Backend {
	case BackendSQLite, BackendBadger:
	default:
		return fmt.Errorf("unknown cache backend: %q", c.Cache.Backend)
	}
	if err := validateURL("remote base url", c.Remote.BaseURL); err != nil {
		return err
	}
	if c.Execution.BaseURL != "" {
		if err := validateURL("execution base url", c.Execution.BaseURL); err != nil {
			return err
		}
	}
	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("remote timeout must be positive, got %s", c.Remote.Timeout)
	}
	if c.Execution.Timeout <= 0 {
		return fmt.Errorf("execution timeout must be positive, got %s", c.Execution.Timeout)
	}
	switch c.Log.Mode {
	case "dev", "development", "prod", "production":
	default:
		return fmt.Errorf("unknown log mode: %q", c.Log.Mode)
	}
	return nil
}

func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be http or https, got %q", field, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s has no host: %q", field, raw)
	}
	return nil
}
