package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, BackendSQLite, cfg.Cache.Backend)
	// The progress server does not run code, so execution has no default
	// that could point at it.
	assert.Empty(t, cfg.Execution.BaseURL)
	assert.NotEqual(t, cfg.Remote.BaseURL, cfg.Execution.BaseURL)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().UserID, cfg.UserID)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gotutor.yaml")
	yml := `
user_id: ada
cache:
  backend: badger
  badger_dir: /tmp/gotutor-badger
remote:
  base_url: https://progress.example.com/api
  timeout: 3s
log:
  mode: prod
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ada", cfg.UserID)
	assert.Equal(t, BackendBadger, cfg.Cache.Backend)
	assert.Equal(t, "/tmp/gotutor-badger", cfg.Cache.BadgerDir)
	assert.Equal(t, "https://progress.example.com/api", cfg.Remote.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Remote.Timeout)
	// Untouched sections keep their defaults.
	assert.Equal(t, 10*time.Second, cfg.Execution.Timeout)
	assert.Equal(t, "prod", cfg.Log.Mode)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gotutor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user_id: fromfile\n"), 0o644))

	t.Setenv("GOTUTOR_USER_ID", "fromenv")
	t.Setenv("GOTUTOR_REMOTE_TIMEOUT", "5")
	t.Setenv("GOTUTOR_EXECUTION_TIMEOUT", "1500ms")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fromenv", cfg.UserID)
	assert.Equal(t, 5*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.Execution.Timeout)
}

func TestLoadRejectsBadEnvDuration(t *testing.T) {
	t.Setenv("GOTUTOR_REMOTE_TIMEOUT", "soon")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOTUTOR_REMOTE_TIMEOUT")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("remote: [unclosed"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty user", func(c *Config) { c.UserID = "" }, "user id"},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "redis" }, "cache backend"},
		{"remote scheme", func(c *Config) { c.Remote.BaseURL = "ftp://x/api" }, "remote base url"},
		{"remote host", func(c *Config) { c.Remote.BaseURL = "http:///api" }, "no host"},
		{"execution scheme", func(c *Config) { c.Execution.BaseURL = "ftp://x/api" }, "execution base url"},
		{"execution timeout", func(c *Config) { c.Execution.Timeout = 0 }, "execution timeout"},
		{"log mode", func(c *Config) { c.Log.Mode = "verbose" }, "log mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
