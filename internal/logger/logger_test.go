package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gotutor.log")
	l, err := New(Options{Mode: "prod", Level: "info", Path: path})
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("lesson completed", "lesson_id", 3)
	l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "lesson completed")
	assert.Contains(t, out, `"lesson_id":3`)
	assert.False(t, strings.Contains(out, "hidden"), "debug line written at info level")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	require.Error(t, err)
}

func TestWithAddsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := Wrap(zap.New(core)).With("user_id", "u1").Named("progress")

	l.Warn("remote unavailable", "err", "timeout")

	entries := logs.All()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "progress", e.LoggerName)
	assert.Equal(t, "remote unavailable", e.Message)
	ctx := e.ContextMap()
	assert.Equal(t, "u1", ctx["user_id"])
	assert.Equal(t, "timeout", ctx["err"])
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.Error("nothing happens")
	l.Sync()
}
