package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gotutor/internal/remote"
	"github.com/abhisek/gotutor/internal/server"
	"github.com/abhisek/gotutor/internal/store"
)

const helloProgram = `package main

import "fmt"

func main() {
	fmt.Println("Hello, World!")
}
`

// testEnv points the CLI at a live progress server and a fake execution
// service, with all local state under a temp dir.
type testEnv struct {
	db        string
	authority store.ProgressRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.Open("file:cmd_" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	api := httptest.NewServer(server.New(server.Options{Progress: st.ProgressRepo()}).Handler())
	t.Cleanup(api.Close)

	exec := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req remote.ExecRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		res := remote.ExecResult{Output: "Hello, World!\n"}
		if req.Code == "" {
			res = remote.ExecResult{Error: "no code"}
		}
		_ = json.NewEncoder(w).Encode(res)
	}))
	t.Cleanup(exec.Close)

	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("GOTUTOR_USER_ID", "cli-user")
	t.Setenv("GOTUTOR_REMOTE_URL", api.URL+"/api")
	t.Setenv("GOTUTOR_EXECUTION_URL", exec.URL+"/api")
	t.Setenv("GOTUTOR_LOG_LEVEL", "error")

	return &testEnv{db: filepath.Join(dir, "client.db"), authority: st.ProgressRepo()}
}

func (e *testEnv) run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--db", e.db))
	require.NoError(t, rootCmd.ExecuteContext(context.Background()), out.String())
	return out.String()
}

func TestCheckStatsLessonsHistory(t *testing.T) {
	env := newTestEnv(t)
	file := filepath.Join(t.TempDir(), "hello.go")
	require.NoError(t, os.WriteFile(file, []byte(helloProgram), 0o644))

	out := env.run(t, "check", "1", file)
	assert.Contains(t, out, "Hello, World!")
	assert.Contains(t, out, "Hello, Go! complete!")

	rows, err := env.authority.List(context.Background(), "cli-user")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Completed)

	out = env.run(t, "check", "1", file)
	assert.Contains(t, out, "already completed")

	out = env.run(t, "stats")
	assert.Contains(t, out, "1 / 10 (10.0%)")
	assert.Contains(t, out, "Getting Started")
	assert.Contains(t, out, "Next goal: complete 2 more lessons to reach Beginner")

	out = env.run(t, "lessons")
	assert.Contains(t, out, "Hello, Go!")
	assert.Contains(t, out, "✓")

	out = env.run(t, "history", "--limit", "10")
	assert.Contains(t, out, "Completed Hello, Go!")
	assert.Contains(t, out, "server")
}

func TestCheckRejectsBadLessonID(t *testing.T) {
	newTestEnv(t)
	rootCmd.SetArgs([]string{"check", "zero", "x.go"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	assert.Error(t, rootCmd.ExecuteContext(context.Background()))
}

func TestResetAndSync(t *testing.T) {
	env := newTestEnv(t)
	file := filepath.Join(t.TempDir(), "vars.go")
	require.NoError(t, os.WriteFile(file, []byte("package main\n\nfunc main() {\n\tx := 1\n\t_ = x\n}\n"), 0o644))

	env.run(t, "check", "2", file)

	out := env.run(t, "reset", "--yes=false")
	assert.Contains(t, out, "--yes")

	out = env.run(t, "reset", "--yes")
	assert.Contains(t, out, "cleared")

	// The server still has the completion; sync restores it locally.
	out = env.run(t, "sync")
	assert.Contains(t, out, "Synced 1 records: 0 pushed, 0 failed.")
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "gotutor")
}
