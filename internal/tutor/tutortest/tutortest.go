// Package tutortest builds tutor engines over in-memory stores for tests.
package tutortest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abhisek/gotutor/internal/lessons"
	"github.com/abhisek/gotutor/internal/progress"
	"github.com/abhisek/gotutor/internal/remote"
	"github.com/abhisek/gotutor/internal/session"
	"github.com/abhisek/gotutor/internal/store"
	"github.com/abhisek/gotutor/internal/tutor"
)

// UserID is the learner every test engine tracks.
const UserID = "test-user"

// Exec is a scripted tutor.Executor.
type Exec struct {
	mu     sync.Mutex
	Result remote.ExecResult
	Err    error
	Codes  []string
}

// Execute records code and returns the scripted result.
func (e *Exec) Execute(_ context.Context, code string) (remote.ExecResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Codes = append(e.Codes, code)
	return e.Result, e.Err
}

// Calls returns how many times Execute ran.
func (e *Exec) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Codes)
}

var dbSeq atomic.Int64

// Env is a loaded engine and the store behind it.
type Env struct {
	Engine *tutor.Engine
	Store  *store.Store
	Exec   *Exec
}

// New opens a private in-memory store and returns a loaded engine using the
// built-in catalog, no remote authority and the given clock.
func New(t testing.TB, now time.Time) *Env {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	st, err := store.Open(dsn)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	local := progress.NewLocalCache(st.SlotRepo(), nil)
	exec := &Exec{}
	engine := tutor.New(tutor.Options{
		Catalog:  lessons.NewCatalog(nil, nil),
		Progress: progress.NewReconciler(UserID, local, nil, progress.Options{Events: st.EventRepo()}),
		Timer:    session.NewTimer(UserID, local, st.EventRepo(), nil),
		Exec:     exec,
		Clock:    func() time.Time { return now },
	})
	engine.Load(context.Background())
	// Runs before the store closes so background pushes can record events.
	t.Cleanup(engine.Progress().Wait)
	return &Env{Engine: engine, Store: st, Exec: exec}
}
