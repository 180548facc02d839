// Package tutor runs the learner's code-and-completion loop over the
// lesson catalog, the progress reconciler and the session timer.
package tutor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/gotutor/internal/completion"
	"github.com/abhisek/gotutor/internal/engagement"
	"github.com/abhisek/gotutor/internal/lessons"
	"github.com/abhisek/gotutor/internal/logger"
	"github.com/abhisek/gotutor/internal/progress"
	"github.com/abhisek/gotutor/internal/remote"
	"github.com/abhisek/gotutor/internal/session"
)

// Executor runs a program and reports what it printed.
// remote.ExecutionClient satisfies it.
type Executor interface {
	Execute(ctx context.Context, code string) (remote.ExecResult, error)
}

// Options configures an Engine. Catalog, Progress and Exec are required.
type Options struct {
	Catalog  *lessons.Catalog
	Progress *progress.Reconciler
	Timer    *session.Timer
	Exec     Executor
	Rules    *completion.Registry
	Logger   *logger.Logger
	Clock    func() time.Time
}

// Engine is shared by the TUI and the headless commands.
type Engine struct {
	catalog  *lessons.Catalog
	progress *progress.Reconciler
	timer    *session.Timer
	exec     Executor
	rules    *completion.Registry
	log      *logger.Logger
	now      func() time.Time
}

// New creates an Engine.
func New(opts Options) *Engine {
	if opts.Rules == nil {
		opts.Rules = completion.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Engine{
		catalog:  opts.Catalog,
		progress: opts.Progress,
		timer:    opts.Timer,
		exec:     opts.Exec,
		rules:    opts.Rules,
		log:      opts.Logger.Named("tutor"),
		now:      opts.Clock,
	}
}

// Load fetches the catalog and the progress record set. Both fall back to
// local data, so Load never fails.
func (e *Engine) Load(ctx context.Context) {
	e.catalog.Load(ctx)
	e.progress.Load(ctx)
}

// Catalog returns the lesson catalog.
func (e *Engine) Catalog() *lessons.Catalog { return e.catalog }

// Progress returns the reconciler.
func (e *Engine) Progress() *progress.Reconciler { return e.progress }

// Timer returns the session timer, nil when time is not tracked.
func (e *Engine) Timer() *session.Timer { return e.timer }

// Now returns the engine clock's current time.
func (e *Engine) Now() time.Time { return e.now() }

// RunResult is the outcome of running code for a lesson.
type RunResult struct {
	LessonID int
	Output   string
	Passed   bool
	// Newly is true only for the run that first completed the lesson.
	Newly  bool
	Record progress.Record
}

// Run executes code, evaluates it against the lesson's rule and records a
// completion when it passes. Blank code is not executed. Execution failures
// become part of the output and never an error.
func (e *Engine) Run(ctx context.Context, lessonID int, code string) RunResult {
	res := RunResult{LessonID: lessonID}
	if strings.TrimSpace(code) == "" {
		return res
	}

	out, err := e.exec.Execute(ctx, code)
	if err != nil {
		e.log.Warn("execution failed", "lesson_id", lessonID, "err", err)
		res.Output = completion.DisplayedOutput("", err.Error())
		return res
	}
	res.Output = completion.DisplayedOutput(out.Output, out.Error)

	if !e.rules.Evaluate(lessonID, code, res.Output) {
		return res
	}
	res.Passed = true
	res.Record, res.Newly = e.progress.Complete(ctx, lessonID, e.now())
	if res.Newly {
		e.log.Debug("run completed lesson", "lesson_id", lessonID)
	}
	return res
}

// Minutes returns the cumulative time-on-task including the running session.
func (e *Engine) Minutes(ctx context.Context) int {
	now := e.now()
	if e.timer != nil {
		return e.timer.TimeOnTask(ctx, now)
	}
	return e.progress.Local().TotalMinutes(ctx, e.progress.UserID())
}

// Snapshot recomputes the engagement metrics from the current record set.
func (e *Engine) Snapshot(ctx context.Context) engagement.Snapshot {
	return engagement.Calculate(e.progress.Records(), e.catalog.Total(), e.Minutes(ctx), e.now())
}

// Recent returns the last n completions, newest first.
func (e *Engine) Recent(n int) []progress.Record {
	return engagement.Recent(e.progress.Records(), n)
}

// Reset clears local progress and time for the user and reloads the set.
func (e *Engine) Reset(ctx context.Context) error {
	if err := e.progress.Local().Reset(ctx, e.progress.UserID()); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	e.progress.Load(ctx)
	return nil
}
