package progress

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/abhisek/gotutor/internal/logger"
	"github.com/abhisek/gotutor/internal/store"
)

// DefaultTimeout bounds a single call to the authority.
const DefaultTimeout = 10 * time.Second

// ErrNoAuthority is reported when no remote authority is configured.
var ErrNoAuthority = errors.New("no remote progress authority configured")

// Authority is the remote source of truth for progress.
type Authority interface {
	FetchProgress(ctx context.Context, userID string) ([]Record, error)
	SubmitProgress(ctx context.Context, rec Record) error
}

// EventLog records completion attempts. store.EventRepo satisfies it.
type EventLog interface {
	AppendCompletionEvent(ctx context.Context, data store.CompletionEventData) error
}

// Options configures a Reconciler.
type Options struct {
	// Timeout bounds each authority call. Zero means DefaultTimeout.
	Timeout time.Duration
	Events  EventLog
	Logger  *logger.Logger
	// OnPushed, if set, is called after each background push with its
	// result (nil on success).
	OnPushed func(rec Record, err error)
}

// Reconciler is the only writer of the progress record set. Reads try the
// authority first and fall back to the local cache. Completions are written
// locally unconditionally and pushed to the authority best-effort.
type Reconciler struct {
	userID  string
	local   *LocalCache
	remote  Authority
	events  EventLog
	timeout time.Duration
	log     *logger.Logger

	onPushed func(Record, error)
	pending  sync.WaitGroup

	// completeMu serializes Complete and Resync.
	completeMu sync.Mutex

	mu       sync.RWMutex
	known    map[int]Record
	degraded bool
}

// NewReconciler returns a Reconciler for userID. remote may be nil, in which
// case the reconciler runs entirely on the local cache.
func NewReconciler(userID string, local *LocalCache, remote Authority, opts Options) *Reconciler {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Reconciler{
		userID:  userID,
		local:   local,
		remote:  remote,
		events:  opts.Events,
		timeout: opts.Timeout,
		log:     opts.Logger.Named("reconciler").With("user_id", userID),
		known:   make(map[int]Record),

		onPushed: opts.OnPushed,
	}
}

// UserID returns the user this reconciler tracks.
func (r *Reconciler) UserID() string { return r.userID }

// Load replaces the known set with the authority's records, or with the
// local cache when the authority is unreachable. It never fails.
func (r *Reconciler) Load(ctx context.Context) []Record {
	records, err := r.fetch(ctx)
	degraded := err != nil
	if degraded {
		r.log.Warn("progress authority unavailable, using local cache", "err", err)
		records = r.local.Load(ctx, r.userID)
	}

	r.mu.Lock()
	r.known = make(map[int]Record, len(records))
	for _, rec := range records {
		r.known[rec.LessonID] = rec
	}
	r.degraded = degraded
	r.mu.Unlock()

	return r.Records()
}

func (r *Reconciler) fetch(ctx context.Context) ([]Record, error) {
	if r.remote == nil {
		return nil, ErrNoAuthority
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	fetched, err := r.remote.FetchProgress(ctx, r.userID)
	if err != nil {
		return nil, err
	}
	mine := make([]Record, 0, len(fetched))
	for _, rec := range fetched {
		if rec.UserID == r.userID && rec.LessonID > 0 {
			mine = append(mine, rec)
		}
	}
	return byLesson(mine), nil
}

// Complete marks lessonID completed at now. It returns the lesson's record
// and whether this call changed it, as soon as the local write is done; the
// push to the authority continues in the background. A lesson already
// completed is left untouched. Failures are logged, never returned.
func (r *Reconciler) Complete(ctx context.Context, lessonID int, now time.Time) (Record, bool) {
	r.completeMu.Lock()
	defer r.completeMu.Unlock()

	r.mu.RLock()
	existing, ok := r.known[lessonID]
	r.mu.RUnlock()
	if ok && existing.Completed {
		return existing, false
	}

	rec := NewCompletion(r.userID, lessonID, now)

	if err := r.local.Upsert(ctx, rec); err != nil {
		r.log.Error("write local progress", "lesson_id", lessonID, "err", err)
	}

	r.mu.Lock()
	r.known[lessonID] = rec
	r.mu.Unlock()

	r.pending.Add(1)
	go r.push(context.WithoutCancel(ctx), rec)

	return rec, true
}

// push submits rec to the authority and records the outcome. It runs
// detached from Complete; Wait blocks until every push has finished.
func (r *Reconciler) push(ctx context.Context, rec Record) {
	defer r.pending.Done()

	err := ErrNoAuthority
	if r.remote != nil {
		pctx, cancel := context.WithTimeout(ctx, r.timeout)
		err = r.remote.SubmitProgress(pctx, rec)
		cancel()
	}

	event := store.CompletionEventData{
		UserID:       r.userID,
		LessonID:     rec.LessonID,
		RemoteSynced: err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
		r.log.Warn("push progress failed", "lesson_id", rec.LessonID, "err", err)
	} else {
		r.log.Info("lesson completed", "lesson_id", rec.LessonID)
	}
	r.recordEvent(ctx, event)

	if r.onPushed != nil {
		r.onPushed(rec, err)
	}
}

// Wait blocks until all pushes started by Complete have finished and their
// events are recorded. Call it before closing the event log.
func (r *Reconciler) Wait() {
	r.pending.Wait()
}

func (r *Reconciler) recordEvent(ctx context.Context, data store.CompletionEventData) {
	if r.events == nil {
		return
	}
	if err := r.events.AppendCompletionEvent(ctx, data); err != nil {
		r.log.Warn("append completion event", "err", err)
	}
}

// SyncResult summarizes a Resync.
type SyncResult struct {
	Records    []Record
	Pushed     int
	PushFailed int
}

// Resync merges the local cache with the authority (see Merge), stores the
// merged set locally and pushes completions the authority does not have.
// Unlike Load it fails when the authority is unreachable.
func (r *Reconciler) Resync(ctx context.Context) (SyncResult, error) {
	r.completeMu.Lock()
	defer r.completeMu.Unlock()

	remote, err := r.fetch(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetch remote progress: %w", err)
	}
	local := r.local.Load(ctx, r.userID)
	merged := Merge(local, remote)

	if err := r.local.Replace(ctx, r.userID, merged); err != nil {
		return SyncResult{}, err
	}

	res := SyncResult{Records: merged}
	for _, rec := range merged {
		if !rec.Completed {
			continue
		}
		if have, ok := Find(remote, rec.LessonID); ok && have.Completed {
			continue
		}
		pctx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.remote.SubmitProgress(pctx, rec)
		cancel()
		if err != nil {
			res.PushFailed++
			r.log.Warn("push progress during resync", "lesson_id", rec.LessonID, "err", err)
			continue
		}
		res.Pushed++
	}

	r.mu.Lock()
	r.known = make(map[int]Record, len(merged))
	for _, rec := range merged {
		r.known[rec.LessonID] = rec
	}
	r.degraded = false
	r.mu.Unlock()

	return res, nil
}

// Records returns a copy of the known set ordered by lesson ID.
func (r *Reconciler) Records() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, 0, len(r.known))
	for _, rec := range r.known {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LessonID < out[j].LessonID })
	return out
}

// IsCompleted reports whether lessonID is completed in the known set.
func (r *Reconciler) IsCompleted(lessonID int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.known[lessonID].Completed
}

// Degraded reports whether the last Load fell back to the local cache.
func (r *Reconciler) Degraded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.degraded
}

// Local exposes the local cache for time-on-task bookkeeping.
func (r *Reconciler) Local() *LocalCache { return r.local }
