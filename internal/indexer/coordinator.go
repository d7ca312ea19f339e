package indexer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"galarie/internal/cache"
	"galarie/internal/index"
	"galarie/internal/logging"
	"galarie/internal/metrics"
)

// ErrAlreadyInProgress is returned when a rebuild is requested while one is
// already running. It is a rejection of the request, not an error state of
// the index.
var ErrAlreadyInProgress = errors.New("rebuild already in progress")

// Status reports how a triggered rebuild request was handled.
type Status string

const (
	// StatusQueued means a fresh walk was started in the background.
	StatusQueued Status = "queued"
	// StatusComplete means a still-fresh stored snapshot was reused without
	// walking the filesystem.
	StatusComplete Status = "complete"
)

// Coordinator owns the currently published snapshot and enforces the
// rebuild protocol: at most one rebuild in flight, atomic publication of new
// snapshots, and the previous snapshot staying authoritative when a rebuild
// fails. All other components are read-only consumers of Current().
type Coordinator struct {
	store  *cache.Store
	walker *Walker

	// maxAge is the staleness bound for reusing a stored snapshot on a
	// non-forced rebuild. Zero disables reuse: every rebuild walks.
	maxAge time.Duration

	current atomic.Pointer[index.Snapshot]

	mu              sync.Mutex
	rebuilding      bool
	initialComplete bool
	lastRebuildTime time.Time
	lastDuration    time.Duration
	lastError       error

	ctx    context.Context
	cancel context.CancelFunc
}

// NewCoordinator creates a coordinator. An empty snapshot is published
// immediately so that searches never observe a nil index.
func NewCoordinator(store *cache.Store, walker *Walker, maxAge time.Duration) *Coordinator {
	c := &Coordinator{
		store:  store,
		walker: walker,
		maxAge: maxAge,
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.current.Store(index.Build(nil))
	return c
}

// Current returns the currently published snapshot. The returned snapshot
// is immutable; callers may use it for the duration of one query and must
// not cache it across rebuild boundaries.
func (c *Coordinator) Current() *index.Snapshot {
	return c.current.Load()
}

// Bootstrap establishes the initial snapshot: the stored snapshot when it is
// usable, otherwise a full walk. A missing, corrupt or version-mismatched
// cache is a cache miss, never a crash. On walk failure the empty snapshot
// stays published and search remains functional.
func (c *Coordinator) Bootstrap(ctx context.Context) error {
	snap, err := c.store.Load()
	if err == nil {
		c.publish(snap)
		c.markInitialComplete(nil)
		logging.Info("Loaded snapshot cache: %d media files (generated %v)", snap.Len(), snap.GeneratedAt)
		return nil
	}

	switch {
	case errors.Is(err, cache.ErrNotFound):
		logging.Info("No snapshot cache found, performing initial walk")
	case errors.Is(err, cache.ErrSchemaMismatch), errors.Is(err, cache.ErrCorrupt):
		logging.Warn("Snapshot cache unusable (%v), performing initial walk", err)
	default:
		logging.Warn("Failed to read snapshot cache: %v, performing initial walk", err)
	}

	rebuildErr := c.Rebuild(ctx, true)
	c.markInitialComplete(rebuildErr)
	return rebuildErr
}

// Rebuild synchronously rebuilds the index. With force the filesystem is
// always walked; without it a stored snapshot younger than maxAge is reused.
// Returns ErrAlreadyInProgress when a rebuild is already running.
func (c *Coordinator) Rebuild(ctx context.Context, force bool) error {
	if !c.tryStartRebuild() {
		metrics.IndexerRebuildsRejected.Inc()
		return ErrAlreadyInProgress
	}

	if !force {
		if snap := c.freshStoredSnapshot(); snap != nil {
			c.publish(snap)
			c.finishRebuild(nil)
			logging.Info("Reusing stored snapshot generated at %v", snap.GeneratedAt)
			return nil
		}
	}

	err := c.run(ctx)
	c.finishRebuild(err)
	return err
}

// TriggerRebuild handles an administrative rebuild request. A fresh stored
// snapshot satisfies a non-forced request immediately (StatusComplete);
// otherwise the walk runs in the background (StatusQueued). A request
// arriving while a rebuild is in flight returns ErrAlreadyInProgress.
func (c *Coordinator) TriggerRebuild(force bool) (Status, error) {
	if !c.tryStartRebuild() {
		metrics.IndexerRebuildsRejected.Inc()
		return "", ErrAlreadyInProgress
	}

	if !force {
		if snap := c.freshStoredSnapshot(); snap != nil {
			c.publish(snap)
			c.finishRebuild(nil)
			logging.Info("Reusing stored snapshot generated at %v", snap.GeneratedAt)
			return StatusComplete, nil
		}
	}

	go func() {
		err := c.run(c.ctx)
		c.finishRebuild(err)
		if err != nil {
			logging.Error("Triggered rebuild failed: %v", err)
		}
	}()

	return StatusQueued, nil
}

// Start launches the periodic rebuild loop. A zero or negative interval
// disables periodic rebuilds; explicit triggers still work.
func (c *Coordinator) Start(interval time.Duration) {
	if interval <= 0 {
		logging.Info("Periodic rebuilds disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				logging.Debug("Periodic rebuild triggered")
				if err := c.Rebuild(c.ctx, false); err != nil && !errors.Is(err, ErrAlreadyInProgress) {
					logging.Error("Periodic rebuild failed: %v", err)
				}
			case <-c.ctx.Done():
				return
			}
		}
	}()
}

// Stop cancels any in-flight rebuild and the periodic loop. Partial walk
// progress is discarded; the previously published snapshot stays in effect.
func (c *Coordinator) Stop() {
	c.cancel()
}

// run performs walk -> build -> persist -> publish. Any failure leaves the
// previously published snapshot untouched.
func (c *Coordinator) run(ctx context.Context) error {
	metrics.IndexerIsRunning.Set(1)
	defer metrics.IndexerIsRunning.Set(0)
	metrics.IndexerRunsTotal.Inc()

	start := time.Now()
	logging.Info("Starting index rebuild of %s", c.walker.Root())

	files, err := c.walker.Walk(ctx)
	if err != nil {
		metrics.IndexerErrors.Inc()
		return err
	}

	snap := index.Build(files)

	if err := c.store.Save(snap); err != nil {
		metrics.IndexerErrors.Inc()
		return err
	}

	c.publish(snap)

	duration := time.Since(start)
	c.mu.Lock()
	c.lastRebuildTime = time.Now()
	c.lastDuration = duration
	c.mu.Unlock()

	metrics.IndexerLastRunTimestamp.Set(float64(time.Now().Unix()))
	metrics.IndexerLastRunDuration.Set(duration.Seconds())

	logging.Info("Rebuild complete: %d media files in %v", snap.Len(), duration)
	return nil
}

// publish atomically swaps the published snapshot. Queries already in
// progress keep the reference they captured at call start.
func (c *Coordinator) publish(snap *index.Snapshot) {
	c.current.Store(snap)
	metrics.IndexerFilesIndexed.Set(float64(snap.Len()))
}

// freshStoredSnapshot loads the stored snapshot if it is usable and younger
// than maxAge. Any load failure or staleness yields nil.
func (c *Coordinator) freshStoredSnapshot() *index.Snapshot {
	if c.maxAge <= 0 {
		return nil
	}

	snap, err := c.store.Load()
	if err != nil {
		return nil
	}
	if time.Since(snap.GeneratedAt) > c.maxAge {
		return nil
	}
	return snap
}

func (c *Coordinator) tryStartRebuild() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rebuilding {
		return false
	}
	c.rebuilding = true
	return true
}

func (c *Coordinator) finishRebuild(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rebuilding = false
	c.lastError = err
}

func (c *Coordinator) markInitialComplete(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.initialComplete = true
	if err != nil {
		c.lastError = err
	}
}

// IsRebuilding reports whether a rebuild is currently in flight.
func (c *Coordinator) IsRebuilding() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rebuilding
}

// Ready reports whether the initial snapshot (loaded or walked, possibly
// empty) has been established.
func (c *Coordinator) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialComplete
}

// LastRebuildTime returns when the last successful walk completed.
func (c *Coordinator) LastRebuildTime() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRebuildTime
}

// LastRebuildDuration returns how long the last successful walk took.
func (c *Coordinator) LastRebuildDuration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastDuration
}

// LastRebuildError returns the error from the most recent rebuild attempt,
// nil after a success.
func (c *Coordinator) LastRebuildError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}
