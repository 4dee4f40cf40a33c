package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"reel/internal/logging"
	"reel/internal/state"
	"reel/internal/studio"
)

// Snapshot is the watcher's merged view of a profile after a poll tick.
type Snapshot struct {
	Jobs      []studio.Job
	Assets    []studio.Asset
	Selection Selection
	Changed   bool
}

// WatcherOptions configures a Watcher.
type WatcherOptions struct {
	ProfileID     string
	JobInterval   time.Duration
	AssetInterval time.Duration
	// LockPath, when set, is an advisory lock file ensuring a single watcher
	// per state directory.
	LockPath string
	// OnUpdate is invoked after every applied tick. Calls are serialized.
	OnUpdate func(Snapshot)
}

// Watcher polls jobs and assets on independent cadences and keeps the
// selection reconciled. Job state moves faster than asset availability, so
// the two loops run at their own intervals rather than in lockstep.
type Watcher struct {
	api    API
	store  *state.Store
	rec    *Reconciler
	logger *slog.Logger
	opts   WatcherOptions

	mu     sync.Mutex
	jobs   []studio.Job
	assets []studio.Asset
}

// NewWatcher constructs a watcher. The store may be nil, in which case the
// selection is not persisted across runs.
func NewWatcher(api API, store *state.Store, rec *Reconciler, logger *slog.Logger, opts WatcherOptions) *Watcher {
	if rec == nil {
		rec = NewReconciler(nil)
	}
	if opts.JobInterval <= 0 {
		opts.JobInterval = 2 * time.Second
	}
	if opts.AssetInterval <= 0 {
		opts.AssetInterval = 3 * time.Second
	}
	return &Watcher{
		api:    api,
		store:  store,
		rec:    rec,
		logger: logging.WithComponent(logger, "watcher"),
		opts:   opts,
	}
}

// Run polls until the context is cancelled. Context cancellation is a clean
// shutdown, not an error.
func (w *Watcher) Run(ctx context.Context) error {
	if w.opts.LockPath != "" {
		lock := flock.New(w.opts.LockPath)
		locked, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire watch lock: %w", err)
		}
		if !locked {
			return fmt.Errorf("another watch is already running (lock %s held)", w.opts.LockPath)
		}
		defer func() {
			_ = lock.Unlock()
		}()
	}

	w.logger.Info("watch started",
		logging.FieldProfileID, w.opts.ProfileID,
		"job_interval", w.opts.JobInterval,
		"asset_interval", w.opts.AssetInterval,
	)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return w.loop(ctx, w.opts.JobInterval, w.pollJobs)
	})
	group.Go(func() error {
		return w.loop(ctx, w.opts.AssetInterval, w.pollAssets)
	})

	err := group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (w *Watcher) loop(ctx context.Context, interval time.Duration, poll func(context.Context) error) error {
	// Poll immediately so the first snapshot does not wait a full interval.
	if err := poll(ctx); err != nil {
		w.logger.Warn("poll failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := poll(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				// Transient poll failures keep the last snapshot; the next
				// tick tries again.
				w.logger.Warn("poll failed", "error", err)
			}
		}
	}
}

func (w *Watcher) pollJobs(ctx context.Context) error {
	jobs, err := w.api.ListJobs(ctx, w.opts.ProfileID)
	if err != nil {
		return err
	}
	w.apply(ctx, jobs, nil)
	return nil
}

func (w *Watcher) pollAssets(ctx context.Context) error {
	assets, err := w.api.ListAssets(ctx, w.opts.ProfileID)
	if err != nil {
		return err
	}
	w.apply(ctx, nil, assets)
	return nil
}

// apply merges a poll result into the shared snapshot in arrival order and
// reconciles the selection.
func (w *Watcher) apply(ctx context.Context, jobs []studio.Job, assets []studio.Asset) {
	w.mu.Lock()
	if jobs != nil {
		w.jobs = jobs
	}
	if assets != nil {
		w.assets = assets
	}
	currentJobs := w.jobs
	currentAssets := w.assets
	w.mu.Unlock()

	selection, changed := w.rec.Apply(currentJobs, currentAssets)

	if changed {
		w.logger.Info("selection changed",
			logging.FieldProfileID, w.opts.ProfileID,
			logging.FieldAssetID, selection.AssetID,
			"explicit", selection.Explicit,
		)
		w.persist(ctx, selection)
	}

	if w.opts.OnUpdate != nil {
		w.opts.OnUpdate(Snapshot{
			Jobs:      currentJobs,
			Assets:    currentAssets,
			Selection: selection,
			Changed:   changed,
		})
	}
}

// SelectAsset records an explicit selection and persists it immediately.
func (w *Watcher) SelectAsset(ctx context.Context, assetID string) {
	w.rec.Select(assetID)
	w.persist(ctx, w.rec.Current())
}

func (w *Watcher) persist(ctx context.Context, selection Selection) {
	if w.store == nil || selection.AssetID == "" {
		return
	}
	err := w.store.SaveSelection(ctx, state.Selection{
		ProfileID: w.opts.ProfileID,
		AssetID:   selection.AssetID,
		Explicit:  selection.Explicit,
		LastJobID: selection.LastJobID,
	})
	if err != nil {
		w.logger.Warn("persist selection failed", "error", err)
	}
}
