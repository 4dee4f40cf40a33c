package orchestrator

import (
	"sync"

	"reel/internal/studio"
)

// Selection is the reconciler's current choice.
type Selection struct {
	AssetID  string
	Explicit bool
	// LastJobID is the most recent completed job whose output was adopted.
	// Persisting it keeps a restart from re-adopting an old completion over
	// a later explicit choice.
	LastJobID string
}

// Reconciler decides which asset is selected for a profile. Three inputs
// compete: a freshly completed job's output, the user's explicit choice, and
// the default-first rule. A completed job's output wins exactly once, when
// the completion is first observed; after that an explicit choice sticks
// until the next new completion.
type Reconciler struct {
	mu           sync.Mutex
	selected     string
	explicit     bool
	lastJobID    string
	consumedJobs map[string]struct{}
}

// NewReconciler builds a reconciler, optionally seeded from a persisted
// selection.
func NewReconciler(seed *Selection) *Reconciler {
	r := &Reconciler{consumedJobs: make(map[string]struct{})}
	if seed != nil {
		r.selected = seed.AssetID
		r.explicit = seed.Explicit
		r.lastJobID = seed.LastJobID
		if seed.LastJobID != "" {
			r.consumedJobs[seed.LastJobID] = struct{}{}
		}
	}
	return r
}

// Select records an explicit user choice. It wins over everything except a
// completion that arrives afterwards.
func (r *Reconciler) Select(assetID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = assetID
	r.explicit = true
}

// Current returns the present selection.
func (r *Reconciler) Current() Selection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Selection{AssetID: r.selected, Explicit: r.explicit, LastJobID: r.lastJobID}
}

// Apply reconciles the latest job and asset snapshots. Jobs are expected
// newest first. Returns the resulting selection and whether it changed.
func (r *Reconciler) Apply(jobs []studio.Job, assets []studio.Asset) (Selection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.selected
	previousExplicit := r.explicit

	available := make(map[string]struct{}, len(assets))
	for _, asset := range assets {
		available[asset.ID] = struct{}{}
	}

	// Adopt the newest unconsumed completion whose output is visible. Every
	// observed completion is marked consumed so it can never win again.
	adopted := false
	for _, job := range jobs {
		if job.Status != studio.StatusCompleted || job.OutputVideoID == "" {
			continue
		}
		if _, seen := r.consumedJobs[job.ID]; seen {
			continue
		}
		if _, ok := available[job.OutputVideoID]; !ok {
			// Output not listed yet; leave the job unconsumed so the next
			// asset poll can adopt it.
			continue
		}
		r.consumedJobs[job.ID] = struct{}{}
		if !adopted {
			r.selected = job.OutputVideoID
			r.explicit = false
			r.lastJobID = job.ID
			adopted = true
		}
	}

	if !adopted {
		if _, ok := available[r.selected]; !ok {
			// Selection vanished (asset deleted, or nothing chosen yet).
			r.selected = ""
			r.explicit = false
			if len(assets) > 0 {
				r.selected = assets[0].ID
			}
		}
	}

	changed := r.selected != previous || r.explicit != previousExplicit
	return Selection{AssetID: r.selected, Explicit: r.explicit, LastJobID: r.lastJobID}, changed
}
