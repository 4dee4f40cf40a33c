// Package orchestrator coordinates generation jobs against the service:
// submission preconditions, cancellation policy, and the reconciliation of
// job completions with the user's asset selection.
package orchestrator

import (
	"context"
	"fmt"

	"reel/internal/studio"
)

// API is the service surface the orchestrator depends on.
type API interface {
	GetProfile(ctx context.Context, id string) (*studio.Profile, error)
	Generate(ctx context.Context, req studio.GenerateRequest) (*studio.Job, error)
	GetJob(ctx context.Context, id string) (*studio.Job, error)
	ListJobs(ctx context.Context, profileID string) ([]studio.Job, error)
	CancelJob(ctx context.Context, id string) error
	ListAssets(ctx context.Context, profileID string) ([]studio.Asset, error)
}

// PreconditionError reports an operation refused before reaching the
// service because a local invariant does not hold.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "precondition failed: " + e.Reason
}

// Submitter gates job submission and cancellation.
type Submitter struct {
	api API
}

// NewSubmitter constructs a submitter over the given service API.
func NewSubmitter(api API) *Submitter {
	return &Submitter{api: api}
}

// Submit verifies the profile exists and, for real-person profiles, that
// consent has been confirmed, then submits the job. The service enforces the
// same consent rule; checking here gives a clear error without a round trip
// wasted on a doomed request.
func (s *Submitter) Submit(ctx context.Context, profileID string, req studio.GenerateRequest) (*studio.Job, error) {
	profile, err := s.api.GetProfile(ctx, profileID)
	if err != nil {
		if studio.IsNotFound(err) {
			return nil, &PreconditionError{Reason: fmt.Sprintf("profile %q does not exist", profileID)}
		}
		return nil, err
	}
	if profile == nil {
		return nil, &PreconditionError{Reason: fmt.Sprintf("profile %q does not exist", profileID)}
	}
	if profile.RequiresConsent() && !profile.ConsentChecked {
		return nil, &PreconditionError{Reason: fmt.Sprintf("profile %q depicts a real person and has no consent confirmation", profileID)}
	}

	req.ProfileID = profile.ID
	return s.api.Generate(ctx, req)
}

// Cancel requests cancellation of a job that is still cancellable. A job
// already in a terminal state is refused locally. The request is
// fire-and-forget; the cancelled state shows up in the next poll.
func (s *Submitter) Cancel(ctx context.Context, jobID string) error {
	job, err := s.api.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if !job.Status.CanCancel() {
		return &PreconditionError{Reason: fmt.Sprintf("job %q is already %s", jobID, job.Status)}
	}
	return s.api.CancelJob(ctx, jobID)
}
