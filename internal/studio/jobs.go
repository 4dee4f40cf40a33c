package studio

import (
	"context"
	"net/http"
	"net/url"
)

// Generate submits a generation job. The request is validated locally first
// so malformed parameters never reach the service.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*Job, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var job Job
	if err := c.doJSON(ctx, http.MethodPost, "/videos/generate", req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJob fetches the current state of a job.
func (c *Client) GetJob(ctx context.Context, id string) (*Job, error) {
	var job Job
	if err := c.doJSON(ctx, http.MethodGet, "/videos/jobs/"+url.PathEscape(id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// ListJobs returns jobs, newest first. The service lists jobs across all
// profiles; a non-empty profileID filters the result locally.
func (c *Client) ListJobs(ctx context.Context, profileID string) ([]Job, error) {
	var jobs []Job
	if err := c.doJSON(ctx, http.MethodGet, "/videos/jobs", nil, &jobs); err != nil {
		return nil, err
	}
	if profileID == "" {
		return jobs, nil
	}

	filtered := jobs[:0]
	for _, job := range jobs {
		if job.ProfileID == profileID {
			filtered = append(filtered, job)
		}
	}
	return filtered, nil
}

// CancelJob requests cancellation of a job. The service answers 204 with no
// body; the job's eventual cancelled state is observed through polling.
func (c *Client) CancelJob(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/videos/jobs/"+url.PathEscape(id), nil, nil)
}
