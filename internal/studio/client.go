// Package studio implements the HTTP client for the video generation
// service. All endpoints are JSON; error bodies carry a "detail" field that
// is surfaced through RequestError.
package studio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"reel/internal/logging"
)

// Doer abstracts http.Client.Do for testing.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// RetryPolicy controls retries for idempotent requests. Only GETs are ever
// retried: submit and cancel must not be replayed on an ambiguous failure.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// Options describes client construction parameters.
type Options struct {
	BaseURL    string
	Token      string
	HTTPClient Doer
	Retry      RetryPolicy
	Logger     *slog.Logger
}

// Client talks to the video generation service.
type Client struct {
	baseURL string
	token   string
	client  Doer
	retry   RetryPolicy
	logger  *slog.Logger
}

// New constructs a service client.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		client:  httpClient,
		retry:   opts.Retry,
		logger:  logging.WithComponent(logger, "studio"),
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		payload = data
	}

	attempts := 1
	if method == http.MethodGet && c.retry.Attempts > 0 {
		attempts = c.retry.Attempts + 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := sleepBackoff(ctx, c.retry.Backoff, attempt); err != nil {
				return err
			}
			c.logger.Debug("retrying request", "method", method, "path", path, "attempt", attempt)
		}

		err := c.doOnce(ctx, method, path, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable(err) {
			return err
		}
	}
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, method, path string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("studio request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return newRequestError(method, path, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func newRequestError(method, path string, resp *http.Response) *RequestError {
	reqErr := &RequestError{Method: method, Path: path, StatusCode: resp.StatusCode}

	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var errBody struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(bodyBytes, &errBody); err == nil && errBody.Detail != "" {
		reqErr.Detail = errBody.Detail
	} else if trimmed := strings.TrimSpace(string(bodyBytes)); trimmed != "" {
		reqErr.Detail = trimmed
	}
	return reqErr
}

// retryable reports whether a failed attempt may be repeated. Transport
// errors and 5xx responses qualify; 4xx responses are final.
func retryable(err error) bool {
	if reqErr, ok := err.(*RequestError); ok {
		return reqErr.StatusCode >= 500
	}
	return strings.Contains(err.Error(), "studio request failed")
}

func sleepBackoff(ctx context.Context, base time.Duration, attempt int) error {
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	delay := base << (attempt - 1)
	if jitter := int64(base / 2); jitter > 0 {
		delay += time.Duration(rand.Int63n(jitter))
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
