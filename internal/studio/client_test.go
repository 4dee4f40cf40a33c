package studio_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"reel/internal/lockcfg"
	"reel/internal/studio"
)

func newClient(t *testing.T, handler http.Handler) (*studio.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := studio.New(studio.Options{
		BaseURL: server.URL,
		Token:   "test-token",
		Retry:   studio.RetryPolicy{Attempts: 2, Backoff: time.Millisecond},
	})
	return client, server
}

func validGenerateRequest() studio.GenerateRequest {
	return studio.GenerateRequest{
		ProfileID:   "p1",
		Prompt:      "a walk on the beach",
		DurationSec: 6,
		FPS:         12,
		Width:       1280,
		Height:      720,
	}
}

func TestGenerateValidatesBeforeNetwork(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	req := validGenerateRequest()
	req.DurationSec = 31
	req.FPS = 2

	_, err := client.Generate(context.Background(), req)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var valErr *studio.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if len(valErr.Problems) != 2 {
		t.Fatalf("problems = %v, want 2 entries", valErr.Problems)
	}
	if calls.Load() != 0 {
		t.Fatalf("invalid request reached the network %d times", calls.Load())
	}
}

func TestGenerateAllowsOmittedOptionalFields(t *testing.T) {
	t.Parallel()

	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		for _, key := range []string{"prompt", "duration_sec", "fps"} {
			if _, ok := body[key]; ok {
				t.Errorf("omitted field %q was sent", key)
			}
		}
		json.NewEncoder(w).Encode(studio.Job{ID: "j-1", Status: studio.StatusWaiting})
	}))

	// Only profile and dimensions; the service applies its own defaults for
	// the rest.
	job, err := client.Generate(context.Background(), studio.GenerateRequest{
		ProfileID: "p1",
		Width:     1280,
		Height:    720,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if job.ID != "j-1" {
		t.Fatalf("job = %+v", job)
	}
}

func TestGenerateSubmitsAndDecodes(t *testing.T) {
	t.Parallel()

	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/videos/generate" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Errorf("Authorization = %q", auth)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("missing X-Request-Id header")
		}

		var req studio.GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Prompt != "a walk on the beach" {
			t.Errorf("prompt = %q", req.Prompt)
		}

		json.NewEncoder(w).Encode(studio.Job{ID: "j-1", ProfileID: req.ProfileID, Status: studio.StatusWaiting})
	}))

	job, err := client.Generate(context.Background(), validGenerateRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if job.ID != "j-1" || job.Status != studio.StatusWaiting {
		t.Fatalf("job = %+v", job)
	}
}

func TestRequestErrorCarriesDetail(t *testing.T) {
	t.Parallel()

	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"detail": "profile has no references"})
	}))

	_, err := client.Generate(context.Background(), validGenerateRequest())
	if err == nil {
		t.Fatal("expected error")
	}
	var reqErr *studio.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %T", err)
	}
	if reqErr.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d", reqErr.StatusCode)
	}
	if reqErr.Detail != "profile has no references" {
		t.Fatalf("detail = %q", reqErr.Detail)
	}
}

func TestGetRetriesOnServerError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(studio.Job{ID: "j-1", Status: studio.StatusRunning})
	}))

	job, err := client.GetJob(context.Background(), "j-1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if job.Status != studio.StatusRunning {
		t.Fatalf("job = %+v", job)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 3", calls.Load())
	}
}

func TestPostIsNeverRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	if _, err := client.Generate(context.Background(), validGenerateRequest()); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "job not found"})
	}))

	_, err := client.GetJob(context.Background(), "missing")
	if !studio.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestCreateProfileRequiresConsent(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	_, err := client.CreateProfile(context.Background(), studio.ProfileCreate{
		Name: "anna",
		Mode: studio.ModeRealIdentity,
	})
	var valErr *studio.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "consent_checked") {
		t.Fatalf("error %q does not mention consent", err)
	}
	if calls.Load() != 0 {
		t.Fatal("consent violation reached the network")
	}
}

func TestAttachReferencesSanitizes(t *testing.T) {
	t.Parallel()

	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/video_profiles/p1/references" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			ImageNames []string `json:"image_names"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		want := []string{"a.png", "b.png"}
		if len(body.ImageNames) != len(want) {
			t.Errorf("image_names = %v, want %v", body.ImageNames, want)
		} else {
			for i := range want {
				if body.ImageNames[i] != want[i] {
					t.Errorf("image_names = %v, want %v", body.ImageNames, want)
					break
				}
			}
		}
		json.NewEncoder(w).Encode(studio.Profile{ID: "p1", References: body.ImageNames})
	}))

	profile, err := client.AttachReferences(context.Background(), "p1", []string{"gallery/a.png", "b.png", "a.png"})
	if err != nil {
		t.Fatalf("AttachReferences: %v", err)
	}
	if len(profile.References) != 2 {
		t.Fatalf("profile references = %v", profile.References)
	}
}

func TestUpdateLockGoesThroughProfileUpdate(t *testing.T) {
	t.Parallel()

	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/video_profiles/p1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if _, ok := body["generation_lock"]; !ok {
			t.Errorf("body keys = %v, want generation_lock", body)
		}
		if _, ok := body["name"]; ok {
			t.Error("unchanged name must not be sent")
		}
		json.NewEncoder(w).Encode(studio.Profile{ID: "p1"})
	}))

	if _, err := client.UpdateLock(context.Background(), "p1", lockcfg.StrictCharacterPreset()); err != nil {
		t.Fatalf("UpdateLock: %v", err)
	}
}

func TestCancelJobIssuesDelete(t *testing.T) {
	t.Parallel()

	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/videos/jobs/j-1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := client.CancelJob(context.Background(), "j-1"); err != nil {
		t.Fatalf("CancelJob: %v", err)
	}
}

func TestListAssetsFiltersByProfile(t *testing.T) {
	t.Parallel()

	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/videos" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode([]studio.Asset{
			{ID: "v-1", ProfileID: "p1", Filename: "v-1.mp4"},
			{ID: "v-2", ProfileID: "p2", Filename: "v-2.mp4"},
		})
	}))

	assets, err := client.ListAssets(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(assets) != 1 || assets[0].ID != "v-1" {
		t.Fatalf("assets = %+v", assets)
	}
}

func TestAssetFileURL(t *testing.T) {
	t.Parallel()

	client := studio.New(studio.Options{BaseURL: "http://example.test/api/v1/"})
	got := client.AssetFileURL("v 1")
	if got != "http://example.test/api/v1/videos/v%201/file" {
		t.Fatalf("AssetFileURL = %q", got)
	}
}

func TestJobStatusPolicies(t *testing.T) {
	t.Parallel()

	terminal := []studio.JobStatus{studio.StatusCompleted, studio.StatusError, studio.StatusCancelled}
	for _, status := range terminal {
		if !status.Terminal() {
			t.Errorf("%s should be terminal", status)
		}
		if status.CanCancel() {
			t.Errorf("%s should not be cancellable", status)
		}
	}
	active := []studio.JobStatus{studio.StatusWaiting, studio.StatusRunning, studio.StatusEncoding}
	for _, status := range active {
		if status.Terminal() {
			t.Errorf("%s should not be terminal", status)
		}
		if !status.CanCancel() {
			t.Errorf("%s should be cancellable", status)
		}
	}
}
