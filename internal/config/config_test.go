package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reel/internal/config"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Watch.JobPollIntervalMS != 2000 {
		t.Fatalf("job poll interval = %d, want 2000", cfg.Watch.JobPollIntervalMS)
	}
	if cfg.Watch.AssetPollIntervalMS != 3000 {
		t.Fatalf("asset poll interval = %d, want 3000", cfg.Watch.AssetPollIntervalMS)
	}
}

func TestLoadOverridesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[service]
base_url = "http://example.test/api/v1/"

[paths]
state_dir = "` + dir + `/state"
log_dir = "` + dir + `/logs"

[generation]
fps = 24
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Service.BaseURL != "http://example.test/api/v1" {
		t.Fatalf("base URL not trimmed: %q", cfg.Service.BaseURL)
	}
	if cfg.Generation.FPS != 24 {
		t.Fatalf("fps = %d, want 24", cfg.Generation.FPS)
	}
	if cfg.Generation.Width != 1280 {
		t.Fatalf("width default lost: %d", cfg.Generation.Width)
	}
}

func TestTokenEnvOverride(t *testing.T) {
	t.Setenv("REEL_SERVICE_TOKEN", "env-token")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[service]\ntoken = \"file-token\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Service.Token != "env-token" {
		t.Fatalf("token = %q, want env override", cfg.Service.Token)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"empty base url", func(c *config.Config) { c.Service.BaseURL = "" }, "service.base_url"},
		{"relative base url", func(c *config.Config) { c.Service.BaseURL = "example/api" }, "absolute URL"},
		{"zero timeout", func(c *config.Config) { c.Service.RequestTimeout = 0 }, "request_timeout"},
		{"zero job poll", func(c *config.Config) { c.Watch.JobPollIntervalMS = 0 }, "job_poll_interval_ms"},
		{"duration too long", func(c *config.Config) { c.Generation.DurationSec = 31 }, "duration_sec"},
		{"fps too low", func(c *config.Config) { c.Generation.FPS = 3 }, "fps"},
		{"width too small", func(c *config.Config) { c.Generation.Width = 100 }, "width"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "yaml" }, "logging.format"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestCreateSampleParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config must validate: %v", err)
	}
}
