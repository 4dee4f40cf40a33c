package config

import (
	"fmt"
	"net/url"
	"strings"
)

var validLogFormats = map[string]bool{
	"console": true,
	"json":    true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the configuration is internally consistent. It is
// called by Load after normalization; commands that build configs by hand
// should call it themselves.
func (c *Config) Validate() error {
	var problems []string

	if c.Service.BaseURL == "" {
		problems = append(problems, "service.base_url must be set")
	} else if parsed, err := url.Parse(c.Service.BaseURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		problems = append(problems, fmt.Sprintf("service.base_url %q is not an absolute URL", c.Service.BaseURL))
	}
	if c.Service.RequestTimeout <= 0 {
		problems = append(problems, "service.request_timeout must be positive")
	}
	if c.Service.RetryAttempts < 0 {
		problems = append(problems, "service.retry_attempts must not be negative")
	}
	if c.Service.RetryBackoffMS < 0 {
		problems = append(problems, "service.retry_backoff_ms must not be negative")
	}

	if c.Paths.StateDir == "" {
		problems = append(problems, "paths.state_dir must be set")
	}
	if c.Paths.LogDir == "" {
		problems = append(problems, "paths.log_dir must be set")
	}

	if c.Watch.JobPollIntervalMS <= 0 {
		problems = append(problems, "watch.job_poll_interval_ms must be positive")
	}
	if c.Watch.AssetPollIntervalMS <= 0 {
		problems = append(problems, "watch.asset_poll_interval_ms must be positive")
	}

	if c.Generation.DurationSec < 1 || c.Generation.DurationSec > 30 {
		problems = append(problems, "generation.duration_sec must be between 1 and 30")
	}
	if c.Generation.FPS < 4 || c.Generation.FPS > 60 {
		problems = append(problems, "generation.fps must be between 4 and 60")
	}
	if c.Generation.Width < 256 || c.Generation.Width > 1920 {
		problems = append(problems, "generation.width must be between 256 and 1920")
	}
	if c.Generation.Height < 256 || c.Generation.Height > 1920 {
		problems = append(problems, "generation.height must be between 256 and 1920")
	}

	if !validLogFormats[c.Logging.Format] {
		problems = append(problems, fmt.Sprintf("logging.format %q must be console or json", c.Logging.Format))
	}
	if !validLogLevels[c.Logging.Level] {
		problems = append(problems, fmt.Sprintf("logging.level %q must be debug, info, warn, or error", c.Logging.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
