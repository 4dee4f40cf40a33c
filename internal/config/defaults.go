package config

// Default returns a Config populated with default values. Defaults target a
// locally running service and keep all state under the user's home.
func Default() Config {
	return Config{
		Service: Service{
			BaseURL:        "http://127.0.0.1:9090/api/v1",
			RequestTimeout: 10,
			RetryAttempts:  3,
			RetryBackoffMS: 500,
		},
		Paths: Paths{
			StateDir: "~/.local/share/reel",
			LogDir:   "~/.local/share/reel/logs",
		},
		Watch: Watch{
			JobPollIntervalMS:   2000,
			AssetPollIntervalMS: 3000,
		},
		Generation: Generation{
			DurationSec: 6,
			FPS:         12,
			Width:       1280,
			Height:      720,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
