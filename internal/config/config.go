package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Config holds the console settings. Values come from defaults, then
// the JSON config file, then environment variables; command-line flags
// override on top of that.
type Config struct {
	APIURL          string `json:"api_url"`
	RequestTimeout  int    `json:"request_timeout_seconds"`
	RefreshInterval int    `json:"refresh_interval_seconds"`
	ListenAddr      string `json:"listen_addr"`
	Debug           bool   `json:"debug"`
}

// Load reads the configuration. An empty configPath falls back to
// WEAVE_CONSOLE_CONFIG and then to ~/.weave/console.json. A missing
// file is not an error; a malformed one is.
func Load(configPath string) (*Config, error) {
	cfg := &Config{
		APIURL:          "http://localhost:5000",
		RequestTimeout:  30,
		RefreshInterval: 5,
		ListenAddr:      ":8080",
	}

	if configPath == "" {
		configPath = os.Getenv("WEAVE_CONSOLE_CONFIG")
		if configPath == "" {
			if home, err := os.UserHomeDir(); err == nil {
				configPath = filepath.Join(home, ".weave", "console.json")
			} else {
				configPath = "weave-console.json"
			}
		}
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if url := os.Getenv("WEAVE_API_URL"); url != "" {
		cfg.APIURL = url
	}

	return cfg, nil
}

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// Refresh returns the console auto-refresh interval as a duration.
func (c *Config) Refresh() time.Duration {
	if c.RefreshInterval <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.RefreshInterval) * time.Second
}
