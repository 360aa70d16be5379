package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultAPIURL is the hosted forecast service endpoint.
const DefaultAPIURL = "https://forecast.aqtrack.dev"

// DefaultTimeout bounds each remote round trip.
const DefaultTimeout = 60 * time.Second

// Config carries everything the remote client needs. It is loaded
// once and threaded explicitly into constructors; nothing reads the
// environment at call time.
type Config struct {
	APIURL   string
	APIToken string
	Timeout  time.Duration
}

type tomlConfig struct {
	APIURL         string `toml:"api_url"`
	APIToken       string `toml:"api_token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Load reads config from ~/.config/aqtrack/config.toml, then applies
// AQTRACK_API_URL / AQTRACK_API_TOKEN environment overrides.
func Load() (*Config, error) {
	cfg := &Config{
		APIURL:  DefaultAPIURL,
		Timeout: DefaultTimeout,
	}

	home, err := os.UserHomeDir()
	if err == nil {
		tomlPath := filepath.Join(home, ".config", "aqtrack", "config.toml")
		if _, err := os.Stat(tomlPath); err == nil {
			var tc tomlConfig
			if _, err := toml.DecodeFile(tomlPath, &tc); err == nil {
				if tc.APIURL != "" {
					cfg.APIURL = tc.APIURL
				}
				if tc.APIToken != "" {
					cfg.APIToken = tc.APIToken
				}
				if tc.TimeoutSeconds > 0 {
					cfg.Timeout = time.Duration(tc.TimeoutSeconds) * time.Second
				}
			}
		}
	}

	if v := os.Getenv("AQTRACK_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("AQTRACK_API_TOKEN"); v != "" {
		cfg.APIToken = v
	}

	return cfg, nil
}
