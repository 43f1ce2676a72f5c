package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the wallet CLI.
//
// SessionCheckInterval re-validates the session in the background; zero
// disables it. RequestsPerSecond throttles calls to the backend; zero or
// less disables throttling.
type Config struct {
	BackendURL           string
	StatePath            string
	RequestTimeout       time.Duration
	SessionCheckInterval time.Duration
	PageSize             int
	RequestsPerSecond    float64
	LogLevel             string
	LogFormat            string
}

// DefaultStatePath is the state database location under the user's config
// directory, or under the working directory when that is unknown.
func DefaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "chewallet", "state.db")
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendURL = "http://localhost:8080"
	c.StatePath = DefaultStatePath()
	c.RequestTimeout = 10 * time.Second
	c.SessionCheckInterval = 0
	c.PageSize = 10
	c.RequestsPerSecond = 5
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.BackendURL == "" {
		errs = append(errs, errors.New("backend url is empty"))
	}
	if c.StatePath == "" {
		errs = append(errs, errors.New("state path is empty"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.SessionCheckInterval < 0 {
		errs = append(errs, errors.New("session check interval cannot be negative"))
	}
	if c.PageSize <= 0 {
		errs = append(errs, errors.New("page size must be positive"))
	}
	return errors.Join(errs...)
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, a config file and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
