package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/chewallet/internal/flagx"
	"github.com/dmitrijs2005/chewallet/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the config file, in JSON or YAML.
// Durations use timex.Duration, so "10s" and integer nanoseconds are both
// accepted.
type FileConfig struct {
	BackendURL           string         `json:"backend_url" yaml:"backend_url"`
	StatePath            string         `json:"state_path" yaml:"state_path"`
	RequestTimeout       timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	SessionCheckInterval timex.Duration `json:"session_check_interval" yaml:"session_check_interval"`
	PageSize             int            `json:"page_size" yaml:"page_size"`
	RequestsPerSecond    float64        `json:"requests_per_second" yaml:"requests_per_second"`
	LogLevel             string         `json:"log_level" yaml:"log_level"`
	LogFormat            string         `json:"log_format" yaml:"log_format"`
}

// parseFile overlays Config with the file named by -c/-config or
// $WALLET_CONFIG. Files ending in .yaml or .yml are read as YAML, anything
// else as JSON. Fields missing from the file keep their current value.
// Read and decode errors panic.
func parseFile(cfg *Config) {
	path := flagx.ConfigPath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc FileConfig) apply(cfg *Config) {
	if fc.BackendURL != "" {
		cfg.BackendURL = fc.BackendURL
	}
	if fc.StatePath != "" {
		cfg.StatePath = fc.StatePath
	}
	if fc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.SessionCheckInterval.Duration != 0 {
		cfg.SessionCheckInterval = fc.SessionCheckInterval.Duration
	}
	if fc.PageSize != 0 {
		cfg.PageSize = fc.PageSize
	}
	if fc.RequestsPerSecond != 0 {
		cfg.RequestsPerSecond = fc.RequestsPerSecond
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		cfg.LogFormat = fc.LogFormat
	}
}
