package config

import (
	"errors"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// EnvFile is loaded into the environment, if present, before WALLET_*
// variables are read. Variables already set are not overridden.
var EnvFile = ".env"

type envConfig struct {
	BackendURL           string        `env:"WALLET_BACKEND_URL"`
	StatePath            string        `env:"WALLET_STATE_PATH"`
	RequestTimeout       time.Duration `env:"WALLET_REQUEST_TIMEOUT"`
	SessionCheckInterval time.Duration `env:"WALLET_SESSION_CHECK_INTERVAL"`
	PageSize             int           `env:"WALLET_PAGE_SIZE"`
	RequestsPerSecond    float64       `env:"WALLET_REQUESTS_PER_SECOND"`
	LogLevel             string        `env:"WALLET_LOG_LEVEL"`
	LogFormat            string        `env:"WALLET_LOG_FORMAT"`
}

// parseEnv overlays Config with WALLET_* environment variables. Unset
// variables leave the current value alone. A malformed value panics, like
// the other loaders.
func parseEnv(cfg *Config) {
	_ = godotenv.Load(EnvFile)

	ec := envConfig{
		BackendURL:           cfg.BackendURL,
		StatePath:            cfg.StatePath,
		RequestTimeout:       cfg.RequestTimeout,
		SessionCheckInterval: cfg.SessionCheckInterval,
		PageSize:             cfg.PageSize,
		RequestsPerSecond:    cfg.RequestsPerSecond,
		LogLevel:             cfg.LogLevel,
		LogFormat:            cfg.LogFormat,
	}

	if err := envdecode.Decode(&ec); err != nil {
		if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return
		}
		panic(err)
	}

	*cfg = Config(ec)
}
