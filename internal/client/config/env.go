package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// EnvConfig is a DTO filled from FRUITPIE_* environment variables. Unset
// variables leave earlier values in place.
type EnvConfig struct {
	ServerBaseURL         string        `env:"FRUITPIE_SERVER_BASE_URL"`
	DatabasePath          string        `env:"FRUITPIE_DATABASE_PATH"`
	RequestTimeout        time.Duration `env:"FRUITPIE_REQUEST_TIMEOUT"`
	RegisterRedirectDelay time.Duration `env:"FRUITPIE_REGISTER_REDIRECT_DELAY"`
	LogLevel              string        `env:"FRUITPIE_LOG_LEVEL"`
}

// parseEnv overlays cfg with environment values. Malformed values panic.
func parseEnv(cfg *Config) {
	var ec EnvConfig
	if err := envconfig.Process(context.Background(), &ec); err != nil {
		panic(fmt.Sprintf("config: failed to load environment: %v", err))
	}

	cfg.merge(Config{
		ServerBaseURL:         ec.ServerBaseURL,
		DatabasePath:          ec.DatabasePath,
		RequestTimeout:        ec.RequestTimeout,
		RegisterRedirectDelay: ec.RegisterRedirectDelay,
		LogLevel:              ec.LogLevel,
	})
}
