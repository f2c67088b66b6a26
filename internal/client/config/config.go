package config

import "time"

// Config holds runtime settings for the FruitPie client.
//
// Fields:
//   - ServerBaseURL: base URL of the job-board API (serves /token, /users/*).
//   - DatabasePath: SQLite file holding the persisted session token.
//   - RequestTimeout: upper bound for a single API request.
//   - RegisterRedirectDelay: pause between a successful registration and
//     the switch from the register dialog to the login dialog.
//   - LogLevel: one of debug, info, warn, error.
type Config struct {
	ServerBaseURL         string
	DatabasePath          string
	RequestTimeout        time.Duration
	RegisterRedirectDelay time.Duration
	LogLevel              string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8000"
	c.DatabasePath = "fruitpie.db"
	c.RequestTimeout = 10 * time.Second
	c.RegisterRedirectDelay = 2 * time.Second
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), FRUITPIE_* environment variables and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// merge copies the non-zero fields of src over c.
func (c *Config) merge(src Config) {
	if src.ServerBaseURL != "" {
		c.ServerBaseURL = src.ServerBaseURL
	}
	if src.DatabasePath != "" {
		c.DatabasePath = src.DatabasePath
	}
	if src.RequestTimeout != 0 {
		c.RequestTimeout = src.RequestTimeout
	}
	if src.RegisterRedirectDelay != 0 {
		c.RegisterRedirectDelay = src.RegisterRedirectDelay
	}
	if src.LogLevel != "" {
		c.LogLevel = src.LogLevel
	}
}
