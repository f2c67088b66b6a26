package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/fruitpie/internal/flagx"
	"github.com/dmitrijs2005/fruitpie/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Values are
// copied into the runtime Config, skipping keys the file leaves out.
type JsonConfig struct {
	ServerBaseURL         string         `json:"server_base_url"`
	DatabasePath          string         `json:"database_path"`
	RequestTimeout        timex.Duration `json:"request_timeout"`
	RegisterRedirectDelay timex.Duration `json:"register_redirect_delay"`
	LogLevel              string         `json:"log_level"`
}

// parseJson overlays cfg with values from the JSON file named by -c/-config.
// Without such a flag it does nothing. Read and decode errors panic; the
// caller decides whether to recover.
func parseJson(cfg *Config) {
	path := flagx.ConfigFile(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.merge(Config{
		ServerBaseURL:         jc.ServerBaseURL,
		DatabasePath:          jc.DatabasePath,
		RequestTimeout:        jc.RequestTimeout.Duration,
		RegisterRedirectDelay: jc.RegisterRedirectDelay.Duration,
		LogLevel:              jc.LogLevel,
	})
}
