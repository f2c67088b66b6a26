// Package config loads runtime configuration for the FruitPie client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. FRUITPIE_* environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the job-board API
//	-d string   path of the SQLite session database
//	-t int      request timeout (seconds)
//	-r int      register-to-login redirect delay (seconds)
//	-l string   log level (debug, info, warn, error)
//
// Environment variables
//
//	FRUITPIE_SERVER_BASE_URL
//	FRUITPIE_DATABASE_PATH
//	FRUITPIE_REQUEST_TIMEOUT           Go duration, e.g. "10s"
//	FRUITPIE_REGISTER_REDIRECT_DELAY   Go duration
//	FRUITPIE_LOG_LEVEL
//
// # JSON schema
//
// Durations use timex.Duration, so they may be strings like "10s" or integer
// nanoseconds. Absent keys keep their default:
//
//	{
//	  "server_base_url": "http://127.0.0.1:8000",
//	  "database_path": "fruitpie.db",
//	  "request_timeout": "10s",
//	  "register_redirect_delay": "2s",
//	  "log_level": "info"
//	}
package config
