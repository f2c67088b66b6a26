package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/fruitpie/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-a string   base URL of the job-board API
//	-d string   path of the SQLite session database
//	-t int      request timeout in seconds
//	-r int      register-to-login redirect delay in seconds
//	-l string   log level
//
// Only these flags are looked at (see flagx.FilterArgs), so -c/-config and
// anything else on the command line is left alone. Parse errors panic.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], "-a", "-d", "-t", "-r", "-l")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the job-board API")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the session database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	delay := fs.Int("r", int(cfg.RegisterRedirectDelay.Seconds()), "register redirect delay (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only explicit flags override, so sub-second values from JSON survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		case "r":
			cfg.RegisterRedirectDelay = time.Duration(*delay) * time.Second
		}
	})
}
