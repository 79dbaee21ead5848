package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Retrieval configuration
	Timeout   int    `long:"timeout" env:"TIMEOUT" default:"30" description:"HTTP timeout in seconds"`
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"feedsieve/1.0" description:"User agent string for HTTP requests"`
	Workers   int    `long:"workers" env:"WORKERS" default:"4" description:"Number of concurrent retrieval workers"`

	// Cache configuration
	CachePath string `long:"cache" env:"CACHE_PATH" default:"feedsieve.db" description:"Path to the conditional-GET cache database"`

	// Input configuration
	SubscriptionsFile string `long:"subscriptions" env:"SUBSCRIPTIONS_FILE" description:"YAML file listing feed subscriptions"`

	// Output configuration
	JSON  bool `long:"json" env:"JSON" description:"Print full results as JSON"`
	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses configuration from environment variables and command-line
// flags. It returns the remaining positional arguments (feed sources).
// A nil Cfg with nil error means help was shown.
func Load() (*Cfg, []string, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	args, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil, nil
			}
		}
		return nil, nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Timeout:           raw.Timeout,
		UserAgent:         raw.UserAgent,
		Workers:           raw.Workers,
		CachePath:         raw.CachePath,
		SubscriptionsFile: raw.SubscriptionsFile,
		JSON:              raw.JSON,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	return cfg, args, nil
}
