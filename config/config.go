// Package config loads engine-wide defaults from the environment,
// optionally sourced from a .env file, the way the teacher's akita/akitav5
// generations use godotenv to load local dev settings for their monitoring
// tooling.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds engine settings read from the environment. The "serve"
// subcommand loads it; no code in this module acts on its fields beyond
// that load, so setting them changes nothing at run time.
type Config struct {
	// MonitorAddr holds DESIM_MONITOR_ADDR, a bind address for the HTTP
	// monitor. The monitor binds from its --port flag, not from this value.
	MonitorAddr string
	// TracePath holds DESIM_TRACE_PATH, a SQLite database path. The trace
	// subcommand takes its path from --db, not from this value.
	TracePath string
	// DistributedIDs holds DESIM_DISTRIBUTED_IDS parsed as a bool. It does
	// not switch the ID generator by itself.
	DistributedIDs bool
}

// Load reads configuration from the process environment. If path is
// non-empty it is first merged in via godotenv.Overload, and a missing or
// unreadable file at that path is returned as an error. If path is empty,
// a .env file in the working directory is loaded via godotenv.Load when
// present, and its absence is ignored.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Overload(path); err != nil {
			return nil, err
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &Config{
		MonitorAddr: os.Getenv("DESIM_MONITOR_ADDR"),
		TracePath:   os.Getenv("DESIM_TRACE_PATH"),
	}

	if v := os.Getenv("DESIM_DISTRIBUTED_IDS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, err
		}
		cfg.DistributedIDs = b
	}

	return cfg, nil
}
