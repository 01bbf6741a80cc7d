// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers defaults, an optional YAML file and FOUNDERMATCH_ env vars.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"time"
)

// Data sources accepted by DataSource.
const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
	SourceMemory = "memory"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// DataSource selects the historical dataset backend: csv, sqlite or memory.
	// memory serves a synthetic history generated from MemorySeed.
	DataSource string `koanf:"data_source"`

	// DataDir holds <table>.csv files when DataSource is csv.
	DataDir string `koanf:"data_dir"`

	// SQLitePath is the database file when DataSource is sqlite.
	SQLitePath string `koanf:"sqlite_path"`

	// MemorySeed and MemoryPeople shape the synthetic memory history.
	MemorySeed   uint64 `koanf:"memory_seed"`
	MemoryPeople int    `koanf:"memory_people"`

	// RowLimit bounds every table pull. Zero reads whole tables.
	RowLimit int `koanf:"row_limit"`

	// ProfilesPath is the saved profile document.
	ProfilesPath string `koanf:"profiles_path"`

	// DefaultDegreeWeight and DefaultNeighbors fill query fields left unset.
	DefaultDegreeWeight int `koanf:"default_degree_weight"`
	DefaultNeighbors    int `koanf:"default_neighbors"`

	// Exit thresholds in USD; an exit succeeds when strictly above.
	AcquisitionSuccessThreshold float64 `koanf:"acquisition_success_threshold"`
	IPOSuccessThreshold         float64 `koanf:"ipo_success_threshold"`

	// TopEducationPatterns caps the education patterns in a prediction.
	TopEducationPatterns int `koanf:"top_education_patterns"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:                    "info",
		LogFormat:                   "text",
		Addr:                        ":9080",
		ShutdownTimeout:             10 * time.Second,
		DataSource:                  SourceCSV,
		DataDir:                     "data",
		SQLitePath:                  "data/history.db",
		MemorySeed:                  1,
		MemoryPeople:                500,
		RowLimit:                    5000,
		ProfilesPath:                "profiles.json",
		DefaultDegreeWeight:         50,
		DefaultNeighbors:            5,
		AcquisitionSuccessThreshold: 10_000_000,
		IPOSuccessThreshold:         50_000_000,
		TopEducationPatterns:        3,
	}
}
