package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "FOUNDERMATCH_"
	envConfig  = envPrefix + "CONFIG"
	koanfDelim = "."
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if FOUNDERMATCH_CONFIG is set
//  3. env (prefix FOUNDERMATCH_)
func Load(ctx context.Context) (*Config, error) {
	k := koanf.New(koanfDelim)

	if err := k.Load(structs.Provider(New(ctx), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("%w: defaults: %w", ErrLoadConfig, err)
	}

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: file %s: %w", ErrLoadConfig, path, err)
		}
	}

	// FOUNDERMATCH_ROW_LIMIT -> row_limit. Keys are flat, so underscores stay.
	envProvider := env.Provider(envPrefix, koanfDelim, func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	switch c.DataSource {
	case SourceCSV:
		if c.DataDir == "" {
			return fmt.Errorf("%w: data_dir must not be empty for csv source", ErrInvalidConfig)
		}
	case SourceSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: sqlite_path must not be empty for sqlite source", ErrInvalidConfig)
		}
	case SourceMemory:
		if c.MemoryPeople < 1 {
			return fmt.Errorf("%w: memory_people must be positive for memory source", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: data_source %q", ErrInvalidConfig, c.DataSource)
	}
	if c.ProfilesPath == "" {
		return fmt.Errorf("%w: profiles_path must not be empty", ErrInvalidConfig)
	}
	if c.RowLimit < 0 {
		return fmt.Errorf("%w: row_limit must not be negative", ErrInvalidConfig)
	}
	if c.DefaultDegreeWeight < 0 || c.DefaultDegreeWeight > 100 {
		return fmt.Errorf("%w: default_degree_weight must be within 0..100", ErrInvalidConfig)
	}
	if c.DefaultNeighbors < 1 {
		return fmt.Errorf("%w: default_neighbors must be positive", ErrInvalidConfig)
	}
	if c.AcquisitionSuccessThreshold < 0 || c.IPOSuccessThreshold < 0 {
		return fmt.Errorf("%w: success thresholds must not be negative", ErrInvalidConfig)
	}
	if c.TopEducationPatterns < 1 {
		return fmt.Errorf("%w: top_education_patterns must be positive", ErrInvalidConfig)
	}
	return nil
}
