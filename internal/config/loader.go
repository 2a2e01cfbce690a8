package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names.
const (
	EnvPrefix     = "PARTIDOS_"
	EnvConfigFile = "PARTIDOS_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if PARTIDOS_CONFIG is set
//  3. env (prefix PARTIDOS_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// PARTIDOS_CSV_PATH -> csv_path. Underscores are kept to match the koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields every binary relies on.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DashboardAddr == "":
		return fmt.Errorf("%w: dashboard_addr must not be empty", ErrInvalidConfig)
	case c.CSVPath == "":
		return fmt.Errorf("%w: csv_path must not be empty", ErrInvalidConfig)
	case c.MatchLimit < 1:
		return fmt.Errorf("%w: match_limit must be positive", ErrInvalidConfig)
	case c.ShotsMax <= c.ShotsMin:
		return fmt.Errorf("%w: shots_max must be greater than shots_min", ErrInvalidConfig)
	case c.TopTeams < 1:
		return fmt.Errorf("%w: top_teams must be positive", ErrInvalidConfig)
	}
	return nil
}
