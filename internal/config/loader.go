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

	views "github.com/hearlab/audex/internal/domain/views"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if AUDEX_CONFIG is set
//  3. env (prefix AUDEX_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("AUDEX_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: AUDEX_ADDR, AUDEX_DATASET_PATH, ...
	// Map env keys like AUDEX_DATASET_PATH -> dataset_path (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("AUDEX_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "audex_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.DatasetPath == "" {
		return nil, fmt.Errorf("%w: dataset_path must not be empty", ErrInvalidConfig)
	}
	if _, err := views.ParseRadarScale(cfg.RadarScale); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if cfg.MaxTableRows < 0 || cfg.RefreshIntervalSec < 0 {
		return nil, fmt.Errorf("%w: negative limits", ErrInvalidConfig)
	}
	return &cfg, nil
}
