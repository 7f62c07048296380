package config

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional YAML file, and
// environment variables. Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SENTINEL_CONFIG is set
//  3. env (prefix SENTINEL_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("SENTINEL_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: SENTINEL_ADDR, SENTINEL_WINDOW_HOURS, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("SENTINEL_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "sentinel_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.WindowHours <= 0 {
		return nil, errors.New("window_hours must be positive")
	}
	if cfg.StepMinutes <= 0 {
		return nil, errors.New("step_minutes must be positive")
	}
	return &cfg, nil
}
