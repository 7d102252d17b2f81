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

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if GATEKEEPER_CONFIG is set
//  3. env (prefix GATEKEEPER_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("GATEKEEPER_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: GATEKEEPER_BAN_URL, GATEKEEPER_POLL_INTERVAL_SECONDS, ...
	// Map env keys like GATEKEEPER_BAN_URL -> ban_url (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("GATEKEEPER_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "gatekeeper_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.SteamAPIKey == "" {
		return fmt.Errorf("%w: steam_api_key must not be empty", ErrInvalidConfig)
	}
	if cfg.BanURL == "" {
		return fmt.Errorf("%w: ban_url must not be empty", ErrInvalidConfig)
	}
	if cfg.PollIntervalSeconds <= 0 {
		return fmt.Errorf("%w: poll_interval_seconds must be positive", ErrInvalidConfig)
	}
	if cfg.BanLimit <= 0 {
		return fmt.Errorf("%w: ban_limit must be positive", ErrInvalidConfig)
	}
	if cfg.BanWindowMinutes <= 0 {
		return fmt.Errorf("%w: ban_window_minutes must be positive", ErrInvalidConfig)
	}
	if cfg.RetryAttempts <= 0 {
		return fmt.Errorf("%w: retry_attempts must be positive", ErrInvalidConfig)
	}
	return nil
}
