// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// CatalogPath points at a definitions file. Empty uses the embedded catalog.
	CatalogPath string `env:"SURVIVE_IT_CATALOG"`
	DBPath      string `env:"SURVIVE_IT_DB" envDefault:"survive-it.db"`
	// Seed of 0 means pick one from the clock.
	Seed     int64  `env:"SURVIVE_IT_SEED" envDefault:"0"`
	Steps    int    `env:"SURVIVE_IT_STEPS" envDefault:"40"`
	LogLevel string `env:"SURVIVE_IT_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.Steps < 1 || c.Steps > 10000 {
		return fmt.Errorf("steps must be between 1 and 10000, got %d", c.Steps)
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	return nil
}

func (c Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
