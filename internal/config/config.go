// Package config loads hearthsim settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config controls a hearthsim run. Command-line flags override these.
type Config struct {
	Tick      time.Duration `env:"HEARTH_TICK"       envDefault:"100ms"`
	Duration  time.Duration `env:"HEARTH_DURATION"   envDefault:"10s"`
	SaveDB    string        `env:"HEARTH_SAVE_DB"`
	Slot      string        `env:"HEARTH_SLOT"       envDefault:"autosave"`
	Entities  int           `env:"HEARTH_ENTITIES"   envDefault:"50"`
	Seed      int64         `env:"HEARTH_SEED"       envDefault:"1"`
	LogPrefix string        `env:"HEARTH_LOG_PREFIX" envDefault:"hearth: "`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the environment configuration with defaults applied.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the simulation cannot run with.
func (c Config) Validate() error {
	if c.Tick <= 0 {
		return fmt.Errorf("tick must be positive, got %s", c.Tick)
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %s", c.Duration)
	}
	if c.Entities < 0 {
		return fmt.Errorf("entities must not be negative, got %d", c.Entities)
	}
	if c.Slot == "" {
		return fmt.Errorf("slot name is required")
	}
	return nil
}
