// Package config reads process configuration from the environment.
// Command-line flags override these values in the cli package.
package config

import (
	"fmt"
	"slices"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"

	"github.com/roach88/hq/internal/slot"
)

// Config holds the settings shared by every command.
type Config struct {
	// Database is the sqlite database file, or the slot directory for the
	// file backend.
	Database  string `env:"HQ_DB" envDefault:"hq.db"`
	Backend   string `env:"HQ_BACKEND" envDefault:"sqlite"`
	BaseDir   string `env:"HQ_BASE_DIR" envDefault:"data"`
	ExportDir string `env:"HQ_EXPORT_DIR" envDefault:"."`
	Verbose   bool   `env:"HQ_VERBOSE"`
	// Lang is a BCP 47 tag selecting number formatting in text output.
	Lang string `env:"HQ_LANG" envDefault:"en"`
}

// Load parses Config from the environment and validates it.
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

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks values that env tags cannot express.
func (c Config) Validate() error {
	if !slices.Contains(slot.ValidBackends, c.Backend) {
		return fmt.Errorf("invalid backend %q: must be one of %v", c.Backend, slot.ValidBackends)
	}
	if c.Database == "" {
		return fmt.Errorf("database path is empty")
	}
	if c.Lang != "" {
		if _, err := language.Parse(c.Lang); err != nil {
			return fmt.Errorf("invalid language %q: %w", c.Lang, err)
		}
	}
	return nil
}
