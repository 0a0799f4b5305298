// Package config provides YAML-based configuration for the residence
// tracker binaries, with environment variable expansion and validation.
package config

import (
	"fmt"
	"log/slog"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/warp/residence-engine/residence"
)

// Config is the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	Rule     RuleConfig        `yaml:"rule"`
	Defaults DefaultsConfig    `yaml:"defaults"`
}

// Validate validates the whole configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Rule.Validate(); err != nil {
		return err
	}
	return c.Defaults.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the HTTP listen address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SQLiteConfig holds the database path. Use ":memory:" for an in-memory
// database.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// RuleConfig describes the residence rule being tracked.
type RuleConfig struct {
	TrackedCountry string `yaml:"tracked_country"`
	HomeCountry    string `yaml:"home_country"`
	WindowDays     int    `yaml:"window_days"`
	LimitDays      int    `yaml:"limit_days"`
}

func (c *RuleConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.TrackedCountry, validation.Required),
		validation.Field(&c.HomeCountry, validation.Required),
		validation.Field(&c.WindowDays, validation.Required, validation.Min(1)),
		validation.Field(&c.LimitDays, validation.Required, validation.Min(1)),
	); err != nil {
		return err
	}
	if c.LimitDays > c.WindowDays {
		return fmt.Errorf("rule: limit_days (%d) cannot exceed window_days (%d)", c.LimitDays, c.WindowDays)
	}
	return nil
}

// Rule converts the configuration into an engine rule.
func (c *RuleConfig) Rule() residence.Rule {
	return residence.Rule{
		TrackedCountry: c.TrackedCountry,
		HomeCountry:    c.HomeCountry,
		WindowDays:     c.WindowDays,
		LimitDays:      c.LimitDays,
	}
}

// DefaultsConfig holds per-person defaults applied when a record has none.
type DefaultsConfig struct {
	BufferDays int `yaml:"buffer_days"`
}

func (c *DefaultsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BufferDays, validation.Min(0), validation.Max(183)),
	)
}

// NewDefault returns a Config with the canonical Turkey/Germany rule and
// sensible local-development values.
func NewDefault() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP:     HTTPConfig{Port: 8080},
		},
		SQLite: SQLiteConfig{Path: "./residence.db"},
		Rule: RuleConfig{
			TrackedCountry: "Turkey",
			HomeCountry:    "Germany",
			WindowDays:     365,
			LimitDays:      183,
		},
		Defaults: DefaultsConfig{BufferDays: 12},
	}
}

// Load reads a YAML config file into target with environment variable
// expansion, then validates it. Missing file is an error; callers wanting
// defaults should start from NewDefault and only call Load when a path was
// given.
func Load(filename string, target *Config) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	if err := target.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
