// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config is the master configuration for a Wechaty bot binary.
type Config struct {
	// Name identifies the bot in logs and the memory card namespace.
	Name string `yaml:"name"`

	// Logging configures the structured logger.
	Logging LoggingConfig `yaml:"logging"`

	// Puppet configures the provider payload cache and event stream.
	Puppet PuppetConfig `yaml:"puppet"`

	// Card configures the persistent memory card.
	Card CardConfig `yaml:"card"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is the minimum level emitted: debug, info, warn, error.
	// Default: info.
	Level string `yaml:"level"`

	// Format selects the slog handler: text or json.
	// Default: text.
	Format string `yaml:"format"`
}

// PuppetConfig configures provider-side resources.
type PuppetConfig struct {
	// RoomCache is the room payload cache capacity.
	// Zero means the puppet default.
	RoomCache int `yaml:"room_cache"`

	// ContactCache is the contact payload cache capacity.
	// Zero means the puppet default.
	ContactCache int `yaml:"contact_cache"`

	// EventBuffer is the provider event channel capacity.
	// Zero means the puppet default.
	EventBuffer int `yaml:"event_buffer"`
}

// CardConfig configures the persistent memory card.
type CardConfig struct {
	// Backend selects the store: memory, file, sqlite, or sealed.
	// Default: memory (no persistence).
	Backend string `yaml:"backend"`

	// Path is the card file or database path. Required for the file,
	// sqlite, and sealed backends. Supports ${VAR} expansion.
	Path string `yaml:"path"`

	// Compression is the file backend's compression: none, lz4, or
	// zstd. Default: lz4. Ignored by other backends.
	Compression string `yaml:"compression"`

	// Recipients are age X25519 recipient strings for the sealed
	// backend.
	Recipients []string `yaml:"recipients"`

	// IdentityFile is the path to an age identity used to open a
	// sealed card. Supports ${VAR} expansion.
	IdentityFile string `yaml:"identity_file"`
}

// Default returns the default configuration. These defaults are used
// as a base before loading the config file. They exist primarily to
// ensure all fields have sensible zero-values, not as a fallback —
// the config file is required.
func Default() *Config {
	return &Config{
		Name: "wechaty",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Card: CardConfig{
			Backend:     "memory",
			Compression: "lz4",
		},
	}
}

// Load loads configuration from the WECHATY_CONFIG environment
// variable.
//
// This is the only way to load configuration without an explicit path.
// There are no fallbacks or discovery — if WECHATY_CONFIG is not set,
// this fails. This ensures deterministic, auditable configuration with
// no hidden overrides.
func Load() (*Config, error) {
	configPath := os.Getenv("WECHATY_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("WECHATY_CONFIG environment variable not set; " +
			"set it to the path of your wechaty.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment variables
// do not override config values. The only expansion performed is
// ${HOME} and similar variables in path fields, for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in path
// fields.
func (c *Config) expandVariables() {
	c.Card.Path = expandVars(c.Card.Path)
	c.Card.IdentityFile = expandVars(c.Card.IdentityFile)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, fmt.Errorf("name is required"))
	}

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format))
	}

	if c.Puppet.RoomCache < 0 {
		errs = append(errs, fmt.Errorf("puppet.room_cache must not be negative"))
	}
	if c.Puppet.ContactCache < 0 {
		errs = append(errs, fmt.Errorf("puppet.contact_cache must not be negative"))
	}
	if c.Puppet.EventBuffer < 0 {
		errs = append(errs, fmt.Errorf("puppet.event_buffer must not be negative"))
	}

	switch c.Card.Backend {
	case "memory":
	case "file", "sqlite":
		if c.Card.Path == "" {
			errs = append(errs, fmt.Errorf("card.path is required for the %s backend", c.Card.Backend))
		}
	case "sealed":
		if c.Card.Path == "" {
			errs = append(errs, fmt.Errorf("card.path is required for the sealed backend"))
		}
		if len(c.Card.Recipients) == 0 {
			errs = append(errs, fmt.Errorf("card.recipients is required for the sealed backend"))
		}
		if c.Card.IdentityFile == "" {
			errs = append(errs, fmt.Errorf("card.identity_file is required for the sealed backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("card.backend must be memory, file, sqlite, or sealed, got %q", c.Card.Backend))
	}

	switch c.Card.Compression {
	case "none", "lz4", "zstd":
	default:
		errs = append(errs, fmt.Errorf("card.compression must be none, lz4, or zstd, got %q", c.Card.Compression))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// SlogLevel maps the configured logging level to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
}
