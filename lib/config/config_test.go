// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Name != "wechaty" {
		t.Errorf("expected name=wechaty, got %s", cfg.Name)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected logging.level=info, got %s", cfg.Logging.Level)
	}
	if cfg.Card.Backend != "memory" {
		t.Errorf("expected card.backend=memory, got %s", cfg.Card.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_RequiresWechatyConfig(t *testing.T) {
	t.Setenv("WECHATY_CONFIG", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when WECHATY_CONFIG not set, got nil")
	}
	if !strings.Contains(err.Error(), "WECHATY_CONFIG environment variable not set") {
		t.Errorf("unexpected error message: %q", err.Error())
	}
}

func TestLoad_WithWechatyConfig(t *testing.T) {
	configPath := writeConfig(t, `
name: demo-bot
logging:
  level: debug
  format: json
puppet:
  room_cache: 100
  contact_cache: 400
card:
  backend: file
  path: /tmp/demo.card
  compression: zstd
`)
	t.Setenv("WECHATY_CONFIG", configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Name != "demo-bot" {
		t.Errorf("name = %q, want demo-bot", cfg.Name)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("logging.format = %q, want json", cfg.Logging.Format)
	}
	if cfg.Puppet.RoomCache != 100 {
		t.Errorf("puppet.room_cache = %d, want 100", cfg.Puppet.RoomCache)
	}
	if cfg.Card.Compression != "zstd" {
		t.Errorf("card.compression = %q, want zstd", cfg.Card.Compression)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		t.Fatalf("SlogLevel: %v", err)
	}
	if level != slog.LevelDebug {
		t.Errorf("SlogLevel = %v, want debug", level)
	}
}

func TestLoadFile_ExpandsPathVariables(t *testing.T) {
	t.Setenv("CARD_DIR", "/var/lib/wechaty")

	configPath := writeConfig(t, `
card:
  backend: file
  path: ${CARD_DIR}/bot.card
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Card.Path != "/var/lib/wechaty/bot.card" {
		t.Errorf("card.path = %q, want /var/lib/wechaty/bot.card", cfg.Card.Path)
	}
}

func TestLoadFile_ExpandsDefaultValue(t *testing.T) {
	t.Setenv("NO_SUCH_CARD_DIR", "")

	configPath := writeConfig(t, `
card:
  backend: file
  path: ${NO_SUCH_CARD_DIR:-/tmp}/bot.card
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Card.Path != "/tmp/bot.card" {
		t.Errorf("card.path = %q, want /tmp/bot.card", cfg.Card.Path)
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")
	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want wrapped fs.ErrNotExist", err)
	}
	if !strings.Contains(err.Error(), "config: reading "+path) {
		t.Errorf("error = %v, want the config package prefix and path", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty name",
			mutate:  func(c *Config) { c.Name = "" },
			wantErr: "name is required",
		},
		{
			name:    "bad level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
		{
			name:    "bad format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
		{
			name:    "negative cache",
			mutate:  func(c *Config) { c.Puppet.RoomCache = -1 },
			wantErr: "puppet.room_cache",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Card.Backend = "redis" },
			wantErr: "card.backend",
		},
		{
			name:    "file backend without path",
			mutate:  func(c *Config) { c.Card.Backend = "file" },
			wantErr: "card.path",
		},
		{
			name: "sealed backend without recipients",
			mutate: func(c *Config) {
				c.Card.Backend = "sealed"
				c.Card.Path = "/tmp/x.card"
				c.Card.IdentityFile = "/tmp/key.txt"
			},
			wantErr: "card.recipients",
		},
		{
			name:    "bad compression",
			mutate:  func(c *Config) { c.Card.Compression = "gzip" },
			wantErr: "card.compression",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wechaty.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}
