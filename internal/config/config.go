// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration management for dravis-tui.
//
// Configuration lives at ~/.dravis/config.toml. Missing values are filled
// with defaults on load, and saves are atomic so a crash mid-write never
// leaves a corrupt file behind.
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dravisapp/dravis-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete dravis-tui configuration.
type Config struct {
	Version string `toml:"version"`

	// Backend configuration
	Backend BackendConfig `toml:"backend"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Chat configuration
	Chat ChatConfig `toml:"chat"`

	// Storage configuration
	Storage StorageConfig `toml:"storage"`
}

// BackendConfig points the client at the DRAVIS backend.
type BackendConfig struct {
	// BaseURL is the backend base URL.
	// Uses explicit IPv4 instead of localhost to avoid IPv6 resolution
	// issues on Windows.
	BaseURL string `toml:"base_url"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Theme is "dark" or "light".
	Theme string `toml:"theme"`
}

// ChatConfig contains chat defaults.
type ChatConfig struct {
	// Mode is the default study mode: "normal", "exam_prep", "practice",
	// or "vocabulary".
	Mode string `toml:"mode"`
	// UseDocuments sends uploaded documents as context by default.
	UseDocuments bool `toml:"use_documents"`
}

// StorageConfig contains local storage paths.
type StorageConfig struct {
	// DatabasePath is the sqlite file for durable client state
	// (empty = ~/.dravis/dravis.db).
	DatabasePath string `toml:"database_path"`
	// ExportDir is where history exports are written (empty = cwd).
	ExportDir string `toml:"export_dir"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: "1.0",
		Backend: BackendConfig{
			BaseURL: "http://127.0.0.1:8000",
		},
		UI: UIConfig{
			Theme: "dark",
		},
		Chat: ChatConfig{
			Mode:         "normal",
			UseDocuments: false,
		},
		Storage: StorageConfig{},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the dravis config directory (~/.dravis).
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".dravis"), nil
}

// Path returns the config file path (~/.dravis/config.toml).
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file, filling in defaults for missing values.
// A missing file is not an error; defaults are returned.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads a config file from an explicit path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills zero values with defaults.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Version == "" {
		c.Version = def.Version
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = def.Backend.BaseURL
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
	if c.Chat.Mode == "" {
		c.Chat.Mode = def.Chat.Mode
	}
}

// Validate checks config values that would break the client at runtime.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid backend base_url %q", c.Backend.BaseURL)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("backend base_url must be http or https, got %q", u.Scheme)
	}
	if c.UI.Theme != "dark" && c.UI.Theme != "light" {
		return fmt.Errorf("ui theme must be \"dark\" or \"light\", got %q", c.UI.Theme)
	}
	switch c.Chat.Mode {
	case "normal", "exam_prep", "practice", "vocabulary":
	default:
		return fmt.Errorf("unknown chat mode %q", c.Chat.Mode)
	}
	return nil
}

// Save writes the config to the default path atomically.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveToPath(c, path)
}

// SaveToPath writes the config to an explicit path atomically.
func SaveToPath(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# dravis-tui configuration\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
