// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for medchat.
//
// Configuration sources, in order of precedence:
//   - Environment variables (MEDCHAT_API_URL)
//   - ~/.medchat/config.toml
//   - Built-in defaults
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvAPIURL selects the backend base URL, overriding the config file.
const EnvAPIURL = "MEDCHAT_API_URL"

// DefaultBaseURL is the local development backend.
const DefaultBaseURL = "http://127.0.0.1:8000"

// Config represents the complete medchat configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	UI     UIConfig     `toml:"ui"`
}

// ServerConfig contains backend connection settings.
type ServerConfig struct {
	// BaseURL is the backend API root, without a trailing slash.
	BaseURL string `toml:"base_url"`
	// TimeoutSecs bounds ordinary API calls.
	TimeoutSecs int `toml:"timeout_secs"`
	// HealthTimeoutSecs bounds the /health probe, which should fail fast.
	HealthTimeoutSecs int `toml:"health_timeout_secs"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	// CompactMode hides the history sidebar on narrow terminals.
	CompactMode bool `toml:"compact_mode"`
	// HistoryPreviewLen is the rune length of session previews in the list.
	HistoryPreviewLen int `toml:"history_preview_len"`
}

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:           DefaultBaseURL,
			TimeoutSecs:       20,
			HealthTimeoutSecs: 5,
		},
		UI: UIConfig{
			CompactMode:       false,
			HistoryPreviewLen: 40,
		},
	}
}

// Dir returns the medchat config directory (~/.medchat).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".medchat"), nil
}

// Path returns the config file path (~/.medchat/config.toml).
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from the config file, falling back to
// defaults when the file is absent. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from an explicit file path. A missing
// file is not an error; defaults are used.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides.
func (c *Config) ApplyEnvOverrides() {
	if apiURL := os.Getenv(EnvAPIURL); apiURL != "" {
		c.Server.BaseURL = apiURL
	}
}

// SetDefaults fills zero values with defaults, so partial config files and
// older files missing newer keys keep working.
func (c *Config) SetDefaults() {
	def := Default()
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = def.Server.BaseURL
	}
	if c.Server.TimeoutSecs <= 0 {
		c.Server.TimeoutSecs = def.Server.TimeoutSecs
	}
	if c.Server.HealthTimeoutSecs <= 0 {
		c.Server.HealthTimeoutSecs = def.Server.HealthTimeoutSecs
	}
	if c.UI.HistoryPreviewLen <= 0 {
		c.UI.HistoryPreviewLen = def.UI.HistoryPreviewLen
	}
	c.Server.BaseURL = strings.TrimSuffix(c.Server.BaseURL, "/")
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("server.base_url: invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.base_url: unsupported scheme %q (must be http or https)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("server.base_url: missing host")
	}
	if c.Server.TimeoutSecs > 300 {
		return fmt.Errorf("server.timeout_secs: %d exceeds the 300s ceiling", c.Server.TimeoutSecs)
	}
	return nil
}

// Save writes the configuration to the default config file.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the configuration as TOML to an explicit path.
func SaveToPath(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# medchat configuration file")
	fmt.Fprintln(file, "# Generated by medchat - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Timeout returns the ordinary-call timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSecs) * time.Second
}

// HealthTimeout returns the health-probe timeout as a duration.
func (c *Config) HealthTimeout() time.Duration {
	return time.Duration(c.Server.HealthTimeoutSecs) * time.Second
}
