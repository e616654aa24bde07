// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromPath_Defaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}

	if cfg.Server.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.Server.BaseURL, DefaultBaseURL)
	}
	if cfg.Timeout() != 20*time.Second {
		t.Errorf("Timeout() = %v, want 20s", cfg.Timeout())
	}
	if cfg.HealthTimeout() != 5*time.Second {
		t.Errorf("HealthTimeout() = %v, want 5s", cfg.HealthTimeout())
	}
}

func TestLoadFromPath_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[server]\nbase_url = \"https://chat.example.org/\"\ntimeout_secs = 30\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}

	// Trailing slash must be stripped so path joins don't double up.
	if cfg.Server.BaseURL != "https://chat.example.org" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.Server.TimeoutSecs != 30 {
		t.Errorf("TimeoutSecs = %d, want 30", cfg.Server.TimeoutSecs)
	}
	// Unset keys keep their defaults.
	if cfg.Server.HealthTimeoutSecs != 5 {
		t.Errorf("HealthTimeoutSecs = %d, want default 5", cfg.Server.HealthTimeoutSecs)
	}
}

func TestLoadFromPath_EnvOverride(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://10.0.0.5:9000")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.Server.BaseURL != "http://10.0.0.5:9000" {
		t.Errorf("BaseURL = %q, want env override", cfg.Server.BaseURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"ftp scheme rejected", func(c *Config) { c.Server.BaseURL = "ftp://example.org" }, true},
		{"missing host rejected", func(c *Config) { c.Server.BaseURL = "http://" }, true},
		{"huge timeout rejected", func(c *Config) { c.Server.TimeoutSecs = 10000 }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestSaveToPath_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Server.BaseURL = "http://localhost:8123"
	if err := SaveToPath(cfg, path); err != nil {
		t.Fatalf("SaveToPath() error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if loaded.Server.BaseURL != "http://localhost:8123" {
		t.Errorf("round-tripped BaseURL = %q", loaded.Server.BaseURL)
	}
}
