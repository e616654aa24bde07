// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration show/set command.
//
// Command: config [show|set|path]
//
// Examples:
//
//	medchat config                 Show effective configuration
//	medchat config set base_url http://10.0.0.5:9000
//	medchat config path            Print the config file location
package cli

import (
	"fmt"
	"strconv"

	"github.com/medchat/medchat-tui/internal/config"
	"github.com/medchat/medchat-tui/internal/ui/styles"
)

// HandleConfig shows or mutates the config file.
func HandleConfig(args *Args) {
	switch args.Subcommand {
	case "", "show":
		showConfig()
	case "path":
		path, err := config.Path()
		if err != nil {
			Fail(err)
		}
		fmt.Println(path)
	case "set":
		if len(args.Raw) < 3 {
			Fail(fmt.Errorf("usage: medchat config set <key> <value>"))
		}
		setConfig(args.Raw[1], args.Raw[2])
	default:
		Fail(fmt.Errorf("unknown config subcommand %q", args.Subcommand))
	}
}

func showConfig() {
	cfg, err := config.Load()
	if err != nil {
		Fail(err)
	}
	fmt.Printf("base_url            = %s\n", cfg.Server.BaseURL)
	fmt.Printf("timeout_secs        = %d\n", cfg.Server.TimeoutSecs)
	fmt.Printf("health_timeout_secs = %d\n", cfg.Server.HealthTimeoutSecs)
	fmt.Printf("compact_mode        = %t\n", cfg.UI.CompactMode)
	fmt.Printf("history_preview_len = %d\n", cfg.UI.HistoryPreviewLen)
}

func setConfig(key, value string) {
	cfg, err := config.Load()
	if err != nil {
		Fail(err)
	}

	switch key {
	case "base_url":
		cfg.Server.BaseURL = value
	case "timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			Fail(fmt.Errorf("timeout_secs: %w", err))
		}
		cfg.Server.TimeoutSecs = n
	case "health_timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			Fail(fmt.Errorf("health_timeout_secs: %w", err))
		}
		cfg.Server.HealthTimeoutSecs = n
	case "compact_mode":
		b, err := strconv.ParseBool(value)
		if err != nil {
			Fail(fmt.Errorf("compact_mode: %w", err))
		}
		cfg.UI.CompactMode = b
	case "history_preview_len":
		n, err := strconv.Atoi(value)
		if err != nil {
			Fail(fmt.Errorf("history_preview_len: %w", err))
		}
		cfg.UI.HistoryPreviewLen = n
	default:
		Fail(fmt.Errorf("unknown config key %q", key))
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		Fail(err)
	}
	if err := config.Save(cfg); err != nil {
		Fail(err)
	}
	fmt.Println(styles.RenderSuccess(key + " updated"))
}
