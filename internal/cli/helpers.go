// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared wiring for CLI command handlers.
package cli

import (
	"fmt"
	"os"

	"github.com/medchat/medchat-tui/internal/api"
	"github.com/medchat/medchat-tui/internal/config"
	"github.com/medchat/medchat-tui/internal/session"
)

// Env bundles the pieces every command handler needs.
type Env struct {
	Config  *config.Config
	Session *session.Store
	Client  *api.Client
}

// Setup loads config, restores the stored session, and builds the gateway.
// The --api-url flag wins over both the environment and the config file.
func Setup(args *Args) (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if args.BaseURL != "" {
		cfg.Server.BaseURL = args.BaseURL
		cfg.SetDefaults()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	dir, err := session.DefaultDir()
	if err != nil {
		return nil, err
	}
	sess := session.NewStore(dir)
	if err := sess.RestoreFromStorage(); err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	client := api.NewClient(cfg.Server.BaseURL, sess).
		WithTimeout(cfg.Timeout()).
		WithHealthTimeout(cfg.HealthTimeout())

	return &Env{Config: cfg, Session: sess, Client: client}, nil
}

// Fail prints an error and exits non-zero.
func Fail(err error) {
	fmt.Fprintf(os.Stderr, "medchat: %v\n", err)
	os.Exit(1)
}

// RequireAuth exits with guidance when no session is stored.
func (e *Env) RequireAuth() {
	if !e.Session.Authenticated() {
		fmt.Fprintln(os.Stderr, "medchat: not logged in (run 'medchat login' first)")
		os.Exit(1)
	}
}
