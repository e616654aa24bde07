// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history_cmd.go - Past-conversation listing for the CLI.
//
// Command: history [show <id>]
//
// Examples:
//
//	medchat history              List conversations, most recent first
//	medchat history --cached     List from the local cache, no network
//	medchat history show abc123  Print one conversation in full
//	medchat history --json       Machine-readable listing
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/medchat/medchat-tui/internal/model"
	"github.com/medchat/medchat-tui/internal/storage"
)

// HandleHistory lists past sessions or shows one in full.
func HandleHistory(args *Args) {
	env, err := Setup(args)
	if err != nil {
		Fail(err)
	}

	parser := NewArgParser(args.Raw)
	sessions, err := loadHistory(env, parser.BoolFlag("cached"))
	if err != nil {
		Fail(err)
	}

	if args.Subcommand == "show" {
		id := parser.Positional(2)
		if id == "" {
			Fail(fmt.Errorf("usage: medchat history show <id>"))
		}
		showSession(sessions, id)
		return
	}

	if args.JSON {
		json.NewEncoder(os.Stdout).Encode(sessions)
		return
	}

	if len(sessions) == 0 {
		fmt.Println("No conversations yet.")
		return
	}
	for _, s := range sessions {
		fmt.Printf("%-12s %s  %s\n",
			s.ID,
			s.Timestamp.Format("2006-01-02 15:04"),
			s.Title())
	}
}

// loadHistory fetches from the backend, or reads the local cache when asked
// to stay offline. Fresh fetches re-mirror into the cache.
func loadHistory(env *Env, cached bool) ([]model.Session, error) {
	path, err := storage.DefaultPath()
	if err != nil {
		return nil, err
	}

	if cached {
		cache, err := storage.Open(path)
		if err != nil {
			return nil, err
		}
		defer cache.Close()
		return cache.List(context.Background())
	}

	env.RequireAuth()
	sessions, err := env.Client.History(context.Background())
	if err != nil {
		return nil, err
	}

	if cache, cacheErr := storage.Open(path); cacheErr == nil {
		cache.Replace(context.Background(), sessions)
		cache.Close()
	}
	return sessions, nil
}

func showSession(sessions []model.Session, id string) {
	for _, s := range sessions {
		if s.ID != id {
			continue
		}
		fmt.Printf("Conversation %s (%s)\n\n", s.ID, s.Timestamp.Format("2006-01-02 15:04"))
		for _, msg := range s.Messages {
			fmt.Printf("%s: %s\n", msg.Role.DisplayName(), msg.Text)
		}
		return
	}
	Fail(fmt.Errorf("no conversation with id %q", id))
}
