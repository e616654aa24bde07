// medchat - a terminal client for the medchat medical-information assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/medchat/medchat-tui/internal/cli"
	"github.com/medchat/medchat-tui/internal/storage"
	"github.com/medchat/medchat-tui/internal/ui/app"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdLogin:
		cli.HandleLogin(args)
	case cli.CmdSignup:
		cli.HandleSignup(args)
	case cli.CmdLogout:
		cli.HandleLogout(args)
	case cli.CmdStatus:
		cli.HandleStatus(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdHistory:
		cli.HandleHistory(args)
	case cli.CmdDoctor:
		cli.HandleDoctor(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	}
}

func runTUI(args *cli.Args) {
	// The terminal belongs to the TUI; gateway request logs go nowhere
	// unless a log file is asked for.
	if path := os.Getenv("MEDCHAT_LOG"); path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600); err == nil {
			log.SetOutput(f)
			defer f.Close()
		}
	} else {
		log.SetOutput(io.Discard)
	}

	env, err := cli.Setup(args)
	if err != nil {
		cli.Fail(err)
	}

	// The cache is optional; the TUI works with history in memory only.
	var cache *storage.Cache
	if path, err := storage.DefaultPath(); err == nil {
		if c, err := storage.Open(path); err == nil {
			cache = c
			defer cache.Close()
		}
	}

	shell := app.New(env.Config, env.Client, env.Session, cache)
	program := tea.NewProgram(shell, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "medchat: %v\n", err)
		os.Exit(1)
	}
}
