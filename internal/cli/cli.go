// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for medchat.
package cli

import (
	"fmt"
	"os"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdSignup
	CmdLogout
	CmdStatus
	CmdChat
	CmdHistory
	CmdDoctor
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds the parsed CLI arguments shared by all commands.
type Args struct {
	JSON    bool
	Quiet   bool
	Verbose bool

	Username string
	BaseURL  string

	Subcommand string
	Raw        []string
}

const usageText = `medchat - terminal client for the medchat assistant

Medchat is a terminal client for a medical-information chat service.
It is not a substitute for professional medical advice.

Usage:
  medchat                    Start the TUI (default)
  medchat login              Log in and store the session token
  medchat signup             Create an account
  medchat logout             Discard the stored session
  medchat status, s          Show session and backend status
  medchat chat               Line-mode chat (for basic terminals)
  medchat history            List past conversations
  medchat config [show|set]  Configuration
  medchat doctor             Connectivity and setup diagnostics
  medchat version, -v        Show version
  medchat help, -h           Show this help

Flags:
  --json                     Machine-readable output (status, history, doctor)
  --user NAME                Username for login/signup (prompted otherwise)
  --api-url URL              Override the backend base URL for this run
  -q, --quiet                Minimal output

Environment:
  MEDCHAT_API_URL            Backend base URL (default http://127.0.0.1:8000)

Files:
  ~/.medchat/config.toml     Configuration
  ~/.medchat/credentials.json  Stored session (owner-only)
  ~/.medchat/history.db      Local history cache
`

// Parse parses os.Args into a command and its arguments.
func Parse() (Command, *Args) {
	raw := os.Args[1:]
	parser := NewArgParser(raw)

	args := &Args{
		JSON:     parser.BoolFlag("json"),
		Quiet:    parser.BoolFlag("quiet") || parser.BoolFlag("q"),
		Verbose:  parser.BoolFlag("verbose"),
		Username: parser.Flag("user"),
		BaseURL:  parser.Flag("api-url"),
		Raw:      raw,
	}

	switch parser.Subcommand() {
	case "":
		if parser.BoolFlag("version") || parser.BoolFlag("v") {
			return CmdVersion, args
		}
		if parser.BoolFlag("help") || parser.BoolFlag("h") {
			return CmdHelp, args
		}
		return CmdTUI, args
	case "login":
		return CmdLogin, args
	case "signup", "register":
		return CmdSignup, args
	case "logout":
		return CmdLogout, args
	case "status", "s":
		return CmdStatus, args
	case "chat":
		return CmdChat, args
	case "history", "sessions":
		args.Subcommand = parser.Positional(1)
		return CmdHistory, args
	case "doctor", "diag":
		return CmdDoctor, args
	case "config":
		args.Subcommand = parser.Positional(1)
		args.Raw = parser.positional[1:]
		return CmdConfig, args
	case "version":
		return CmdVersion, args
	case "help":
		return CmdHelp, args
	default:
		fmt.Fprintf(os.Stderr, "medchat: unknown command %q\n\n", parser.Subcommand())
		return CmdHelp, args
	}
}

// HandleHelp prints usage.
func HandleHelp() {
	fmt.Print(usageText)
}

// HandleVersion prints version information.
func HandleVersion(args *Args) {
	if args.JSON {
		fmt.Printf("{\"version\":%q,\"commit\":%q,\"built\":%q}\n", Version, GitCommit, BuildDate)
		return
	}
	fmt.Printf("medchat %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}
