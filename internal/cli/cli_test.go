// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"testing"
)

func TestArgParser(t *testing.T) {
	p := NewArgParser([]string{"history", "show", "abc123", "--json", "--user", "alice", "--api-url=http://x:1"})

	if p.Subcommand() != "history" {
		t.Errorf("Subcommand() = %q", p.Subcommand())
	}
	if p.Positional(1) != "show" || p.Positional(2) != "abc123" {
		t.Errorf("positionals = %q, %q", p.Positional(1), p.Positional(2))
	}
	if !p.BoolFlag("json") {
		t.Error("BoolFlag(json) = false")
	}
	if p.Flag("user") != "alice" {
		t.Errorf("Flag(user) = %q", p.Flag("user"))
	}
	if p.Flag("api-url") != "http://x:1" {
		t.Errorf("Flag(api-url) = %q", p.Flag("api-url"))
	}
	if p.Positional(99) != "" {
		t.Error("out-of-range positional should be empty")
	}
}

func TestArgParser_ExplicitBool(t *testing.T) {
	p := NewArgParser([]string{"--json=false", "--quiet=true"})
	if p.BoolFlag("json") {
		t.Error("--json=false should parse as false")
	}
	if !p.BoolFlag("quiet") {
		t.Error("--quiet=true should parse as true")
	}
}

func parseArgs(t *testing.T, argv ...string) (Command, *Args) {
	t.Helper()
	old := os.Args
	defer func() { os.Args = old }()
	os.Args = append([]string{"medchat"}, argv...)
	return Parse()
}

func TestParse_Commands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{nil, CmdTUI},
		{[]string{"login"}, CmdLogin},
		{[]string{"signup"}, CmdSignup},
		{[]string{"register"}, CmdSignup},
		{[]string{"logout"}, CmdLogout},
		{[]string{"status"}, CmdStatus},
		{[]string{"s"}, CmdStatus},
		{[]string{"chat"}, CmdChat},
		{[]string{"history"}, CmdHistory},
		{[]string{"doctor"}, CmdDoctor},
		{[]string{"config", "show"}, CmdConfig},
		{[]string{"version"}, CmdVersion},
		{[]string{"-v"}, CmdVersion},
		{[]string{"--version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
		{[]string{"bogus"}, CmdHelp},
	}
	for _, tc := range tests {
		cmd, _ := parseArgs(t, tc.argv...)
		if cmd != tc.want {
			t.Errorf("Parse(%v) = %v, want %v", tc.argv, cmd, tc.want)
		}
	}
}

func TestParse_HistorySubcommand(t *testing.T) {
	cmd, args := parseArgs(t, "history", "show", "abc123")
	if cmd != CmdHistory {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.Subcommand != "show" {
		t.Errorf("Subcommand = %q, want show", args.Subcommand)
	}
}

func TestParse_GlobalFlags(t *testing.T) {
	_, args := parseArgs(t, "status", "--json", "--api-url", "http://10.0.0.5:9000")
	if !args.JSON {
		t.Error("JSON flag not picked up")
	}
	if args.BaseURL != "http://10.0.0.5:9000" {
		t.Errorf("BaseURL = %q", args.BaseURL)
	}
}
