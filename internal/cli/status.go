// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Session and backend status command.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/medchat/medchat-tui/internal/ui/styles"
)

var (
	statusLabelStyle = lipgloss.NewStyle().
				Foreground(styles.TextSecondary).
				Width(14)

	statusValueStyle = lipgloss.NewStyle().
				Foreground(styles.TextPrimary)
)

// statusReport is the --json shape of the status command.
type statusReport struct {
	LoggedIn  bool   `json:"logged_in"`
	Username  string `json:"username,omitempty"`
	BaseURL   string `json:"base_url"`
	BackendUp bool   `json:"backend_up"`
}

// HandleStatus shows the stored session and backend reachability.
func HandleStatus(args *Args) {
	env, err := Setup(args)
	if err != nil {
		Fail(err)
	}

	report := statusReport{
		LoggedIn:  env.Session.Authenticated(),
		Username:  env.Session.Username(),
		BaseURL:   env.Client.BaseURL(),
		BackendUp: env.Client.Health(context.Background()),
	}

	if args.JSON {
		json.NewEncoder(os.Stdout).Encode(report)
		return
	}

	fmt.Println(statusLabelStyle.Render("Backend") + statusValueStyle.Render(report.BaseURL))
	if report.BackendUp {
		fmt.Println(statusLabelStyle.Render("Reachable") + styles.RenderSuccess("yes"))
	} else {
		fmt.Println(statusLabelStyle.Render("Reachable") + styles.RenderError("no"))
	}
	if report.LoggedIn {
		fmt.Println(statusLabelStyle.Render("Session") + statusValueStyle.Render("logged in as "+report.Username))
	} else {
		fmt.Println(statusLabelStyle.Render("Session") + statusValueStyle.Render("not logged in"))
	}
}
