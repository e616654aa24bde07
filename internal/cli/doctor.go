// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// doctor.go - Connectivity and setup diagnostics.
//
// Command: doctor
// Aliases: diag
//
// Health checks performed:
//  1. Config valid      - the config file parses and validates
//  2. Backend reachable - the /health probe answers in time
//  3. Session stored    - a credentials file is present and loads
//  4. Data dir writable - ~/.medchat accepts writes (token persistence)
//
// Exit codes:
//
//	0   All checks passed (warnings allowed)
//	1   One or more checks failed
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/medchat/medchat-tui/internal/api"
	"github.com/medchat/medchat-tui/internal/config"
	"github.com/medchat/medchat-tui/internal/session"
	"github.com/medchat/medchat-tui/internal/ui/styles"
)

var doctorTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(styles.Teal).
	MarginBottom(1)

// checkStatus is a single diagnostic outcome.
type checkStatus string

const (
	checkPass checkStatus = "pass"
	checkWarn checkStatus = "warn"
	checkFail checkStatus = "fail"
)

type checkResult struct {
	Name    string      `json:"name"`
	Status  checkStatus `json:"status"`
	Message string      `json:"message"`
	Fix     string      `json:"fix,omitempty"`
}

// HandleDoctor runs all diagnostics and exits non-zero on failure.
func HandleDoctor(args *Args) {
	results := runChecks(args)

	if args.JSON {
		json.NewEncoder(os.Stdout).Encode(results)
	} else {
		fmt.Println(doctorTitleStyle.Render("medchat doctor"))
		for _, r := range results {
			printCheck(r)
		}
	}

	for _, r := range results {
		if r.Status == checkFail {
			os.Exit(1)
		}
	}
}

func runChecks(args *Args) []checkResult {
	var results []checkResult

	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		results = append(results, checkResult{
			Name:    "Config valid",
			Status:  checkFail,
			Message: err.Error(),
			Fix:     "fix or delete ~/.medchat/config.toml",
		})
		cfg = config.Default()
	} else {
		results = append(results, checkResult{
			Name:    "Config valid",
			Status:  checkPass,
			Message: cfg.Server.BaseURL,
		})
	}
	if args.BaseURL != "" {
		cfg.Server.BaseURL = args.BaseURL
		cfg.SetDefaults()
	}

	// 2. Backend
	client := api.NewClient(cfg.Server.BaseURL, nil).WithHealthTimeout(cfg.HealthTimeout())
	if client.Health(context.Background()) {
		results = append(results, checkResult{
			Name:    "Backend reachable",
			Status:  checkPass,
			Message: cfg.Server.BaseURL + "/health answered",
		})
	} else {
		results = append(results, checkResult{
			Name:    "Backend reachable",
			Status:  checkFail,
			Message: "no answer from " + cfg.Server.BaseURL,
			Fix:     "check the server, or set MEDCHAT_API_URL",
		})
	}

	// 3. Session
	dir, err := session.DefaultDir()
	if err == nil {
		sess := session.NewStore(dir)
		if restoreErr := sess.RestoreFromStorage(); restoreErr != nil {
			results = append(results, checkResult{
				Name:    "Session stored",
				Status:  checkWarn,
				Message: restoreErr.Error(),
			})
		} else if sess.Authenticated() {
			results = append(results, checkResult{
				Name:    "Session stored",
				Status:  checkPass,
				Message: "logged in as " + sess.Username(),
			})
		} else {
			results = append(results, checkResult{
				Name:    "Session stored",
				Status:  checkWarn,
				Message: "not logged in",
				Fix:     "run 'medchat login'",
			})
		}
	}

	// 4. Data dir writable
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			results = append(results, checkResult{
				Name:    "Data dir writable",
				Status:  checkFail,
				Message: err.Error(),
			})
		} else {
			probe := filepath.Join(dir, ".doctor-probe")
			if err := os.WriteFile(probe, []byte("ok"), 0600); err != nil {
				results = append(results, checkResult{
					Name:    "Data dir writable",
					Status:  checkFail,
					Message: err.Error(),
					Fix:     "check permissions on " + dir,
				})
			} else {
				os.Remove(probe)
				results = append(results, checkResult{
					Name:    "Data dir writable",
					Status:  checkPass,
					Message: dir,
				})
			}
		}
	}

	return results
}

func printCheck(r checkResult) {
	var line string
	switch r.Status {
	case checkPass:
		line = styles.RenderSuccess(r.Name)
	case checkWarn:
		line = styles.RenderWarning(r.Name)
	default:
		line = styles.RenderError(r.Name)
	}
	fmt.Printf("%s  %s\n", line, r.Message)
	if r.Fix != "" && r.Status != checkPass {
		fmt.Printf("       fix: %s\n", r.Fix)
	}
}
