// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - login, signup, and logout command handlers.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/medchat/medchat-tui/internal/api"
	"github.com/medchat/medchat-tui/internal/storage"
	"github.com/medchat/medchat-tui/internal/ui/styles"
)

// HandleLogin authenticates and stores the session token.
func HandleLogin(args *Args) {
	env, err := Setup(args)
	if err != nil {
		Fail(err)
	}

	username, password, err := promptCredentials(args.Username, false)
	if err != nil {
		Fail(err)
	}

	tok, err := env.Client.Login(context.Background(), username, password)
	if err != nil {
		Fail(err)
	}
	if err := env.Session.Login(tok.AccessToken, username); err != nil {
		Fail(fmt.Errorf("authenticated, but saving the session failed: %w", err))
	}

	fmt.Println(styles.RenderSuccess("Logged in as " + username))
}

// HandleSignup creates an account and stores the issued token.
func HandleSignup(args *Args) {
	env, err := Setup(args)
	if err != nil {
		Fail(err)
	}

	username, password, err := promptCredentials(args.Username, true)
	if err != nil {
		Fail(err)
	}

	tok, err := env.Client.Signup(context.Background(), username, password)
	if err != nil {
		Fail(err)
	}
	if err := env.Session.Login(tok.AccessToken, username); err != nil {
		Fail(fmt.Errorf("account created, but saving the session failed: %w", err))
	}

	fmt.Println(styles.RenderSuccess("Account created, logged in as " + username))
}

// HandleLogout discards the stored session.
func HandleLogout(args *Args) {
	env, err := Setup(args)
	if err != nil {
		Fail(err)
	}

	if !env.Session.Authenticated() {
		fmt.Println("Not logged in.")
		return
	}
	username := env.Session.Username()
	env.Session.Logout()
	clearHistoryCache()
	fmt.Println(styles.RenderSuccess("Logged out " + username))
}

// promptCredentials collects a username (unless given via --user) and a
// password. Passwords are read without echo; signup asks twice.
func promptCredentials(username string, confirm bool) (string, string, error) {
	reader := bufio.NewReader(os.Stdin)

	if username == "" {
		fmt.Print("Username: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("failed to read username: %w", err)
		}
		username = strings.TrimSpace(line)
	}
	if len(username) < api.MinUsernameLen {
		return "", "", fmt.Errorf("username must be at least %d characters", api.MinUsernameLen)
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return "", "", err
	}
	if confirm {
		again, err := readPassword("Confirm password: ")
		if err != nil {
			return "", "", err
		}
		if password != again {
			return "", "", fmt.Errorf("passwords do not match")
		}
	}
	return username, password, nil
}

// clearHistoryCache drops the locally mirrored transcripts. Logout means the
// machine no longer holds that user's conversations; failures are ignored
// because the cache may simply not exist yet.
func clearHistoryCache() {
	path, err := storage.DefaultPath()
	if err != nil {
		return
	}
	cache, err := storage.Open(path)
	if err != nil {
		return
	}
	defer cache.Close()
	_ = cache.Clear(context.Background())
}

// readPassword reads a password without echoing it.
// SECURITY: Credentials never appear on screen or in shell history.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}
