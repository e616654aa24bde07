// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Credential length bounds, mirrored from the backend so obviously bad input
// fails before a round trip. The backend remains the authority.
const (
	MinUsernameLen = 3
	MaxUsernameLen = 64
	MinPasswordLen = 6
	MaxPasswordLen = 128
)

// ErrInvalidCredentials covers client-side credential validation failures.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenResponse is the backend's answer to a successful login or signup.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// signupRequest is the JSON body for account creation.
type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// validateCredentials checks length bounds on both fields.
func validateCredentials(username, password string) error {
	username = strings.TrimSpace(username)
	if n := len([]rune(username)); n < MinUsernameLen || n > MaxUsernameLen {
		return fmt.Errorf("%w: username must be %d-%d characters", ErrInvalidCredentials, MinUsernameLen, MaxUsernameLen)
	}
	if n := len([]rune(password)); n < MinPasswordLen || n > MaxPasswordLen {
		return fmt.Errorf("%w: password must be %d-%d characters", ErrInvalidCredentials, MinPasswordLen, MaxPasswordLen)
	}
	return nil
}

// Signup creates an account and returns the issued token. A 409 surfaces as
// ErrUsernameTaken with the backend's message attached.
func (c *Client) Signup(ctx context.Context, username, password string) (*TokenResponse, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	var tok TokenResponse
	err := c.postJSON(ctx, "/auth/signup", signupRequest{
		Username: strings.TrimSpace(username),
		Password: password,
	}, &tok)
	if err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("signup succeeded but no token was returned")
	}
	return &tok, nil
}

// Login exchanges credentials for a token. The backend's login endpoint is an
// OAuth2 password-flow form handler, so this is the one call that sends
// form-urlencoded instead of JSON.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("username", strings.TrimSpace(username))
	form.Set("password", password)

	var tok TokenResponse
	if err := c.postForm(ctx, "/auth/login", form.Encode(), &tok); err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("login succeeded but no token was returned")
	}
	return &tok, nil
}
