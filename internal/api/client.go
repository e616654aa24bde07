// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP gateway to the medchat backend.
//
// Every backend call passes through a single Client that attaches the bearer
// token, applies timeouts, and centralizes 401 handling: any unauthorized
// response clears the session store, which notifies its subscribers so the
// UI can fall back to the login view regardless of which call triggered it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medchat/medchat-tui/internal/session"
)

const (
	// DefaultTimeout bounds ordinary API calls.
	DefaultTimeout = 20 * time.Second

	// HealthTimeout bounds the health probe; it should fail fast.
	HealthTimeout = 5 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 1 * 1024 * 1024 // 1MB limit
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// One shared transport serves every request the client makes.
var sharedTransport = &http.Transport{
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
	TLSHandshakeTimeout: 10 * time.Second,
}

// Error variables for common backend errors.
var (
	// ErrUnauthorized indicates the backend rejected the token (401).
	// The session has already been cleared by the time callers see it.
	ErrUnauthorized = errors.New("authentication failed")

	// ErrUnavailable indicates a network-level failure (no response).
	ErrUnavailable = errors.New("backend unreachable")

	// ErrUsernameTaken indicates a signup conflict (409).
	ErrUsernameTaken = errors.New("username already taken")
)

// genericErrorText is shown when the error body has no usable message.
const genericErrorText = "the server returned an error"

// APIError represents a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.Status)
}

// errorBody is the conventional error shape. FastAPI uses "detail";
// "message" is tried second for proxies that rewrap errors.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

// Client is the gateway through which all backend calls pass.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	healthClient  *http.Client
	session       *session.Store
	timeout       time.Duration
	healthTimeout time.Duration
}

// NewClient creates a gateway for the given base URL and session store.
// The session store may be nil for unauthenticated probing.
func NewClient(baseURL string, sess *session.Store) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: sharedTransport,
		},
		healthClient: &http.Client{
			Timeout:   HealthTimeout,
			Transport: sharedTransport,
		},
		session:       sess,
		timeout:       DefaultTimeout,
		healthTimeout: HealthTimeout,
	}
}

// WithTimeout sets the ordinary-call timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	c.httpClient.Timeout = timeout
	return c
}

// WithHealthTimeout sets the health-probe timeout.
func (c *Client) WithHealthTimeout(timeout time.Duration) *Client {
	c.healthTimeout = timeout
	c.healthClient.Timeout = timeout
	return c
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// setHeaders sets the common headers for a backend request. The bearer token
// is attached whenever the session store holds one; token validity is the
// backend's call, never checked locally.
func (c *Client) setHeaders(req *http.Request, contentType string) {
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("User-Agent", "medchat/0.1.0")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if c.session != nil {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

// logRequest logs an API request without exposing sensitive data.
// Does not log headers (auth) or bodies (credentials, medical content).
func logRequest(req *http.Request) {
	log.Printf("API request: %s %s", req.Method, req.URL.Path)
}

// logResponse logs only the status code and duration, never the body.
func logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("API response: %d (%v)", resp.StatusCode, duration)
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	limited := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// do performs a request and decodes a 2xx JSON response into out (which may
// be nil). Network failures, timeouts, and non-2xx statuses all surface as
// errors; a 401 additionally tears the session down before returning.
func (c *Client) do(req *http.Request, out any) error {
	logRequest(req)
	start := time.Now()
	resp, err := c.httpClient.Do(req)

	// Keep the token out of anything that might log the request afterwards.
	req.Header.Del("Authorization")

	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	logResponse(resp, time.Since(start))

	body, err := readResponse(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.handleErrorResponse(resp.StatusCode, body)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// handleErrorResponse converts a non-2xx response into a Go error. The 401
// branch is the only one with a global side effect: the session store is
// cleared so every view learns the token is dead.
func (c *Client) handleErrorResponse(status int, body []byte) error {
	msg := extractErrorMessage(body)

	if status == http.StatusUnauthorized {
		if c.session != nil {
			c.session.Invalidate()
		}
		if msg != genericErrorText {
			return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
		}
		return ErrUnauthorized
	}

	if status == http.StatusConflict {
		if msg != genericErrorText {
			return fmt.Errorf("%w: %s", ErrUsernameTaken, msg)
		}
		return ErrUsernameTaken
	}

	return &APIError{Status: status, Message: msg}
}

// extractErrorMessage pulls a human-readable message from an error body,
// trying "detail", then "message", then a generic fallback. FastAPI emits
// "detail" either as a string or as a structured validation list; only the
// string form is shown verbatim.
func extractErrorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if len(eb.Detail) > 0 {
			var detail string
			if err := json.Unmarshal(eb.Detail, &detail); err == nil && detail != "" {
				return detail
			}
		}
		if eb.Message != "" {
			return eb.Message
		}
	}
	return genericErrorText
}

// postJSON issues a POST with a JSON body.
func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, "application/json")
	return c.do(req, out)
}

// postForm issues a POST with a form-urlencoded body. Only the login
// endpoint uses this; the backend's OAuth2 form handler rejects JSON there.
func (c *Client) postForm(ctx context.Context, path string, form string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, "application/x-www-form-urlencoded")
	return c.do(req, out)
}

// get issues a GET request.
func (c *Client) get(ctx context.Context, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, "")
	return c.do(req, out)
}

// Health probes the backend. It returns a plain boolean and never an error:
// the probe exists so callers can render "backend down" without having to
// distinguish the many ways a probe can fail.
func (c *Client) Health(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", "medchat/0.1.0")

	resp, err := c.healthClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseSize))

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// IsUnavailable reports whether err is a network-level failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsUnauthorized reports whether err is an authentication failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// UserMessage converts any gateway error into a string fit for display.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnavailable):
		return "Cannot reach the server. Check your connection and try again."
	case errors.Is(err, ErrUnauthorized):
		return "Your session has expired. Please log in again."
	default:
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return apiErr.Message
		}
		return err.Error()
	}
}
