// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the authenticated user session and its persistence.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/medchat/medchat-tui/internal/util"
)

// CredentialsFileName is the single durable record for the session.
const CredentialsFileName = "credentials.json"

// credentials is the persisted shape. Only source-of-truth fields are
// stored; the authenticated flag is recomputed at load time so a stale
// "authenticated" state without a token cannot survive a restart.
type credentials struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Store is the single-writer session object shared by the HTTP gateway and
// the view-models. Token validity is never checked locally; only a 401 from
// the backend invalidates it.
type Store struct {
	mu sync.RWMutex

	token    string
	username string

	// path of the credentials file; empty disables persistence (tests).
	path string

	// onClear subscribers fire after the session is torn down, either by
	// an explicit logout or by the gateway reacting to a 401.
	onClear []func()
}

// NewStore creates a session store persisting under dir (typically
// ~/.medchat). An empty dir disables persistence.
func NewStore(dir string) *Store {
	s := &Store{}
	if dir != "" {
		s.path = filepath.Join(dir, CredentialsFileName)
	}
	return s
}

// DefaultDir returns the default medchat data directory.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".medchat"), nil
}

// Login records an authenticated session and persists it.
func (s *Store) Login(token, username string) error {
	s.mu.Lock()
	s.token = token
	s.username = username
	path := s.path
	s.mu.Unlock()

	if path == "" {
		return nil
	}
	data, err := json.MarshalIndent(credentials{Token: token, Username: username}, "", "  ")
	if err != nil {
		return err
	}
	// Token is a bearer credential; keep the file owner-only.
	return util.AtomicWriteFile(path, data, 0600)
}

// Logout clears the session, removes the persisted record, and notifies
// subscribers.
func (s *Store) Logout() {
	s.clear(true)
}

// Invalidate clears the session in response to a backend 401. Identical to
// Logout today, but kept separate so the two teardown paths read distinctly
// at call sites.
func (s *Store) Invalidate() {
	s.clear(true)
}

func (s *Store) clear(notify bool) {
	s.mu.Lock()
	s.token = ""
	s.username = ""
	path := s.path
	subs := make([]func(), len(s.onClear))
	copy(subs, s.onClear)
	s.mu.Unlock()

	if path != "" {
		os.Remove(path)
	}

	if notify {
		// Callbacks run outside the lock; they may call back into the store.
		for _, fn := range subs {
			fn()
		}
	}
}

// RestoreFromStorage loads a previously persisted session, re-deriving the
// authenticated flag from the presence of a token. Missing or unreadable
// files leave the store empty without error; a corrupt credentials file is
// equivalent to being logged out.
func (s *Store) RestoreFromStorage() error {
	s.mu.RLock()
	path := s.path
	s.mu.RUnlock()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil
	}

	s.mu.Lock()
	s.token = creds.Token
	s.username = creds.Username
	s.mu.Unlock()
	return nil
}

// OnClear registers fn to run whenever the session is torn down.
func (s *Store) OnClear(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClear = append(s.onClear, fn)
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Username returns the logged-in username, or "" when logged out.
func (s *Store) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// Authenticated reports whether a session is active. Invariant: true iff a
// token is present.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}
