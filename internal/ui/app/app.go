// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the top-level Bubble Tea model. It owns navigation between
// the login form and the chat screen, and subscribes to session teardown so
// a 401 from any backend call lands the user back on the login form.
package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/medchat/medchat-tui/internal/api"
	"github.com/medchat/medchat-tui/internal/config"
	"github.com/medchat/medchat-tui/internal/session"
	"github.com/medchat/medchat-tui/internal/storage"
	"github.com/medchat/medchat-tui/internal/ui/chat"
	"github.com/medchat/medchat-tui/internal/ui/login"
)

// Screen identifies the active view.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenChat
)

// SessionClearedMsg is delivered when the session store is torn down, either
// by an explicit logout or by the gateway reacting to a 401.
type SessionClearedMsg struct{}

// Model is the application shell.
type Model struct {
	screen Screen

	cfg     *config.Config
	client  *api.Client
	session *session.Store
	cache   *storage.Cache

	login login.Model
	chat  chat.Model

	// cleared receives one value per session teardown. The store's OnClear
	// callback feeds it; a long-running command drains it into the program.
	cleared chan struct{}

	// voluntary marks the next teardown as a user-initiated logout, which
	// suppresses the "session expired" banner.
	voluntary bool

	width  int
	height int
}

// New wires the shell. The session store is expected to be restored already;
// a present token lands the user straight on the chat screen, its validity
// checked only by the backend's response to the first call.
func New(cfg *config.Config, client *api.Client, sess *session.Store, cache *storage.Cache) Model {
	m := Model{
		cfg:     cfg,
		client:  client,
		session: sess,
		cache:   cache,
		login:   login.New(client, sess),
		chat:    chat.New(cfg, client, sess, cache),
		cleared: make(chan struct{}, 4),
	}

	sess.OnClear(func() {
		select {
		case m.cleared <- struct{}{}:
		default: // a teardown is already pending, one notification is enough
		}
	})

	if sess.Authenticated() {
		m.screen = ScreenChat
	} else {
		m.screen = ScreenLogin
	}
	return m
}

// Screen returns the active screen.
func (m Model) Screen() Screen {
	return m.screen
}

// waitForClearCmd blocks on the teardown channel.
func (m Model) waitForClearCmd() tea.Cmd {
	cleared := m.cleared
	return func() tea.Msg {
		<-cleared
		return SessionClearedMsg{}
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForClearCmd(), m.login.Init()}
	if m.screen == ScreenChat {
		cmds = append(cmds, m.chat.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Both screens track the size so switching needs no re-measure.
		var loginCmd, chatCmd tea.Cmd
		m.login, loginCmd = m.login.Update(msg)
		m.chat, chatCmd = m.chat.Update(msg)
		return m, tea.Batch(loginCmd, chatCmd)

	case SessionClearedMsg:
		notice := "Your session has expired. Please log in again."
		if m.voluntary {
			m.voluntary = false
			notice = ""
		}
		// SECURITY: Cached transcripts belong to the session that fetched
		// them. Best effort; the next login replaces the cache anyway.
		if m.cache != nil {
			_ = m.cache.Clear(context.Background())
		}
		return m.toLogin(notice)

	case chat.LogoutRequestedMsg:
		// Flag the teardown before triggering it; the resulting
		// SessionClearedMsg then skips the expiry banner.
		m.voluntary = true
		m.session.Logout()
		return m, nil

	case login.AuthenticatedMsg:
		m.screen = ScreenChat
		m.chat = chat.New(m.cfg, m.client, m.session, m.cache)
		var sizeCmd tea.Cmd
		if m.width > 0 {
			m.chat, sizeCmd = m.chat.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		}
		return m, tea.Batch(m.chat.Init(), sizeCmd)
	}

	switch m.screen {
	case ScreenLogin:
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		return m, cmd
	default:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	}
}

// toLogin swaps to a fresh login form, re-arming the teardown listener.
func (m Model) toLogin(notice string) (tea.Model, tea.Cmd) {
	m.screen = ScreenLogin
	m.login = login.New(m.client, m.session)
	if notice != "" {
		m.login.SetNotice(notice)
	}

	cmds := []tea.Cmd{m.waitForClearCmd(), m.login.Init()}
	if m.width > 0 {
		var sizeCmd tea.Cmd
		m.login, sizeCmd = m.login.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		cmds = append(cmds, sizeCmd)
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.screen == ScreenLogin {
		return m.login.View()
	}
	return m.chat.View()
}
