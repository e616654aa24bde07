// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/medchat/medchat-tui/internal/api"
	"github.com/medchat/medchat-tui/internal/session"
)

func newTestLogin() Model {
	sess := session.NewStore("")
	return New(api.NewClient("http://127.0.0.1:1", sess), sess)
}

func TestModeToggle(t *testing.T) {
	m := newTestLogin()
	if m.Mode() != ModeLogin {
		t.Fatal("form should start in login mode")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.Mode() != ModeSignup {
		t.Error("ctrl+s should switch to signup")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.Mode() != ModeLogin {
		t.Error("ctrl+s should switch back to login")
	}
}

func TestFocusCycles(t *testing.T) {
	m := newTestLogin()
	if m.focused != fieldUsername {
		t.Fatal("username should be focused first")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focused != fieldPassword {
		t.Error("tab should move focus to password")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focused != fieldUsername {
		t.Error("tab should wrap back to username")
	}
}

func TestAuthResult_SuccessSetsSession(t *testing.T) {
	sess := session.NewStore("")
	m := New(api.NewClient("http://127.0.0.1:1", sess), sess)

	_, cmd := m.Update(authResultMsg{token: "tok1", username: "alice"})
	if !sess.Authenticated() || sess.Token() != "tok1" {
		t.Error("session store should hold the issued token")
	}
	if cmd == nil {
		t.Fatal("expected an AuthenticatedMsg command")
	}
	if _, ok := cmd().(AuthenticatedMsg); !ok {
		t.Error("command should produce AuthenticatedMsg")
	}
}

func TestAuthResult_ErrorShown(t *testing.T) {
	m := newTestLogin()

	m, _ = m.Update(authResultMsg{err: api.ErrUnavailable})
	if m.errText == "" {
		t.Error("error text should be set")
	}
	if !strings.Contains(m.View(), m.errText) {
		t.Error("View() should include the error text")
	}
}

func TestNoticeRendered(t *testing.T) {
	m := newTestLogin()
	m.SetNotice("Your session has expired. Please log in again.")
	if !strings.Contains(m.View(), "session has expired") {
		t.Error("View() should include the notice")
	}
}
