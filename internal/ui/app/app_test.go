// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"testing"

	"github.com/medchat/medchat-tui/internal/api"
	"github.com/medchat/medchat-tui/internal/config"
	"github.com/medchat/medchat-tui/internal/session"
	"github.com/medchat/medchat-tui/internal/ui/login"
)

func newTestShell(t *testing.T, authenticated bool) Model {
	t.Helper()
	sess := session.NewStore("")
	if authenticated {
		if err := sess.Login("tok1", "alice"); err != nil {
			t.Fatal(err)
		}
	}
	client := api.NewClient("http://127.0.0.1:1", sess)
	return New(config.Default(), client, sess, nil)
}

func TestStartScreen(t *testing.T) {
	if got := newTestShell(t, false).Screen(); got != ScreenLogin {
		t.Errorf("Screen() = %v, want login when no token is stored", got)
	}
	if got := newTestShell(t, true).Screen(); got != ScreenChat {
		t.Errorf("Screen() = %v, want chat when a token is stored", got)
	}
}

func TestAuthenticatedMsg_SwitchesToChat(t *testing.T) {
	m := newTestShell(t, false)

	updated, _ := m.Update(login.AuthenticatedMsg{Username: "alice"})
	if got := updated.(Model).Screen(); got != ScreenChat {
		t.Errorf("Screen() = %v, want chat after authentication", got)
	}
}

func TestSessionCleared_ReturnsToLogin(t *testing.T) {
	m := newTestShell(t, true)

	updated, _ := m.Update(SessionClearedMsg{})
	if got := updated.(Model).Screen(); got != ScreenLogin {
		t.Errorf("Screen() = %v, want login after teardown", got)
	}
}

func TestOnClearFeedsTeardownChannel(t *testing.T) {
	m := newTestShell(t, true)

	// A 401 anywhere invalidates the store; the subscription must deliver
	// exactly one pending notification for the shell to consume.
	m.session.Invalidate()

	select {
	case <-m.cleared:
	default:
		t.Fatal("teardown notification was not queued")
	}
}
