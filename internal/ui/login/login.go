// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login provides the authentication form shown when no session is
// active.
package login

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/medchat/medchat-tui/internal/api"
	"github.com/medchat/medchat-tui/internal/session"
	"github.com/medchat/medchat-tui/internal/ui/styles"
)

// Mode selects between the two auth operations.
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

// field indexes for focus handling.
const (
	fieldUsername = iota
	fieldPassword
	fieldCount
)

// AuthenticatedMsg tells the app shell a session is now active.
type AuthenticatedMsg struct {
	Username string
}

// authResultMsg carries the backend's answer to a login or signup.
type authResultMsg struct {
	token    string
	username string
	err      error
}

// Model is the Bubble Tea model for the login form.
type Model struct {
	theme   *styles.Theme
	client  *api.Client
	session *session.Store

	mode    Mode
	inputs  []textinput.Model
	focused int

	submitting bool
	errText    string
	notice     string

	width  int
	height int
}

// New creates the login form.
func New(client *api.Client, sess *session.Store) Model {
	theme := styles.NewTheme()

	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = api.MaxUsernameLen
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = api.MaxPasswordLen
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return Model{
		theme:   theme,
		client:  client,
		session: sess,
		mode:    ModeLogin,
		inputs:  []textinput.Model{username, password},
		focused: fieldUsername,
	}
}

// SetNotice shows a one-line message above the form, used for the
// "session expired" banner after a 401 teardown.
func (m *Model) SetNotice(text string) {
	m.notice = text
}

// Mode returns the current form mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages for the login form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab", "down":
			m.setFocus((m.focused + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focused + fieldCount - 1) % fieldCount)
			return m, nil
		case "ctrl+s":
			if m.mode == ModeLogin {
				m.mode = ModeSignup
			} else {
				m.mode = ModeLogin
			}
			m.errText = ""
			return m, nil
		case "enter":
			return m.submit()
		}

	case authResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errText = api.UserMessage(msg.err)
			return m, nil
		}
		// The caller of the auth service owns the session-store login.
		if err := m.session.Login(msg.token, msg.username); err != nil {
			m.errText = "Could not save the session: " + err.Error()
			return m, nil
		}
		username := msg.username
		return m, func() tea.Msg { return AuthenticatedMsg{Username: username} }
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) {
	m.inputs[m.focused].Blur()
	m.focused = i
	m.inputs[m.focused].Focus()
}

func (m Model) submit() (Model, tea.Cmd) {
	username := strings.TrimSpace(m.inputs[fieldUsername].Value())
	password := m.inputs[fieldPassword].Value()

	m.submitting = true
	m.errText = ""
	m.notice = ""

	client := m.client
	mode := m.mode
	return m, func() tea.Msg {
		var tok *api.TokenResponse
		var err error
		if mode == ModeSignup {
			tok, err = client.Signup(context.Background(), username, password)
		} else {
			tok, err = client.Login(context.Background(), username, password)
		}
		if err != nil {
			return authResultMsg{err: err}
		}
		return authResultMsg{token: tok.AccessToken, username: username}
	}
}

// View renders the login form.
func (m Model) View() string {
	title := "Log in to medchat"
	action := "log in"
	toggleHint := "C-s: create an account instead"
	if m.mode == ModeSignup {
		title = "Create a medchat account"
		action = "sign up"
		toggleHint = "C-s: log in instead"
	}

	var b strings.Builder
	b.WriteString(m.theme.LoginTitle.Render(title))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(styles.RenderWarning(m.notice))
		b.WriteString("\n\n")
	}

	labels := []string{"Username", "Password"}
	for i, input := range m.inputs {
		b.WriteString(m.theme.LoginLabel.Render(labels[i]))
		b.WriteString("\n")
		field := m.theme.LoginFieldBlurred
		if i == m.focused {
			field = m.theme.LoginFieldFocused
		}
		b.WriteString(field.Render(input.View()))
		b.WriteString("\n")
	}

	if m.submitting {
		b.WriteString(m.theme.LoginHint.Render("Contacting the server..."))
	} else {
		b.WriteString(m.theme.LoginHint.Render("Enter: " + action + "  " + toggleHint))
	}

	if m.errText != "" {
		b.WriteString("\n\n")
		b.WriteString(m.theme.ErrorBox.Render(m.errText))
	}

	box := m.theme.LoginBox.Render(b.String())
	if m.width == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
