// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file contains the message types, commands, and the Update loop.
package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/medchat/medchat-tui/internal/api"
	"github.com/medchat/medchat-tui/internal/model"
	"github.com/medchat/medchat-tui/internal/ui/components"
)

// =============================================================================
// MESSAGES
// =============================================================================

// historyFetchedMsg carries the result of a history fetch.
type historyFetchedMsg struct {
	sessions []model.Session
	err      error
}

// cachedHistoryMsg carries the locally cached listing shown while the first
// fetch is still in flight.
type cachedHistoryMsg struct {
	sessions []model.Session
}

// sendResultMsg carries the outcome of a message send. The seq pairs it with
// the optimistic update it confirms or reverts.
type sendResultMsg struct {
	seq   uint64
	reply string
	err   error
}

// newChatMsg carries the result of a new-session call.
type newChatMsg struct {
	id  string
	err error
}

// chatClosedMsg carries the result of a close-session call.
type chatClosedMsg struct {
	id  string
	err error
}

// healthMsg carries the backend reachability probe result.
type healthMsg struct {
	up bool
}

// healthTickMsg schedules the next periodic probe.
type healthTickMsg struct{}

// LogoutRequestedMsg bubbles up to the app shell, which owns navigation.
type LogoutRequestedMsg struct{}

// healthProbeInterval is how often backend reachability is re-checked.
const healthProbeInterval = 30 * time.Second

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) fetchHistoryCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		sessions, err := client.History(context.Background())
		return historyFetchedMsg{sessions: sessions, err: err}
	}
}

func (m Model) loadCachedHistoryCmd() tea.Cmd {
	cache := m.cache
	if cache == nil {
		return nil
	}
	return func() tea.Msg {
		sessions, err := cache.List(context.Background())
		if err != nil || len(sessions) == 0 {
			return nil
		}
		return cachedHistoryMsg{sessions: sessions}
	}
}

func (m Model) sendCmd(seq uint64, text string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		reply, err := client.SendMessage(context.Background(), text)
		return sendResultMsg{seq: seq, reply: reply, err: err}
	}
}

func (m Model) newChatCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		id, err := client.NewChat(context.Background())
		return newChatMsg{id: id, err: err}
	}
}

func (m Model) closeChatCmd(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.CloseChat(context.Background(), id)
		return chatClosedMsg{id: id, err: err}
	}
}

func (m Model) healthCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return healthMsg{up: client.Health(context.Background())}
	}
}

func healthTickCmd() tea.Cmd {
	return tea.Tick(healthProbeInterval, func(time.Time) tea.Msg {
		return healthTickMsg{}
	})
}

func (m Model) persistHistoryCmd(sessions []model.Session) tea.Cmd {
	cache := m.cache
	if cache == nil {
		return nil
	}
	return func() tea.Msg {
		// Cache writes are best-effort; a failure never disturbs the UI.
		cache.Replace(context.Background(), sessions)
		return nil
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles incoming messages for the chat screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case cachedHistoryMsg:
		// Only seed from the cache while nothing fresher has arrived.
		if m.historyList.Empty() {
			m.historyList.SetSessions(msg.sessions)
			m.syncConversation()
		}
		return m, nil

	case historyFetchedMsg:
		if m.state == StateLoading {
			m.state = StateIdle
		}
		if msg.err != nil {
			if api.IsUnauthorized(msg.err) {
				return m, nil // the app shell navigates to login
			}
			cmds = append(cmds, m.pushErrorToast(api.UserMessage(msg.err)))
			return m, tea.Batch(cmds...)
		}
		m.historyList.SetSessions(msg.sessions)
		m.syncConversation()
		cmds = append(cmds, m.persistHistoryCmd(msg.sessions))
		return m, tea.Batch(cmds...)

	case sendResultMsg:
		return m.handleSendResult(msg)

	case newChatMsg:
		if m.state == StateLoading {
			m.state = StateIdle
		}
		if msg.err != nil {
			if api.IsUnauthorized(msg.err) {
				return m, nil
			}
			cmds = append(cmds, m.pushErrorToast(api.UserMessage(msg.err)))
			return m, tea.Batch(cmds...)
		}
		// The created session is selected explicitly, ahead of the listing
		// that will contain it.
		m.historyList.Select(msg.id)
		m.conversation.SetSession(&model.Session{ID: msg.id})
		m.refreshViewport()
		cmds = append(cmds, m.fetchHistoryCmd())
		return m, tea.Batch(cmds...)

	case chatClosedMsg:
		if m.state == StateLoading {
			m.state = StateIdle
		}
		if msg.err != nil {
			if api.IsUnauthorized(msg.err) {
				return m, nil
			}
			cmds = append(cmds, m.pushErrorToast(api.UserMessage(msg.err)))
			return m, tea.Batch(cmds...)
		}
		m.historyList.Remove(msg.id)
		m.syncConversation()
		cmds = append(cmds, m.fetchHistoryCmd())
		return m, tea.Batch(cmds...)

	case healthMsg:
		m.backendUp = msg.up
		return m, healthTickCmd()

	case healthTickMsg:
		return m, m.healthCmd()

	case components.ToastExpiredMsg:
		m.toasts.Sweep()
		return m, nil
	}

	// Spinner animation and other component messages.
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Logout):
		// The app shell performs the actual teardown so it can tell a
		// voluntary logout apart from a 401-triggered one.
		return m, func() tea.Msg { return LogoutRequestedMsg{} }

	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.NewChat):
		if m.state == StateSending {
			return m, nil
		}
		m.state = StateLoading
		return m, m.newChatCmd()

	case key.Matches(msg, m.keyMap.CloseChat):
		if m.state == StateSending {
			return m, nil
		}
		id := m.historyList.SelectedID()
		if id == "" {
			return m, nil
		}
		m.state = StateLoading
		return m, m.closeChatCmd(id)

	case key.Matches(msg, m.keyMap.Refresh):
		return m, m.fetchHistoryCmd()

	case key.Matches(msg, m.keyMap.NextSession):
		if m.state != StateSending {
			m.historyList.SelectNext()
			m.syncConversation()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.PrevSession):
		if m.state != StateSending {
			m.historyList.SelectPrev()
			m.syncConversation()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp), key.Matches(msg, m.keyMap.PageDown),
		key.Matches(msg, m.keyMap.Up), key.Matches(msg, m.keyMap.Down):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts a send if the state machine allows one.
func (m Model) submit() (Model, tea.Cmd) {
	text := m.input.Value()

	seq, ok := m.conversation.BeginSend(text)
	if !ok {
		// Already sending, or nothing to send.
		return m, nil
	}

	m.state = StateSending
	m.input.SetValue("")
	m.refreshViewport()

	return m, tea.Batch(
		m.spinner.Start(),
		m.sendCmd(seq, text),
	)
}

// handleSendResult commits or reverts the optimistic update.
func (m Model) handleSendResult(msg sendResultMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		restored, ok := m.conversation.FailSend(msg.seq)
		if !ok {
			// Stale result, a newer context owns the view. The busy flag
			// still has to come down unless that context has its own send
			// in flight, or the screen is stuck on the spinner.
			m.settleStaleSend()
			return m, nil
		}
		m.state = StateIdle
		m.spinner.Stop()
		// The input gets the failed text back so nothing typed is lost.
		m.input.SetValue(restored)
		m.input.CursorEnd()
		m.refreshViewport()

		if api.IsUnauthorized(msg.err) {
			return m, nil
		}
		return m, m.pushErrorToast(api.UserMessage(msg.err))
	}

	if !m.conversation.CompleteSend(msg.seq, msg.reply) {
		m.settleStaleSend()
		return m, nil // stale result
	}
	m.state = StateIdle
	m.spinner.Stop()
	m.refreshViewport()

	// Re-sync the listing so the session's timestamp moves up.
	return m, m.fetchHistoryCmd()
}

// settleStaleSend returns the screen to idle after a dropped send result,
// unless the current conversation has started a send of its own.
func (m *Model) settleStaleSend() {
	if m.state == StateSending && !m.conversation.Sending() {
		m.state = StateIdle
		m.spinner.Stop()
	}
}

// syncConversation points the conversation at the selected history item.
func (m *Model) syncConversation() {
	selected := m.historyList.Selected()
	if selected == nil {
		id := m.historyList.SelectedID()
		if id != "" && id == m.conversation.ID() {
			return // a just-created session not yet in the listing
		}
		m.conversation.SetSession(nil)
	} else if selected.ID != m.conversation.ID() || !m.conversation.Sending() {
		m.conversation.SetSession(selected)
	}
	m.refreshViewport()
}

func (m *Model) pushErrorToast(text string) tea.Cmd {
	return m.toasts.Push(components.NewErrorToast(text))
}
