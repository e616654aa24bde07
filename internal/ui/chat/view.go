// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file renders the full authenticated screen: history sidebar,
// conversation pane, input line, and status bar.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/medchat/medchat-tui/internal/util"
)

// sidebarWidth is the history pane width on wide terminals.
const sidebarWidth = 32

// compactThreshold is the terminal width below which the sidebar is hidden.
const compactThreshold = 80

// View renders the chat screen.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	status := m.renderStatusBar()

	body := m.viewport.View()
	input := m.theme.InputContainer.Width(m.mainWidth()).Render(m.renderInputLine())

	main := lipgloss.JoinVertical(lipgloss.Left, body, input)

	var content string
	if m.showSidebar() {
		sidebar := m.renderSidebar()
		content = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
	} else {
		content = main
	}

	view := lipgloss.JoinVertical(lipgloss.Left, header, content, status)

	if m.toasts.Active() {
		view += "\n" + m.toasts.View(m.width-2)
	}
	return view
}

func (m Model) showSidebar() bool {
	if m.cfg != nil && m.cfg.UI.CompactMode {
		return false
	}
	return m.width >= compactThreshold
}

func (m Model) mainWidth() int {
	if m.showSidebar() {
		return m.width - sidebarWidth
	}
	return m.width
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("medchat")
	subtitle := m.theme.HeaderSubtitle.Render("medical information assistant")

	user := ""
	if m.session != nil && m.session.Username() != "" {
		user = m.theme.HeaderSubtitle.Render("  @" + m.session.Username())
	}
	return m.theme.Header.Width(m.width).Render(title + " " + subtitle + user)
}

func (m Model) renderSidebar() string {
	height := m.bodyHeight()

	var b strings.Builder
	b.WriteString(m.theme.HistoryTitle.Render("Conversations"))
	b.WriteString("\n\n")

	if m.historyList.Empty() {
		b.WriteString(m.theme.HistoryEmpty.Render("No conversations yet"))
	} else {
		previewLen := 26
		if m.cfg != nil && m.cfg.UI.HistoryPreviewLen > 0 && m.cfg.UI.HistoryPreviewLen < previewLen {
			previewLen = m.cfg.UI.HistoryPreviewLen
		}
		selected := m.historyList.SelectedIndex()
		for i, s := range m.historyList.Sessions() {
			line := util.TruncateWidth(s.Title(), previewLen)
			meta := m.theme.HistoryMeta.Render(s.Timestamp.Format("Jan 2 15:04"))
			if i == selected {
				b.WriteString(m.theme.HistoryItemSelected.Render(line))
			} else {
				b.WriteString(m.theme.HistoryItem.Render(line))
			}
			b.WriteString("\n" + " " + meta + "\n")
		}
	}

	return m.theme.HistoryList.
		Width(sidebarWidth - 2).
		Height(height).
		Render(b.String())
}

func (m Model) renderInputLine() string {
	if m.state == StateSending {
		return m.spinner.View()
	}
	return m.input.View()
}

func (m Model) renderStatusBar() string {
	var backend string
	if m.backendUp {
		backend = m.theme.BackendUp.Render("backend: up")
	} else {
		backend = m.theme.BackendDown.Render("backend: down")
	}

	var state string
	switch m.state {
	case StateSending:
		state = m.theme.SendingStatus.Render("sending...")
	case StateLoading:
		state = m.theme.SendingStatus.Render("loading...")
	default:
		state = fmt.Sprintf("%d conversation(s)", m.historyList.Len())
	}

	shortcuts := m.theme.ShortcutKey.Render("C-n") + m.theme.ShortcutDesc.Render(" new ") +
		m.theme.ShortcutKey.Render("C-w") + m.theme.ShortcutDesc.Render(" close ") +
		m.theme.ShortcutKey.Render("C-r") + m.theme.ShortcutDesc.Render(" refresh ") +
		m.theme.ShortcutKey.Render("C-l") + m.theme.ShortcutDesc.Render(" logout ") +
		m.theme.ShortcutKey.Render("C-c") + m.theme.ShortcutDesc.Render(" quit")

	left := backend + "  " + state
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(shortcuts) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + shortcuts)
}

// bodyHeight is the vertical space left for the transcript and sidebar.
func (m Model) bodyHeight() int {
	h := m.height - 6 // header, input box, status bar
	if h < 3 {
		h = 3
	}
	return h
}

// resize recomputes the layout after a terminal size change.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	m.viewport.Width = m.mainWidth()
	m.viewport.Height = m.bodyHeight()
	m.input.Width = m.mainWidth() - 6

	m.refreshViewport()
}

// refreshViewport re-renders the transcript and follows the tail.
func (m *Model) refreshViewport() {
	width := m.viewport.Width
	if width == 0 {
		width = defaultWrapWidth
	}
	m.viewport.SetContent(renderTranscript(
		m.theme, m.renderer, m.conversation.Messages(), m.conversation.Sending(), width))
	m.viewport.GotoBottom()
}
