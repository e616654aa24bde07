// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file renders the conversation transcript.
package chat

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/medchat/medchat-tui/internal/model"
	"github.com/medchat/medchat-tui/internal/ui/styles"
)

// defaultWrapWidth is used before the first WindowSizeMsg arrives.
const defaultWrapWidth = 80

// renderTranscript renders the full message list for the viewport. The last
// message is drawn as tentative while a send is awaiting its reply.
func renderTranscript(theme *styles.Theme, renderer *glamour.TermRenderer, msgs []model.Message, sending bool, width int) string {
	if len(msgs) == 0 {
		return theme.HistoryEmpty.Render("No messages yet. Ask the assistant anything about your health.")
	}

	var b strings.Builder
	for i, msg := range msgs {
		tentative := sending && i == len(msgs)-1 && msg.Role == model.RoleUser
		b.WriteString(renderMessage(theme, renderer, msg, tentative, width))
		b.WriteString("\n")
	}
	return b.String()
}

func renderMessage(theme *styles.Theme, renderer *glamour.TermRenderer, msg model.Message, tentative bool, width int) string {
	label := theme.RoleLabel.Render(msg.Role.DisplayName())

	bubbleWidth := width - 8
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	var bubble string
	switch {
	case tentative:
		bubble = theme.PendingBubble.MaxWidth(bubbleWidth).Render(msg.Text)
	case msg.Role == model.RoleUser:
		bubble = theme.UserBubble.MaxWidth(bubbleWidth).Render(msg.Text)
	default:
		bubble = theme.BotBubble.MaxWidth(bubbleWidth).Render(renderMarkdown(renderer, msg.Text))
	}

	return label + "\n" + bubble + "\n"
}

// renderMarkdown renders assistant text as markdown, degrading to the raw
// text when the renderer is unavailable or chokes.
func renderMarkdown(renderer *glamour.TermRenderer, text string) string {
	if renderer == nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
