// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/medchat/medchat-tui/internal/model"
)

// Conversation holds the message list of the selected session and the
// optimistic-send state machine. Sends are three-phase: apply the tentative
// user message, await the backend, then commit the reply or revert to the
// snapshot taken before the send.
//
// At most one send is in flight; a second submit while sending is a no-op.
// Results are matched by sequence number so a reply that arrives after the
// user switched sessions (or after a rollback) is discarded as stale.
type Conversation struct {
	id       string
	messages []model.Message

	pending *pendingSend
	seq     uint64
}

// pendingSend is the in-flight send: the tentative text, the exact message
// list to restore on failure, and the sequence number that pairs it with
// its result.
type pendingSend struct {
	seq      uint64
	text     string
	snapshot []model.Message
}

// NewConversation creates an empty conversation with no session selected.
func NewConversation() *Conversation {
	return &Conversation{}
}

// SetSession replaces the displayed session. Any in-flight send becomes
// stale: its result will carry an old sequence number and be dropped.
func (c *Conversation) SetSession(s *model.Session) {
	c.pending = nil
	if s == nil {
		c.id = ""
		c.messages = nil
		return
	}
	clone := s.Clone()
	c.id = clone.ID
	c.messages = clone.Messages
}

// ID returns the selected session's identifier, or "" when none.
func (c *Conversation) ID() string {
	return c.id
}

// Messages returns the displayed message list, including the tentative
// outgoing message while a send is in flight.
func (c *Conversation) Messages() []model.Message {
	return c.messages
}

// Sending reports whether a send is in flight.
func (c *Conversation) Sending() bool {
	return c.pending != nil
}

// PendingText returns the text of the in-flight send, or "".
func (c *Conversation) PendingText() string {
	if c.pending == nil {
		return ""
	}
	return c.pending.text
}

// BeginSend applies the optimistic update for text and returns the sequence
// number its result must carry. Returns ok=false, without changing state,
// when a send is already in flight or the text is blank.
func (c *Conversation) BeginSend(text string) (seq uint64, ok bool) {
	if c.pending != nil || strings.TrimSpace(text) == "" {
		return 0, false
	}

	snapshot := make([]model.Message, len(c.messages))
	copy(snapshot, c.messages)

	c.seq++
	c.pending = &pendingSend{
		seq:      c.seq,
		text:     text,
		snapshot: snapshot,
	}
	c.messages = append(c.messages, model.NewUserMessage(text))
	return c.seq, true
}

// CompleteSend commits the reply for the send identified by seq. A stale or
// unknown sequence number leaves state untouched and returns false.
func (c *Conversation) CompleteSend(seq uint64, reply string) bool {
	if c.pending == nil || c.pending.seq != seq {
		return false
	}
	c.pending = nil
	c.messages = append(c.messages, model.NewBotMessage(reply))
	return true
}

// FailSend rolls back the send identified by seq: the message list returns
// to its exact pre-send state and the original text is handed back so the
// input field can be repopulated. Stale failures return ok=false.
func (c *Conversation) FailSend(seq uint64) (restored string, ok bool) {
	if c.pending == nil || c.pending.seq != seq {
		return "", false
	}
	restored = c.pending.text
	c.messages = c.pending.snapshot
	c.pending = nil
	return restored, true
}
