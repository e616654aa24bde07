// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"sort"
	"strings"
	"time"
)

// Session holds one server-tracked conversation: an identifier, its ordered
// messages, and the time of last activity. The client keeps a read-mostly
// cached copy; the backend owns the record.
type Session struct {
	ID        string    `json:"chat_id"`
	Messages  []Message `json:"messages"`
	Timestamp time.Time `json:"timestamp"`
}

// timestampLayouts are the formats the backend has been observed to emit.
// The API serializes naive UTC datetimes, so the zone-less layout comes
// second and is interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses a session timestamp string from the backend.
// Unparseable values yield the zero time (sorted last) rather than an error;
// a malformed timestamp on one session must not fail the whole history fetch.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Location() == time.UTC || strings.ContainsAny(s, "Zz+") {
				return t
			}
			return t.UTC()
		}
	}
	return time.Time{}
}

// SortSessions orders sessions by timestamp descending (most recent first).
// The sort is stable so equal timestamps keep their server order.
func SortSessions(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Timestamp.After(sessions[j].Timestamp)
	})
}

// LastMessage returns the most recent message, or a zero Message if empty.
func (s *Session) LastMessage() Message {
	if len(s.Messages) == 0 {
		return Message{}
	}
	return s.Messages[len(s.Messages)-1]
}

// MessageCount returns the number of messages.
func (s *Session) MessageCount() int {
	return len(s.Messages)
}

// IsEmpty returns true if there are no messages.
func (s *Session) IsEmpty() bool {
	return len(s.Messages) == 0
}

// Title returns a short label for the session: the first user message
// truncated, or a placeholder for sessions with no user message yet.
func (s *Session) Title() string {
	for _, msg := range s.Messages {
		if msg.Role == RoleUser && msg.Text != "" {
			title := strings.Join(strings.Fields(msg.Text), " ")
			return Message{Role: RoleUser, Text: title}.Preview(50)
		}
	}
	return "New conversation"
}

// Preview returns a one-line preview of the last exchange for list display.
func (s *Session) Preview(maxLen int) string {
	last := s.LastMessage()
	if last.IsEmpty() {
		return "Empty conversation"
	}
	return Message{Role: last.Role, Text: strings.Join(strings.Fields(last.Text), " ")}.Preview(maxLen)
}

// Clone returns a deep copy of the session. View-models copy before applying
// optimistic edits so rollback can restore the cached state exactly.
func (s *Session) Clone() *Session {
	clone := &Session{
		ID:        s.ID,
		Timestamp: s.Timestamp,
		Messages:  make([]Message, len(s.Messages)),
	}
	copy(clone.Messages, s.Messages)
	return clone
}
