// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{
			name: "rfc3339 with zone",
			in:   "2025-11-03T14:30:00+00:00",
			want: time.Date(2025, 11, 3, 14, 30, 0, 0, time.UTC),
		},
		{
			name: "naive isoformat with microseconds",
			in:   "2025-11-03T14:30:00.123456",
			want: time.Date(2025, 11, 3, 14, 30, 0, 123456000, time.UTC),
		},
		{
			name: "naive isoformat without fraction",
			in:   "2025-11-03T14:30:00",
			want: time.Date(2025, 11, 3, 14, 30, 0, 0, time.UTC),
		},
		{
			name: "garbage yields zero time",
			in:   "not-a-timestamp",
			want: time.Time{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseTimestamp(tc.in)
			if !got.Equal(tc.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestSortSessions_DescendingAndStable(t *testing.T) {
	t0 := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	sessions := []Session{
		{ID: "a", Timestamp: t0.Add(1 * time.Hour)},
		{ID: "b", Timestamp: t0.Add(3 * time.Hour)},
		{ID: "c", Timestamp: t0.Add(2 * time.Hour)},
		{ID: "d", Timestamp: t0.Add(2 * time.Hour)}, // ties with c, must stay after it
	}

	SortSessions(sessions)

	// Each item's timestamp must be >= the next item's.
	for i := 0; i < len(sessions)-1; i++ {
		if sessions[i].Timestamp.Before(sessions[i+1].Timestamp) {
			t.Errorf("sessions[%d] (%v) before sessions[%d] (%v)",
				i, sessions[i].Timestamp, i+1, sessions[i+1].Timestamp)
		}
	}

	wantOrder := []string{"b", "c", "d", "a"}
	for i, want := range wantOrder {
		if sessions[i].ID != want {
			t.Errorf("sessions[%d].ID = %q, want %q", i, sessions[i].ID, want)
		}
	}
}

func TestSession_Title(t *testing.T) {
	s := Session{Messages: []Message{
		NewBotMessage("Quel âge a la personne concernée ?"),
		NewUserMessage("j'ai   de la\nfièvre"),
	}}
	if got := s.Title(); got != "j'ai de la fièvre" {
		t.Errorf("Title() = %q", got)
	}

	empty := Session{}
	if got := empty.Title(); got != "New conversation" {
		t.Errorf("Title() on empty session = %q", got)
	}
}

func TestSession_Clone(t *testing.T) {
	orig := Session{
		ID:        "abc123",
		Timestamp: time.Now(),
		Messages:  []Message{NewUserMessage("bonjour")},
	}

	clone := orig.Clone()
	clone.Messages = append(clone.Messages, NewBotMessage("Bonjour !"))

	if len(orig.Messages) != 1 {
		t.Errorf("Clone() shares message slice with original")
	}
	if clone.ID != orig.ID {
		t.Errorf("Clone() ID = %q, want %q", clone.ID, orig.ID)
	}
}

func TestRole_DisplayName(t *testing.T) {
	if RoleUser.DisplayName() != "You" {
		t.Errorf("RoleUser.DisplayName() = %q", RoleUser.DisplayName())
	}
	if RoleBot.DisplayName() != "Assistant" {
		t.Errorf("RoleBot.DisplayName() = %q", RoleBot.DisplayName())
	}
}

func TestMessage_Preview(t *testing.T) {
	m := NewUserMessage("mal de tête persistant depuis trois jours")
	if got := m.Preview(10); got != "mal de ..." {
		t.Errorf("Preview(10) = %q", got)
	}
	if got := m.Preview(100); got != m.Text {
		t.Errorf("Preview(100) = %q, want full text", got)
	}
}
