// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"testing"
	"time"

	"github.com/medchat/medchat-tui/internal/model"
)

func sampleSessions() []model.Session {
	return []model.Session{
		{ID: "old", Timestamp: time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)},
		{ID: "new", Timestamp: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)},
		{ID: "mid", Timestamp: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
	}
}

func TestSetSessions_SortsAndSelectsMostRecent(t *testing.T) {
	l := NewList()
	l.SetSessions(sampleSessions())

	got := l.Sessions()
	for i, want := range []string{"new", "mid", "old"} {
		if got[i].ID != want {
			t.Errorf("sessions[%d] = %q, want %q", i, got[i].ID, want)
		}
	}
	if l.SelectedID() != "new" {
		t.Errorf("SelectedID() = %q, want most recent", l.SelectedID())
	}
}

func TestSetSessions_KeepsExistingSelection(t *testing.T) {
	l := NewList()
	l.SetSessions(sampleSessions())
	l.Select("old")

	// A refresh must not steal the selection while it still exists.
	l.SetSessions(sampleSessions())
	if l.SelectedID() != "old" {
		t.Errorf("SelectedID() = %q, want old", l.SelectedID())
	}
}

func TestSetSessions_DropsVanishedSelection(t *testing.T) {
	l := NewList()
	l.SetSessions(sampleSessions())
	l.Select("mid")

	l.SetSessions(sampleSessions()[:2]) // old, new; mid is gone
	if l.SelectedID() != "new" {
		t.Errorf("SelectedID() = %q, want fallback to most recent", l.SelectedID())
	}
}

func TestSelect_NewChatWinsOverSort(t *testing.T) {
	l := NewList()
	l.SetSessions(sampleSessions())

	// After newChat() the created id is selected explicitly, even though the
	// sort would place a different session first.
	l.Select("abc123")
	if l.SelectedID() != "abc123" {
		t.Errorf("SelectedID() = %q, want abc123", l.SelectedID())
	}

	// The next fetch includes it; selection sticks.
	withNew := append(sampleSessions(), model.Session{
		ID:        "abc123",
		Timestamp: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
	})
	l.SetSessions(withNew)
	if l.SelectedID() != "abc123" {
		t.Errorf("SelectedID() after refresh = %q, want abc123", l.SelectedID())
	}
}

func TestRemove_FallsBackToMostRecent(t *testing.T) {
	l := NewList()
	l.SetSessions(sampleSessions())
	l.Select("new")

	l.Remove("new")
	if l.SelectedID() != "mid" {
		t.Errorf("SelectedID() = %q, want mid", l.SelectedID())
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
}

func TestRemove_LastSessionLeavesNone(t *testing.T) {
	l := NewList()
	l.SetSessions([]model.Session{{ID: "only"}})

	l.Remove("only")
	if !l.Empty() {
		t.Error("list should be empty")
	}
	if l.SelectedID() != "" {
		t.Errorf("SelectedID() = %q, want none", l.SelectedID())
	}
	if l.Selected() != nil {
		t.Error("Selected() should be nil")
	}
}

func TestRemove_UnselectedKeepsSelection(t *testing.T) {
	l := NewList()
	l.SetSessions(sampleSessions())
	l.Select("old")

	l.Remove("mid")
	if l.SelectedID() != "old" {
		t.Errorf("SelectedID() = %q, want old", l.SelectedID())
	}
}

func TestSelectNextPrev(t *testing.T) {
	l := NewList()
	l.SetSessions(sampleSessions())

	l.SelectNext()
	if l.SelectedID() != "mid" {
		t.Errorf("after next, SelectedID() = %q", l.SelectedID())
	}
	l.SelectNext()
	l.SelectNext() // already at the bottom
	if l.SelectedID() != "old" {
		t.Errorf("SelectedID() = %q, want old", l.SelectedID())
	}

	l.SelectPrev()
	l.SelectPrev()
	l.SelectPrev() // already at the top
	if l.SelectedID() != "new" {
		t.Errorf("SelectedID() = %q, want new", l.SelectedID())
	}
}

func TestOrderingInvariant(t *testing.T) {
	l := NewList()
	l.SetSessions(sampleSessions())

	got := l.Sessions()
	for i := 0; i < len(got)-1; i++ {
		if got[i].Timestamp.Before(got[i+1].Timestamp) {
			t.Errorf("sessions[%d] older than sessions[%d]", i, i+1)
		}
	}
}
