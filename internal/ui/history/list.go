// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history holds the ordered list of past chat sessions and the
// selection state the rest of the UI keys off.
package history

import (
	"github.com/medchat/medchat-tui/internal/model"
)

// List is the history view-model. Sessions are kept sorted most recent
// first; exactly one session is selected at a time, or none when the list
// is empty.
//
// Selection rules:
//   - a fresh listing defaults to the most recent session, keeping the
//     current selection when it still exists
//   - after creating a session, that session is selected explicitly, even
//     though the sort might place another first
//   - after closing a session, selection falls back to the most recent
//     remaining session, or none
type List struct {
	sessions []model.Session
	selected string
}

// NewList creates an empty history list.
func NewList() *List {
	return &List{}
}

// SetSessions replaces the listing with a fresh fetch. The slice is resorted
// defensively; the backend's order is not trusted.
func (l *List) SetSessions(sessions []model.Session) {
	l.sessions = sessions
	model.SortSessions(l.sessions)

	if l.selected != "" && l.indexOf(l.selected) >= 0 {
		return
	}
	l.selectMostRecent()
}

// Sessions returns the sorted listing.
func (l *List) Sessions() []model.Session {
	return l.sessions
}

// Len returns the number of sessions.
func (l *List) Len() int {
	return len(l.sessions)
}

// Empty reports whether there are no sessions.
func (l *List) Empty() bool {
	return len(l.sessions) == 0
}

// SelectedID returns the selected session's id, or "" when none.
func (l *List) SelectedID() string {
	return l.selected
}

// Selected returns the selected session, or nil when none.
func (l *List) Selected() *model.Session {
	if i := l.indexOf(l.selected); i >= 0 {
		return &l.sessions[i]
	}
	return nil
}

// SelectedIndex returns the selected session's position, or -1.
func (l *List) SelectedIndex() int {
	return l.indexOf(l.selected)
}

// Select selects the session with the given id. Unknown ids still set the
// selection: a just-created session is selected before the listing that
// contains it arrives.
func (l *List) Select(id string) {
	l.selected = id
}

// SelectNext moves the selection one session down the list.
func (l *List) SelectNext() {
	if len(l.sessions) == 0 {
		return
	}
	i := l.indexOf(l.selected)
	if i < 0 || i == len(l.sessions)-1 {
		return
	}
	l.selected = l.sessions[i+1].ID
}

// SelectPrev moves the selection one session up the list.
func (l *List) SelectPrev() {
	if len(l.sessions) == 0 {
		return
	}
	i := l.indexOf(l.selected)
	if i <= 0 {
		return
	}
	l.selected = l.sessions[i-1].ID
}

// Remove drops the session with the given id from the local listing and, if
// it was selected, falls back to the most recent remaining session or none.
// Called after a confirmed close; the next fetch re-mirrors server state.
func (l *List) Remove(id string) {
	i := l.indexOf(id)
	if i < 0 {
		return
	}
	l.sessions = append(l.sessions[:i], l.sessions[i+1:]...)
	if l.selected == id {
		l.selectMostRecent()
	}
}

// Clear empties the listing and the selection.
func (l *List) Clear() {
	l.sessions = nil
	l.selected = ""
}

func (l *List) selectMostRecent() {
	if len(l.sessions) == 0 {
		l.selected = ""
		return
	}
	l.selected = l.sessions[0].ID
}

func (l *List) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range l.sessions {
		if l.sessions[i].ID == id {
			return i
		}
	}
	return -1
}
