// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"
)

func TestToastIDsUnique(t *testing.T) {
	a := NewErrorToast("one")
	b := NewErrorToast("two")
	if a.ID == b.ID {
		t.Errorf("toast IDs should be unique, both = %d", a.ID)
	}
}

func TestToastExpiry(t *testing.T) {
	toast := NewStatusToast("hello")
	if toast.IsExpired() {
		t.Error("fresh toast should not be expired")
	}

	toast.CreatedAt = time.Now().Add(-DefaultToastDuration - time.Second)
	if !toast.IsExpired() {
		t.Error("old toast should be expired")
	}
}

func TestToastManager_Sweep(t *testing.T) {
	m := NewToastManager()
	m.Push(NewErrorToast("fresh"))

	stale := NewStatusToast("stale")
	stale.CreatedAt = time.Now().Add(-time.Minute)
	m.Push(stale)

	if m.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", m.Count())
	}
	m.Sweep()
	if m.Count() != 1 {
		t.Errorf("Count() after sweep = %d, want 1", m.Count())
	}
}

func TestToastManager_Dismiss(t *testing.T) {
	m := NewToastManager()
	m.Push(NewErrorToast("first"))
	m.Push(NewErrorToast("second"))

	m.Dismiss()
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}
	m.Dismiss()
	m.Dismiss() // no-op on empty
	if m.Active() {
		t.Error("manager should be empty")
	}
}

func TestToastManager_View(t *testing.T) {
	m := NewToastManager()
	if m.View(80) != "" {
		t.Error("empty manager should render nothing")
	}

	m.Push(NewErrorToast("send failed"))
	out := m.View(80)
	if !strings.Contains(out, "send failed") {
		t.Errorf("View() missing message: %q", out)
	}
}
