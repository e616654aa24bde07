// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides shared UI components for the medchat TUI.
//
// This file implements non-blocking toasts. Unlike modal error dialogs,
// toasts appear in a corner and auto-dismiss, so a failed send never blocks
// typing the next message.
package components

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/medchat/medchat-tui/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	// ToastKindStatus is an informational toast
	ToastKindStatus ToastKind = iota
	// ToastKindError is an error toast
	ToastKindError
	// ToastKindWarning is a warning toast
	ToastKindWarning
	// ToastKindSuccess is a success toast
	ToastKindSuccess
)

// DefaultToastDuration is the auto-dismiss duration for status toasts.
const DefaultToastDuration = 4 * time.Second

// ErrorToastDuration is the auto-dismiss duration for error toasts
// (longer, so the message can be read).
const ErrorToastDuration = 8 * time.Second

// =============================================================================
// TOAST
// =============================================================================

// Toast represents one non-blocking notification.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

var (
	toastIDMu   sync.Mutex
	lastToastID int
)

func generateToastID() int {
	toastIDMu.Lock()
	defer toastIDMu.Unlock()
	lastToastID++
	return lastToastID
}

// NewErrorToast creates an error toast.
func NewErrorToast(message string) Toast {
	return Toast{
		ID:        generateToastID(),
		Message:   message,
		Kind:      ToastKindError,
		CreatedAt: time.Now(),
		Duration:  ErrorToastDuration,
	}
}

// NewStatusToast creates an informational toast.
func NewStatusToast(message string) Toast {
	return Toast{
		ID:        generateToastID(),
		Message:   message,
		Kind:      ToastKindStatus,
		CreatedAt: time.Now(),
		Duration:  DefaultToastDuration,
	}
}

// NewSuccessToast creates a success toast.
func NewSuccessToast(message string) Toast {
	return Toast{
		ID:        generateToastID(),
		Message:   message,
		Kind:      ToastKindSuccess,
		CreatedAt: time.Now(),
		Duration:  DefaultToastDuration,
	}
}

// IsExpired returns true if the toast should be dismissed.
func (t *Toast) IsExpired() bool {
	return time.Since(t.CreatedAt) >= t.Duration
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastExpiredMsg asks the manager to sweep expired toasts.
type ToastExpiredMsg struct{}

// ToastManager holds the active toasts, newest last.
type ToastManager struct {
	toasts []Toast
}

// NewToastManager creates an empty toast manager.
func NewToastManager() ToastManager {
	return ToastManager{}
}

// Push adds a toast and returns the command that will trigger its expiry.
func (m *ToastManager) Push(t Toast) tea.Cmd {
	m.toasts = append(m.toasts, t)
	return tea.Tick(t.Duration, func(time.Time) tea.Msg {
		return ToastExpiredMsg{}
	})
}

// Sweep drops every expired toast.
func (m *ToastManager) Sweep() {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.IsExpired() {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

// Dismiss removes the oldest toast, if any.
func (m *ToastManager) Dismiss() {
	if len(m.toasts) > 0 {
		m.toasts = m.toasts[1:]
	}
}

// Active reports whether any toast is showing.
func (m *ToastManager) Active() bool {
	return len(m.toasts) > 0
}

// Count returns the number of active toasts.
func (m *ToastManager) Count() int {
	return len(m.toasts)
}

// View renders the active toasts stacked vertically.
func (m *ToastManager) View(maxWidth int) string {
	if len(m.toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		rendered = append(rendered, renderToast(t, maxWidth))
	}
	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

func renderToast(t Toast, maxWidth int) string {
	var border lipgloss.AdaptiveColor
	var label string
	switch t.Kind {
	case ToastKindError:
		border = styles.Rose
		label = styles.StatusIndicators.Error
	case ToastKindWarning:
		border = styles.Amber
		label = styles.StatusIndicators.Warning
	case ToastKindSuccess:
		border = styles.Emerald
		label = styles.StatusIndicators.Success
	default:
		border = styles.Teal
		label = styles.StatusIndicators.Info
	}

	style := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
	if maxWidth > 4 {
		style = style.MaxWidth(maxWidth)
	}
	return style.Render(label + " " + t.Message)
}
