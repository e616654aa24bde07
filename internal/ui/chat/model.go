// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/medchat/medchat-tui/internal/api"
	"github.com/medchat/medchat-tui/internal/config"
	"github.com/medchat/medchat-tui/internal/session"
	"github.com/medchat/medchat-tui/internal/storage"
	"github.com/medchat/medchat-tui/internal/ui/components"
	"github.com/medchat/medchat-tui/internal/ui/history"
	"github.com/medchat/medchat-tui/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateIdle    State = iota // Ready for input
	StateSending              // A send is awaiting the assistant's reply
	StateLoading              // History fetch or session operation in flight
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the authenticated chat screen: the
// history sidebar, the conversation pane, and the input line.
type Model struct {
	// State
	state State

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Backend access
	client  *api.Client
	session *session.Store
	cache   *storage.Cache // optional local history mirror, may be nil

	// View-models
	conversation *Conversation
	historyList  *history.List

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  components.Spinner
	toasts   components.ToastManager
	renderer *glamour.TermRenderer

	// Key bindings
	keyMap KeyMap

	// Status
	backendUp bool
	cfg       *config.Config
}

// New creates the chat screen. The cache may be nil; history then lives only
// in memory for the life of the process.
func New(cfg *config.Config, client *api.Client, sess *session.Store, cache *storage.Cache) Model {
	theme := styles.NewTheme()

	input := textinput.New()
	input.Placeholder = "Describe your symptoms or ask a question..."
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.PlaceholderStyle = theme.InputPlaceholder
	input.CharLimit = 4000
	input.Focus()

	vp := viewport.New(0, 0)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(defaultWrapWidth),
	)
	if err != nil {
		// Markdown rendering degrades to plain text.
		renderer = nil
	}

	return Model{
		state:        StateIdle,
		theme:        theme,
		client:       client,
		session:      sess,
		cache:        cache,
		conversation: NewConversation(),
		historyList:  history.NewList(),
		viewport:     vp,
		input:        input,
		spinner:      components.NewSendingSpinner(),
		toasts:       components.NewToastManager(),
		renderer:     renderer,
		keyMap:       DefaultKeyMap(),
		backendUp:    true,
		cfg:          cfg,
	}
}

// Init loads cached history immediately and kicks off the first fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadCachedHistoryCmd(),
		m.fetchHistoryCmd(),
		m.healthCmd(),
	)
}

// State returns the current view state.
func (m Model) State() State {
	return m.state
}

// Conversation exposes the conversation view-model for the app shell.
func (m Model) Conversation() *Conversation {
	return m.conversation
}

// HistoryList exposes the history view-model for the app shell.
func (m Model) HistoryList() *history.List {
	return m.historyList
}
