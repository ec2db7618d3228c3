// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the noesis TUI.
package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/noesislabs/noesis-tui/internal/config"
	"github.com/noesislabs/noesis-tui/internal/session"
	"github.com/noesislabs/noesis-tui/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Engine
	controller *session.Controller

	// Configuration snapshot; replaced on hot reload
	cfg *config.Config

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Key bindings
	keyMap KeyMap

	// Sidebar
	sidebarVisible bool
	sidebarIndex   int

	// Think blocks are extracted from replies and collapsed by default.
	thinkingOpen bool

	// Transient status line
	statusMsg   string
	statusIsErr bool

	ready bool
}

// New creates the chat view over a session controller.
func New(controller *session.Controller, cfg *config.Config, theme *styles.Theme) Model {
	input := textinput.New()
	input.Placeholder = "ENTER TEXT..."
	input.CharLimit = 0
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.StatusStream

	return Model{
		controller:     controller,
		cfg:            cfg,
		theme:          theme,
		input:          input,
		spinner:        sp,
		keyMap:         DefaultKeyMap(),
		sidebarVisible: cfg.UI.SidebarVisible,
	}
}

// Init starts the spinner and the initial directory refresh.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		textinput.Blink,
		refreshDirectoryCmd(m.controller),
	)
}
