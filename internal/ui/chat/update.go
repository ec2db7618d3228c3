// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the noesis TUI.
package chat

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all incoming messages for the chat view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case EngineUpdatedMsg:
		m.refreshViewport()
		return m, nil

	case ConfigReloadedMsg:
		m.cfg = msg.Config
		m.setStatus("config reloaded", false)
		return m, nil

	case StatusMsg:
		m.setStatus(msg.Text, msg.IsErr)
		return m, nil

	case opDoneMsg:
		if msg.err != nil {
			m.setStatus(msg.op+" failed: "+msg.err.Error(), true)
		} else if msg.op != "refresh" {
			m.refreshViewport()
			m.clampSidebarIndex()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateComponents(msg)
}

// handleResize recomputes the layout for a new terminal size.
func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	contentWidth := m.width
	if m.sidebarVisible {
		contentWidth -= sidebarWidth
	}

	viewportHeight := m.height - headerHeight - inputHeight - statusHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = viewportHeight
	}
	m.input.Width = contentWidth - 6

	m.refreshViewport()
	return m
}

// handleKey dispatches a key press.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Cancel):
		if m.controller.Streaming() {
			m.controller.CancelStream()
			m.setStatus("generation cancelled", false)
		} else {
			m.statusMsg = ""
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		return m.handleSubmit()

	case key.Matches(msg, m.keyMap.ToggleThink):
		m.thinkingOpen = !m.thinkingOpen
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.ToggleSidebar):
		m.sidebarVisible = !m.sidebarVisible
		return m.handleResize(tea.WindowSizeMsg{Width: m.width, Height: m.height}), nil

	case key.Matches(msg, m.keyMap.NextConv):
		m.sidebarIndex++
		m.clampSidebarIndex()
		return m, nil

	case key.Matches(msg, m.keyMap.PrevConv):
		m.sidebarIndex--
		m.clampSidebarIndex()
		return m, nil

	case key.Matches(msg, m.keyMap.SelectConv):
		conversations := m.controller.Conversations()
		if m.sidebarIndex >= 0 && m.sidebarIndex < len(conversations) {
			return m, selectConversationCmd(m.controller, conversations[m.sidebarIndex].ID)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Up), key.Matches(msg, m.keyMap.Down),
		key.Matches(msg, m.keyMap.PageUp), key.Matches(msg, m.keyMap.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSubmit processes the input line: a slash command or a new message.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := trimInput(m.input.Value())
	if text == "" {
		return m, nil
	}

	if cmd, ok := parseSlashCommand(text); ok {
		return m.handleCommand(cmd)
	}

	if !m.controller.Submit(text) {
		m.setStatus("cannot send while a reply is streaming", true)
		return m, nil
	}
	m.input.Reset()
	m.statusMsg = ""
	m.refreshViewport()
	return m, nil
}

// handleCommand executes a parsed slash command.
func (m Model) handleCommand(cmd slashCommand) (tea.Model, tea.Cmd) {
	switch cmd.name {
	case "edit":
		index, text, ok := parseEditArgs(cmd.args)
		if !ok {
			m.setStatus("usage: /edit <turn> <new text>", true)
			return m, nil
		}
		if !m.controller.EditAndRegenerate(index, text) {
			m.setStatus("cannot edit: not an existing user turn, or busy", true)
			return m, nil
		}
		m.input.Reset()
		m.statusMsg = ""
		m.refreshViewport()
		return m, nil

	case "new":
		m.input.Reset()
		return m, newConversationCmd(m.controller)

	case "delete":
		id := cmd.args
		if id == "" {
			id = m.controller.ConversationID()
		}
		if id == "" {
			m.setStatus("no conversation to delete", true)
			return m, nil
		}
		m.input.Reset()
		return m, deleteConversationCmd(m.controller, id)

	case "quit":
		return m, tea.Quit

	default:
		m.setStatus("unknown command: /"+cmd.name, true)
		return m, nil
	}
}

// updateComponents forwards any other message to the child components.
func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// refreshViewport re-renders the transcript and follows the streaming tail.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderMessages())
	if atBottom || m.controller.Streaming() {
		m.viewport.GotoBottom()
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.statusMsg = text
	m.statusIsErr = isErr
}

func (m *Model) clampSidebarIndex() {
	n := len(m.controller.Conversations())
	if m.sidebarIndex >= n {
		m.sidebarIndex = n - 1
	}
	if m.sidebarIndex < 0 {
		m.sidebarIndex = 0
	}
}
