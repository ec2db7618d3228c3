// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the noesis TUI.
package chat

import (
	"context"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/noesislabs/noesis-tui/internal/session"
)

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// slashCommand is a parsed "/command args" input line.
type slashCommand struct {
	name string
	args string
}

// trimInput normalizes an input line before interpretation.
func trimInput(s string) string {
	return strings.TrimSpace(s)
}

// parseSlashCommand splits an input line into a command and its argument
// remainder. Returns ok=false for ordinary message text.
func parseSlashCommand(line string) (slashCommand, bool) {
	if !strings.HasPrefix(line, "/") {
		return slashCommand{}, false
	}
	trimmed := strings.TrimPrefix(line, "/")
	name, args, _ := strings.Cut(trimmed, " ")
	if name == "" {
		return slashCommand{}, false
	}
	return slashCommand{
		name: strings.ToLower(name),
		args: strings.TrimSpace(args),
	}, true
}

// parseEditArgs splits "/edit N new text" arguments into the turn index and
// the replacement text.
func parseEditArgs(args string) (int, string, bool) {
	indexStr, text, _ := strings.Cut(args, " ")
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		return 0, "", false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, "", false
	}
	return index, text, true
}

// =============================================================================
// ASYNC CONTROLLER COMMANDS
// =============================================================================

const opTimeout = 30 * time.Second

func refreshDirectoryCmd(c *session.Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return opDoneMsg{op: "refresh", err: c.RefreshDirectory(ctx)}
	}
}

func selectConversationCmd(c *session.Controller, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return opDoneMsg{op: "open", err: c.SelectConversation(ctx, id)}
	}
}

func newConversationCmd(c *session.Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return opDoneMsg{op: "new", err: c.NewConversation(ctx)}
	}
}

func deleteConversationCmd(c *session.Controller, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return opDoneMsg{op: "delete", err: c.DeleteConversation(ctx, id)}
	}
}
