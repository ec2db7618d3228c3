// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the noesis TUI.
package chat

import "github.com/noesislabs/noesis-tui/internal/config"

// =============================================================================
// TEA MESSAGES
// =============================================================================

// EngineUpdatedMsg signals that the session controller's observable state
// changed. The main function wires the controller's change callback to
// program.Send with this message.
type EngineUpdatedMsg struct{}

// ConfigReloadedMsg carries a freshly reloaded configuration from the file
// watcher.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// StatusMsg sets a transient line in the status bar.
type StatusMsg struct {
	Text  string
	IsErr bool
}

// opDoneMsg reports the outcome of an asynchronous controller operation
// (conversation select/create/delete, directory refresh).
type opDoneMsg struct {
	op  string
	err error
}
