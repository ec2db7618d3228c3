// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the noesis TUI.
//
// The view is a Bubble Tea model layered over the session controller: it
// renders the controller's observable state (turn list, streaming flag,
// per-reply statistics, conversation sidebar) and translates key presses and
// slash commands into controller operations. The controller pushes changes
// back into the Bubble Tea loop via EngineUpdatedMsg.
package chat
