// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session orchestrates the conversation lifecycle: submitting a
// message, editing a past user turn and regenerating everything after it,
// and switching between server-side conversations.
//
// The Controller is a two-state machine (Idle, Streaming) that owns the turn
// log, the per-turn generation statistics, the current conversation id, and
// the single-in-flight-stream invariant. Operations that arrive in the wrong
// state are safe no-ops rather than errors; the UI gates them too, but the
// controller is the authority.
package session
