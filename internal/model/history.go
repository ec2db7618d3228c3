// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation transcript.
package model

import (
	"github.com/noesislabs/noesis-tui/internal/noesis"
)

// =============================================================================
// HISTORY PROJECTION
// =============================================================================

// ProjectHistory derives the wire-format conversation history from the prefix
// of turns strictly before uptoExclusive. It walks user/assistant pairs
// (2i, 2i+1) and includes an entry only when its text is non-empty, so the
// result is a well-formed alternating history even while the most recent
// assistant turn is still empty or absent.
//
// The projection is recomputed for every request and never stored. It is
// omitted from the wire payload entirely when the server tracks history by
// conversation id.
func ProjectHistory(turns []Turn, uptoExclusive int) []noesis.HistoryEntry {
	if uptoExclusive > len(turns) {
		uptoExclusive = len(turns)
	}

	var history []noesis.HistoryEntry
	for i := 0; 2*i < uptoExclusive; i++ {
		user := turns[2*i]
		if !user.IsEmpty() {
			history = append(history, noesis.HistoryEntry{
				Role:    string(RoleUser),
				Content: user.Text,
			})
		}
		if 2*i+1 < uptoExclusive {
			assistant := turns[2*i+1]
			if !assistant.IsEmpty() {
				history = append(history, noesis.HistoryEntry{
					Role:    string(RoleAssistant),
					Content: assistant.Text,
				})
			}
		}
	}

	return history
}
