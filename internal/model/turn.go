// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation transcript.
package model

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// RoleForIndex returns the role a turn at the given index must carry.
// Even indices are user turns, odd indices are assistant turns.
func RoleForIndex(index int) Role {
	if index%2 == 0 {
		return RoleUser
	}
	return RoleAssistant
}

// =============================================================================
// TURN TYPE
// =============================================================================

// Turn is a single message in the alternating conversation sequence.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// NewUserTurn creates a user turn.
func NewUserTurn(text string) Turn {
	return Turn{Role: RoleUser, Text: text}
}

// NewAssistantTurn creates an empty assistant turn. The text grows as tokens
// stream in.
func NewAssistantTurn() Turn {
	return Turn{Role: RoleAssistant}
}

// IsEmpty returns true if the turn has no text.
func (t Turn) IsEmpty() bool {
	return len(t.Text) == 0
}

// =============================================================================
// GENERATION STATISTICS
// =============================================================================

// GenerationStats holds the server-reported statistics for one assistant turn.
// Recorded only when a stream terminates with both fields present in the
// terminal record; never recorded on error or cancellation.
type GenerationStats struct {
	TotalTokens     int     `json:"total_tokens"`
	TokensPerSecond float64 `json:"tokens_per_second"`
}
