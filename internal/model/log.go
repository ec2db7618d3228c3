// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation transcript.
package model

// =============================================================================
// TURN LOG
// =============================================================================

// TurnLog is the ordered turn sequence plus the per-assistant-turn statistics
// side table. All mutations are synchronous and total; there are no
// partial-failure states. The alternation invariant (even=user, odd=assistant)
// is verified at this boundary: a mutation that would break it is a no-op and
// returns false.
//
// TurnLog is not safe for concurrent use; the session controller serializes
// access to it.
type TurnLog struct {
	turns []Turn
	stats map[int]GenerationStats
}

// NewTurnLog creates an empty turn log.
func NewTurnLog() *TurnLog {
	return &TurnLog{
		stats: make(map[int]GenerationStats),
	}
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Append adds a turn at the end of the sequence. Returns false (and leaves the
// log untouched) if the turn's role does not match the parity of its index.
func (l *TurnLog) Append(turn Turn) bool {
	if turn.Role != RoleForIndex(len(l.turns)) {
		return false
	}
	l.turns = append(l.turns, turn)
	return true
}

// ReplaceFrom truncates the sequence to index (exclusive) and appends the given
// turn there. Returns false if index is out of range or the role does not match
// the index parity.
func (l *TurnLog) ReplaceFrom(index int, turn Turn) bool {
	if index < 0 || index > len(l.turns) {
		return false
	}
	if turn.Role != RoleForIndex(index) {
		return false
	}
	l.turns = append(l.turns[:index], turn)
	return true
}

// AppendText appends streamed text to the turn at index.
func (l *TurnLog) AppendText(index int, text string) {
	if index < 0 || index >= len(l.turns) {
		return
	}
	l.turns[index].Text += text
}

// SetStats records generation statistics for the assistant turn at index.
func (l *TurnLog) SetStats(index int, stats GenerationStats) {
	l.stats[index] = stats
}

// ClearStatsFrom removes every statistics entry whose index is >= index.
func (l *TurnLog) ClearStatsFrom(index int) {
	for i := range l.stats {
		if i >= index {
			delete(l.stats, i)
		}
	}
}

// Reset clears the sequence and all statistics.
func (l *TurnLog) Reset() {
	l.turns = l.turns[:0]
	l.stats = make(map[int]GenerationStats)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Len returns the number of turns.
func (l *TurnLog) Len() int {
	return len(l.turns)
}

// Turn returns the turn at index and whether it exists.
func (l *TurnLog) Turn(index int) (Turn, bool) {
	if index < 0 || index >= len(l.turns) {
		return Turn{}, false
	}
	return l.turns[index], true
}

// Turns returns a copy of the turn sequence.
func (l *TurnLog) Turns() []Turn {
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Stats returns the statistics for the turn at index and whether they exist.
func (l *TurnLog) Stats(index int) (GenerationStats, bool) {
	s, ok := l.stats[index]
	return s, ok
}

// AllStats returns a copy of the statistics side table.
func (l *TurnLog) AllStats() map[int]GenerationStats {
	out := make(map[int]GenerationStats, len(l.stats))
	for i, s := range l.stats {
		out[i] = s
	}
	return out
}
