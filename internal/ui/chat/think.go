// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the noesis TUI.
package chat

import "strings"

// =============================================================================
// THINK BLOCK EXTRACTION
// =============================================================================

const (
	thinkStartTag = "<think>"
	thinkEndTag   = "</think>"
)

// splitThinking separates a reasoning model's think block from the reply
// text. The first <think> opens the block and the first </think> closes it;
// a block still open (the model is mid-thought while streaming) runs to the
// end of the text. Both parts are whitespace-trimmed. Text without a start
// tag is returned unchanged with no thinking part.
func splitThinking(text string) (display, thinking string) {
	start := strings.Index(text, thinkStartTag)
	if start == -1 {
		return text, ""
	}

	rest := text[start+len(thinkStartTag):]
	end := strings.Index(rest, thinkEndTag)
	if end == -1 {
		return strings.TrimSpace(text[:start]), strings.TrimSpace(rest)
	}

	display = text[:start] + rest[end+len(thinkEndTag):]
	return strings.TrimSpace(display), strings.TrimSpace(rest[:end])
}
