// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package noesis provides the HTTP client for the NOESIS chat backend.
package noesis

import "time"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// HistoryEntry is one turn of the projected conversation history sent to the
// generation endpoint when no conversation id provides server-side context.
type HistoryEntry struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Sampling contains the generation parameters for a message request.
// The wire field max_p carries the nucleus-sampling (top-p) cutoff; the
// backend reads it under that name.
type Sampling struct {
	Temperature     float64 `json:"temperature"`
	MaxTokens       int     `json:"max_tokens"`
	MinP            float64 `json:"min_p"`
	TopP            float64 `json:"max_p"`
	TopK            int     `json:"top_k"`
	PresencePenalty float64 `json:"presence_penalty"`
}

// MessageRequest is the request body for POST /message.
//
// Exactly one of ConversationID and History carries the context: when the
// server tracks the conversation by id, History is omitted and the server is
// the source of truth; otherwise the client sends the projected history.
type MessageRequest struct {
	Message        string         `json:"message"`
	ConversationID string         `json:"conversation_id,omitempty"`
	History        []HistoryEntry `json:"history,omitempty"`
	Sampling
}

// =============================================================================
// DIRECTORY TYPES
// =============================================================================

// Conversation is the server-owned conversation metadata, referenced by an
// opaque id. The client holds it only for directory display.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// conversationMessages is the response body of GET /conversations/{id}/messages.
type conversationMessages struct {
	Messages []HistoryEntry `json:"messages"`
}

// conversationCreated is the response body of POST /conversations.
type conversationCreated struct {
	ConversationID string `json:"conversation_id"`
}
