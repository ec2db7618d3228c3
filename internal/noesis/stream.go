// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package noesis provides the HTTP client for the NOESIS chat backend.
package noesis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// =============================================================================
// STREAM EVENTS
// =============================================================================

// EventKind discriminates the variants of StreamEvent.
type EventKind int

const (
	// EventToken carries a non-empty text fragment to append to the current
	// assistant turn.
	EventToken EventKind = iota

	// EventStats carries the server-reported generation statistics from a
	// terminal record. Emitted at most once, immediately before EventEnd,
	// and only when the terminal record carried both numeric fields.
	EventStats

	// EventConversationID carries the server-assigned conversation id from
	// the first record that names one. Emitted at most once per stream.
	EventConversationID

	// EventEnd marks stream termination, whether by an explicit terminal
	// record or by the body ending without one. Always the last event.
	EventEnd
)

// StreamEvent is one decoded event from a generation stream. Kind selects
// which of the payload fields is meaningful.
type StreamEvent struct {
	Kind            EventKind
	Token           string
	TotalTokens     int
	TokensPerSecond float64
	ConversationID  string
}

// record is the decoded form of one "data: <json>" line. Pointer fields
// distinguish absent from zero.
type record struct {
	Token           string   `json:"token"`
	ConversationID  *string  `json:"conversation_id"`
	Done            bool     `json:"done"`
	TotalTokens     *int     `json:"total_tokens"`
	TokensPerSecond *float64 `json:"tokens_per_second"`
}

// =============================================================================
// DECODER
// =============================================================================

const dataPrefix = "data: "

// Decoder incrementally decodes a generation stream body into StreamEvents.
//
// Chunks arrive at arbitrary boundaries; the decoder splits on newlines and
// holds the trailing partial line until the next chunk (or Close) completes
// it, so the event sequence produced for a given byte stream is identical no
// matter how the bytes were chunked. Lines that do not carry the record
// prefix, or whose payload is not valid JSON, are skipped without an event.
//
// After a terminal record the decoder is done: remaining input is discarded
// and no further events are produced.
type Decoder struct {
	pending string
	done    bool

	// haveConversationID latches once an id is known, whether supplied by
	// the caller up front or observed in the stream. Later ids are ignored.
	haveConversationID bool
}

// NewDecoder creates a decoder for one stream body. haveConversationID is
// true when the request already named a conversation id, in which case the
// stream's id announcements carry no new information and are suppressed.
func NewDecoder(haveConversationID bool) *Decoder {
	return &Decoder{haveConversationID: haveConversationID}
}

// Feed appends a chunk of the stream body and returns the events completed by
// it, in order. Safe to call after termination; it returns nil.
func (d *Decoder) Feed(chunk []byte) []StreamEvent {
	if d.done {
		return nil
	}

	d.pending += string(chunk)
	lines := strings.Split(d.pending, "\n")
	d.pending = lines[len(lines)-1]

	var events []StreamEvent
	for _, line := range lines[:len(lines)-1] {
		events = append(events, d.decodeLine(line)...)
		if d.done {
			break
		}
	}
	return events
}

// Close marks the end of the stream body. Any buffered partial line is
// decoded as if newline-terminated, and if no terminal record was seen the
// stream ends normally with a final EventEnd.
func (d *Decoder) Close() []StreamEvent {
	if d.done {
		return nil
	}

	var events []StreamEvent
	if d.pending != "" {
		line := d.pending
		d.pending = ""
		events = append(events, d.decodeLine(line)...)
	}
	if !d.done {
		d.done = true
		events = append(events, StreamEvent{Kind: EventEnd})
	}
	return events
}

// decodeLine decodes one complete line. A single record can produce up to
// three events (conversation id, stats, end); their relative order is fixed.
func (d *Decoder) decodeLine(line string) []StreamEvent {
	line = strings.TrimSuffix(line, "\r")
	if !strings.HasPrefix(line, dataPrefix) {
		return nil
	}

	var rec record
	if err := json.Unmarshal([]byte(line[len(dataPrefix):]), &rec); err != nil {
		// Malformed record: skip the line, keep the stream alive.
		return nil
	}

	var events []StreamEvent

	if rec.ConversationID != nil && *rec.ConversationID != "" && !d.haveConversationID {
		d.haveConversationID = true
		events = append(events, StreamEvent{
			Kind:           EventConversationID,
			ConversationID: *rec.ConversationID,
		})
	}

	if rec.Done {
		// Stats only when the terminal record carries both fields; a
		// partial pair is dropped rather than zero-filled.
		if rec.TotalTokens != nil && rec.TokensPerSecond != nil {
			events = append(events, StreamEvent{
				Kind:            EventStats,
				TotalTokens:     *rec.TotalTokens,
				TokensPerSecond: *rec.TokensPerSecond,
			})
		}
		d.done = true
		events = append(events, StreamEvent{Kind: EventEnd})
		return events
	}

	if rec.Token != "" {
		events = append(events, StreamEvent{Kind: EventToken, Token: rec.Token})
	}
	return events
}

// =============================================================================
// READ LOOP
// =============================================================================

// readBufSize is the chunk size for draining a stream body.
const readBufSize = 4096

// drain reads the stream body to completion, delivering each decoded event to
// fn in order. It returns nil on normal termination (terminal record or EOF),
// ctx.Err() when the context is cancelled mid-stream, and the read error for
// a broken transport. fn is called from the calling goroutine.
func drain(ctx context.Context, r io.Reader, d *Decoder, fn func(StreamEvent)) error {
	buf := make([]byte, readBufSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := r.Read(buf)
		if n > 0 {
			for _, ev := range d.Feed(buf[:n]) {
				fn(ev)
				if ev.Kind == EventEnd {
					return nil
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				for _, ev := range d.Close() {
					fn(ev)
				}
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
}
