// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package noesis

import (
	"reflect"
	"testing"
)

// decodeAll feeds a complete body through a decoder in the given chunk sizes
// and collects every event, including the Close flush.
func decodeAll(body string, chunkSize int, haveID bool) []StreamEvent {
	d := NewDecoder(haveID)
	var events []StreamEvent
	for i := 0; i < len(body); i += chunkSize {
		end := i + chunkSize
		if end > len(body) {
			end = len(body)
		}
		events = append(events, d.Feed([]byte(body[i:end]))...)
	}
	return append(events, d.Close()...)
}

func TestDecoderTokenSequence(t *testing.T) {
	body := "data: {\"token\": \"Hel\"}\n" +
		"data: {\"token\": \"lo\"}\n" +
		"data: {\"done\": true, \"total_tokens\": 2, \"tokens_per_second\": 41.5}\n"

	events := decodeAll(body, len(body), false)

	want := []StreamEvent{
		{Kind: EventToken, Token: "Hel"},
		{Kind: EventToken, Token: "lo"},
		{Kind: EventStats, TotalTokens: 2, TokensPerSecond: 41.5},
		{Kind: EventEnd},
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %+v, want %+v", events, want)
	}
}

func TestDecoderChunkBoundaryInvariance(t *testing.T) {
	body := "data: {\"conversation_id\": \"c-42\"}\n" +
		"data: {\"token\": \"one \"}\n" +
		"data: {\"token\": \"two\"}\n" +
		"garbage line\n" +
		"data: {not json}\n" +
		"data: {\"token\": \"\"}\n" +
		"data: {\"done\": true, \"total_tokens\": 7, \"tokens_per_second\": 12.25}\n"

	reference := decodeAll(body, len(body), false)

	for _, size := range []int{1, 2, 3, 5, 7, 16, 64} {
		events := decodeAll(body, size, false)
		if !reflect.DeepEqual(events, reference) {
			t.Errorf("chunk size %d: events = %+v, want %+v", size, events, reference)
		}
	}
}

func TestDecoderNaturalEOF(t *testing.T) {
	// No terminal record: the stream ends at EOF and still terminates
	// cleanly with an end event.
	body := "data: {\"token\": \"abc\"}\n"
	events := decodeAll(body, len(body), false)

	want := []StreamEvent{
		{Kind: EventToken, Token: "abc"},
		{Kind: EventEnd},
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %+v, want %+v", events, want)
	}
}

func TestDecoderTrailingPartialLine(t *testing.T) {
	// The body ends mid-line without a newline; Close must still decode it.
	body := "data: {\"token\": \"abc\"}\ndata: {\"token\": \"def\"}"
	events := decodeAll(body, 4, false)

	want := []StreamEvent{
		{Kind: EventToken, Token: "abc"},
		{Kind: EventToken, Token: "def"},
		{Kind: EventEnd},
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %+v, want %+v", events, want)
	}
}

func TestDecoderMalformedRecordsSkipped(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"no prefix", "{\"token\": \"x\"}"},
		{"wrong prefix", "event: {\"token\": \"x\"}"},
		{"invalid json", "data: {\"token\": "},
		{"empty payload", "data: "},
		{"empty token", "data: {\"token\": \"\"}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(false)
			if events := d.Feed([]byte(tt.line + "\n")); len(events) != 0 {
				t.Errorf("events = %+v, want none", events)
			}
			// The stream must stay alive past the bad line.
			events := d.Feed([]byte("data: {\"token\": \"ok\"}\n"))
			want := []StreamEvent{{Kind: EventToken, Token: "ok"}}
			if !reflect.DeepEqual(events, want) {
				t.Errorf("after bad line: events = %+v, want %+v", events, want)
			}
		})
	}
}

func TestDecoderDoneLatch(t *testing.T) {
	d := NewDecoder(false)
	events := d.Feed([]byte("data: {\"done\": true}\ndata: {\"token\": \"late\"}\n"))

	want := []StreamEvent{{Kind: EventEnd}}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %+v, want %+v", events, want)
	}

	if events := d.Feed([]byte("data: {\"token\": \"later\"}\n")); events != nil {
		t.Errorf("Feed after done = %+v, want nil", events)
	}
	if events := d.Close(); events != nil {
		t.Errorf("Close after done = %+v, want nil", events)
	}
}

func TestDecoderStatsRequireBothFields(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []StreamEvent
	}{
		{
			name: "both fields",
			line: "data: {\"done\": true, \"total_tokens\": 10, \"tokens_per_second\": 5.5}",
			want: []StreamEvent{
				{Kind: EventStats, TotalTokens: 10, TokensPerSecond: 5.5},
				{Kind: EventEnd},
			},
		},
		{
			name: "only total_tokens",
			line: "data: {\"done\": true, \"total_tokens\": 10}",
			want: []StreamEvent{{Kind: EventEnd}},
		},
		{
			name: "only tokens_per_second",
			line: "data: {\"done\": true, \"tokens_per_second\": 5.5}",
			want: []StreamEvent{{Kind: EventEnd}},
		},
		{
			name: "neither field",
			line: "data: {\"done\": true}",
			want: []StreamEvent{{Kind: EventEnd}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(false)
			events := d.Feed([]byte(tt.line + "\n"))
			if !reflect.DeepEqual(events, tt.want) {
				t.Errorf("events = %+v, want %+v", events, tt.want)
			}
		})
	}
}

func TestDecoderConversationIDLatch(t *testing.T) {
	body := "data: {\"conversation_id\": \"first\", \"token\": \"a\"}\n" +
		"data: {\"conversation_id\": \"second\", \"token\": \"b\"}\n"

	events := decodeAll(body, len(body), false)

	want := []StreamEvent{
		{Kind: EventConversationID, ConversationID: "first"},
		{Kind: EventToken, Token: "a"},
		{Kind: EventToken, Token: "b"},
		{Kind: EventEnd},
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %+v, want %+v", events, want)
	}
}

func TestDecoderConversationIDSuppressedWhenKnown(t *testing.T) {
	// The request already carried an id; the stream's announcement is noise.
	d := NewDecoder(true)
	events := d.Feed([]byte("data: {\"conversation_id\": \"other\", \"token\": \"a\"}\n"))

	want := []StreamEvent{{Kind: EventToken, Token: "a"}}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %+v, want %+v", events, want)
	}
}

func TestDecoderDoneRecordWithID(t *testing.T) {
	// A single record can announce the id and terminate: the id event must
	// come first, then stats, then end.
	d := NewDecoder(false)
	events := d.Feed([]byte("data: {\"conversation_id\": \"c-1\", \"done\": true, \"total_tokens\": 3, \"tokens_per_second\": 9.0}\n"))

	want := []StreamEvent{
		{Kind: EventConversationID, ConversationID: "c-1"},
		{Kind: EventStats, TotalTokens: 3, TokensPerSecond: 9.0},
		{Kind: EventEnd},
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %+v, want %+v", events, want)
	}
}

func TestDecoderCRLFLines(t *testing.T) {
	events := decodeAll("data: {\"token\": \"x\"}\r\ndata: {\"done\": true}\r\n", 6, false)

	want := []StreamEvent{
		{Kind: EventToken, Token: "x"},
		{Kind: EventEnd},
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %+v, want %+v", events, want)
	}
}
