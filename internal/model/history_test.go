// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"reflect"
	"testing"

	"github.com/noesislabs/noesis-tui/internal/noesis"
)

func TestProjectHistory(t *testing.T) {
	turns := []Turn{
		NewUserTurn("q1"),
		{Role: RoleAssistant, Text: "a1"},
		NewUserTurn("q2"),
		{Role: RoleAssistant, Text: "a2"},
		NewUserTurn("q3"),
	}

	tests := []struct {
		name string
		upto int
		want []noesis.HistoryEntry
	}{
		{
			name: "empty prefix",
			upto: 0,
			want: nil,
		},
		{
			name: "first pair only",
			upto: 2,
			want: []noesis.HistoryEntry{
				{Role: "user", Content: "q1"},
				{Role: "assistant", Content: "a1"},
			},
		},
		{
			name: "user without its assistant",
			upto: 3,
			want: []noesis.HistoryEntry{
				{Role: "user", Content: "q1"},
				{Role: "assistant", Content: "a1"},
				{Role: "user", Content: "q2"},
			},
		},
		{
			name: "everything before the last user turn",
			upto: 4,
			want: []noesis.HistoryEntry{
				{Role: "user", Content: "q1"},
				{Role: "assistant", Content: "a1"},
				{Role: "user", Content: "q2"},
				{Role: "assistant", Content: "a2"},
			},
		},
		{
			name: "upto past end is clamped",
			upto: 99,
			want: []noesis.HistoryEntry{
				{Role: "user", Content: "q1"},
				{Role: "assistant", Content: "a1"},
				{Role: "user", Content: "q2"},
				{Role: "assistant", Content: "a2"},
				{Role: "user", Content: "q3"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectHistory(turns, tt.upto)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ProjectHistory(turns, %d) = %+v, want %+v", tt.upto, got, tt.want)
			}
		})
	}
}

func TestProjectHistorySkipsEmptyTurns(t *testing.T) {
	turns := []Turn{
		NewUserTurn("q1"),
		NewAssistantTurn(), // streaming just started, still empty
	}

	got := ProjectHistory(turns, len(turns))
	want := []noesis.HistoryEntry{{Role: "user", Content: "q1"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ProjectHistory = %+v, want %+v", got, want)
	}
}
