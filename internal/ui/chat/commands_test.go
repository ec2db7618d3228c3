// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"testing"

	"github.com/noesislabs/noesis-tui/internal/model"
)

func TestParseSlashCommand(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantOK   bool
		wantName string
		wantArgs string
	}{
		{"plain text", "hello world", false, "", ""},
		{"bare slash", "/", false, "", ""},
		{"command only", "/new", true, "new", ""},
		{"command with args", "/edit 2 fixed text", true, "edit", "2 fixed text"},
		{"uppercase name", "/NEW", true, "new", ""},
		{"trailing spaces", "/delete abc  ", true, "delete", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := parseSlashCommand(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if cmd.name != tt.wantName || cmd.args != tt.wantArgs {
				t.Errorf("cmd = %+v, want name %q args %q", cmd, tt.wantName, tt.wantArgs)
			}
		})
	}
}

func TestParseEditArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      string
		wantOK    bool
		wantIndex int
		wantText  string
	}{
		{"valid", "2 new question", true, 2, "new question"},
		{"index zero", "0 hi", true, 0, "hi"},
		{"no index", "new question", false, 0, ""},
		{"no text", "2", false, 0, ""},
		{"only spaces after index", "2   ", false, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, text, ok := parseEditArgs(tt.args)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (index != tt.wantIndex || text != tt.wantText) {
				t.Errorf("got (%d, %q), want (%d, %q)", index, text, tt.wantIndex, tt.wantText)
			}
		})
	}
}

func TestFormatStats(t *testing.T) {
	got := formatStats(model.GenerationStats{TotalTokens: 128, TokensPerSecond: 41.52})
	want := "128 tokens · 41.5 tok/s"
	if got != want {
		t.Errorf("formatStats = %q, want %q", got, want)
	}
}
