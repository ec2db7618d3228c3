// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestNewTheme(t *testing.T) {
	theme := NewTheme("")
	if theme == nil {
		t.Fatal("NewTheme returned nil")
	}

	// Every style must render without panicking, even on a dumb terminal.
	styles := map[string]func(...string) string{
		"Header":              theme.Header.Render,
		"UserBubble":          theme.UserBubble.Render,
		"AssistantBubble":     theme.AssistantBubble.Render,
		"RoleLabel":           theme.RoleLabel.Render,
		"StreamingCursor":     theme.StreamingCursor.Render,
		"StatsLine":           theme.StatsLine.Render,
		"ThinkingHeader":      theme.ThinkingHeader.Render,
		"ThinkingBody":        theme.ThinkingBody.Render,
		"InputContainer":      theme.InputContainer.Render,
		"Sidebar":             theme.Sidebar.Render,
		"SidebarItemSelected": theme.SidebarItemSelected.Render,
		"StatusBar":           theme.StatusBar.Render,
		"StatusError":         theme.StatusError.Render,
	}
	for name, render := range styles {
		if out := render("x"); out == "" {
			t.Errorf("%s rendered empty output", name)
		}
	}
}

func TestNewThemeMode(t *testing.T) {
	tests := []struct {
		mode     string
		wantDark bool
	}{
		{"dark", true},
		{"Dark", true},
		{"light", false},
		{"LIGHT", false},
	}
	for _, tt := range tests {
		if got := NewTheme(tt.mode).IsDark; got != tt.wantDark {
			t.Errorf("NewTheme(%q).IsDark = %v, want %v", tt.mode, got, tt.wantDark)
		}
	}
}
