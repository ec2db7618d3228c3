// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the noesis TUI.
//
// Layout: header (1 line) + sidebar | transcript viewport + input (3 lines)
// + status bar (1 line). Heights are fixed constants; the viewport absorbs
// the rest.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/noesislabs/noesis-tui/internal/model"
	"github.com/noesislabs/noesis-tui/internal/util"
)

// Fixed layout heights, in terminal rows.
const (
	headerHeight = 1
	inputHeight  = 3
	statusHeight = 1
	sidebarWidth = 28
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the complete chat view.
func (m Model) View() string {
	if !m.ready || m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	transcript := m.viewport.View()
	input := m.renderInput()
	status := m.renderStatusBar()

	body := transcript
	if m.sidebarVisible {
		sidebar := m.renderSidebar(m.viewport.Height)
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, transcript)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, input, status)
}

// renderHeader renders the title bar.
func (m Model) renderHeader() string {
	return m.theme.Header.Width(m.width).Render("N O E S I S")
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// renderMessages renders every turn as a labeled bubble, with a streaming
// cursor on the reply currently being generated and a stats line under
// finished replies.
func (m Model) renderMessages() string {
	turns := m.controller.Turns()
	if len(turns) == 0 {
		return m.theme.StatsLine.Render("Start a conversation. /edit <turn> <text> regenerates from an earlier message.")
	}

	streaming := m.controller.Streaming()
	bubbleWidth := m.viewport.Width - 4
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	var b strings.Builder
	for i, turn := range turns {
		label := fmt.Sprintf("%s [%d]", turn.Role.DisplayName(), i)
		b.WriteString(m.theme.RoleLabel.Render(label))
		b.WriteString("\n")

		text := turn.Text
		bubble := m.theme.AssistantBubble
		if turn.Role == model.RoleUser {
			bubble = m.theme.UserBubble
		} else {
			// Reasoning models wrap their deliberation in think tags;
			// it renders as a separate collapsible section, not inline.
			display, thinking := splitThinking(turn.Text)
			text = display
			if thinking != "" {
				marker := "▼"
				if m.thinkingOpen {
					marker = "▲"
				}
				b.WriteString(m.theme.ThinkingHeader.Render("Thinking " + marker))
				b.WriteString("\n")
				if m.thinkingOpen {
					b.WriteString(m.theme.ThinkingBody.Width(bubbleWidth).Render(thinking))
					b.WriteString("\n")
				}
			}
		}

		if streaming && i == len(turns)-1 {
			text += m.theme.StreamingCursor.Render("▌")
		}

		b.WriteString(bubble.Width(bubbleWidth).Render(text))
		b.WriteString("\n")

		if m.cfg.UI.ShowStats {
			if stats, ok := m.controller.Stats(i); ok {
				b.WriteString(m.theme.StatsLine.Render(formatStats(stats)))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// formatStats renders one reply's generation statistics.
func formatStats(stats model.GenerationStats) string {
	return fmt.Sprintf("%d tokens · %.1f tok/s", stats.TotalTokens, stats.TokensPerSecond)
}

// =============================================================================
// SIDEBAR
// =============================================================================

// renderSidebar renders the conversation directory.
func (m Model) renderSidebar(height int) string {
	var b strings.Builder
	b.WriteString(m.theme.SidebarTitle.Render("CONVERSATIONS"))
	b.WriteString("\n\n")

	conversations := m.controller.Conversations()
	if len(conversations) == 0 {
		b.WriteString(m.theme.SidebarItem.Render("(none)"))
	}

	currentID := m.controller.ConversationID()
	for i, conv := range conversations {
		title := conv.Title
		if title == "" {
			title = conv.ID
		}
		// Fixed-width rows keep the selection highlight a uniform block.
		line := util.PadRight(util.TruncateWidth(title, sidebarWidth-6), sidebarWidth-6)
		marker := "  "
		if conv.ID == currentID {
			marker = "* "
		}

		style := m.theme.SidebarItem
		if i == m.sidebarIndex {
			style = m.theme.SidebarItemSelected
		}
		b.WriteString(style.Render(marker + line))
		b.WriteString("\n")
	}

	return m.theme.Sidebar.
		Width(sidebarWidth - 2).
		Height(height).
		Render(b.String())
}

// =============================================================================
// INPUT AND STATUS
// =============================================================================

// renderInput renders the message entry box.
func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())
}

// renderStatusBar renders connection state, streaming state, and shortcuts.
func (m Model) renderStatusBar() string {
	var left string
	switch {
	case m.controller.Streaming():
		left = m.spinner.View() + m.theme.StatusStream.Render(" generating")
	case m.controller.ConnectionError():
		left = m.theme.StatusError.Render("connection failed")
	case m.statusMsg != "" && m.statusIsErr:
		left = m.theme.StatusError.Render(m.statusMsg)
	case m.statusMsg != "":
		left = m.statusMsg
	default:
		if t := m.controller.Telemetry(); t.Elapsed > 0 {
			left = m.theme.StatsLine.Render(fmt.Sprintf("last reply %.1fs", t.Elapsed.Seconds()))
		} else {
			left = "ready"
		}
	}

	shortcuts := strings.Join([]string{
		m.theme.ShortcutKey.Render("Enter") + m.theme.ShortcutDesc.Render(" send"),
		m.theme.ShortcutKey.Render("Esc") + m.theme.ShortcutDesc.Render(" cancel"),
		m.theme.ShortcutKey.Render("C-b") + m.theme.ShortcutDesc.Render(" sidebar"),
		m.theme.ShortcutKey.Render("C-t") + m.theme.ShortcutDesc.Render(" thinking"),
		m.theme.ShortcutKey.Render("C-c") + m.theme.ShortcutDesc.Render(" quit"),
	}, "  ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(shortcuts) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + shortcuts)
}
