// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/webchat-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusSearching
	StatusThinking
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusSearching:
		return "Searching..."
	case StatusThinking:
		return "Thinking..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// StatusBar is the bottom status bar.
type StatusBar struct {
	Status    Status
	Searched  bool // last reply used web search
	TurnCount int
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status: StatusReady,
		Width:  80,
		theme:  theme,
	}
}

// Render renders the status bar line.
func (sb *StatusBar) Render() string {
	var route string
	if sb.Searched {
		route = sb.theme.SearchIndicator.Render("web")
	} else {
		route = sb.theme.ChatIndicator.Render("chat")
	}

	left := fmt.Sprintf("%s | %s | %d turns", sb.Status, route, sb.TurnCount)

	shortcuts := strings.Join([]string{
		sb.theme.ShortcutKey.Render("enter") + sb.theme.ShortcutDesc.Render(" send"),
		sb.theme.ShortcutKey.Render("/help") + sb.theme.ShortcutDesc.Render(" commands"),
		sb.theme.ShortcutKey.Render("esc") + sb.theme.ShortcutDesc.Render(" quit"),
	}, "  ")

	gap := sb.Width - lipgloss.Width(left) - lipgloss.Width(shortcuts) - 2
	if gap < 1 {
		gap = 1
	}

	return sb.theme.StatusBar.Width(sb.Width).Render(
		left + strings.Repeat(" ", gap) + shortcuts,
	)
}
