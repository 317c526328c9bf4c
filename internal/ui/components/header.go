// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/webchat-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar.
type Header struct {
	Title        string // session title
	SearchActive bool   // web search trigger enabled
	Width        int
	theme        *styles.Theme
}

// NewHeader creates a new Header component with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "New chat",
		Width: 80,
		theme: theme,
	}
}

// Render renders the header line.
func (h *Header) Render() string {
	brand := h.theme.HeaderTitle.Render("webchat")
	title := h.theme.HeaderSubtitle.Render(h.Title)

	var search string
	if h.SearchActive {
		search = h.theme.SearchIndicator.Render("search on")
	} else {
		search = h.theme.ShortcutDesc.Render("search off")
	}

	line := lipgloss.JoinHorizontal(lipgloss.Center, brand, "  ", title, "  ", search)
	return h.theme.Header.Width(h.Width).Render(line)
}
