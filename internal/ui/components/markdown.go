// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// Markdown renders assistant replies for terminal display. The glamour
// renderer is rebuilt only when the wrap width changes.
type Markdown struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	width    int
}

// NewMarkdown creates a markdown renderer wrapping at the given width.
func NewMarkdown(width int) *Markdown {
	m := &Markdown{}
	m.SetWidth(width)
	return m
}

// SetWidth changes the wrap width, rebuilding the renderer if needed.
func (m *Markdown) SetWidth(width int) {
	if width < 20 {
		width = 20
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.renderer != nil && m.width == width {
		return
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// Keep whatever renderer we had; Render falls back to plain text.
		return
	}
	m.renderer = renderer
	m.width = width
}

// Render renders markdown content. Returns the original content if rendering
// fails or no renderer is available.
func (m *Markdown) Render(content string) string {
	m.mu.Lock()
	renderer := m.renderer
	m.mu.Unlock()

	if renderer == nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
