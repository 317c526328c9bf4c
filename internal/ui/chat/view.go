// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/webchat-tui/internal/model"
	"github.com/jeranaias/webchat-tui/internal/news"
	"github.com/jeranaias/webchat-tui/internal/storage"
	"github.com/jeranaias/webchat-tui/internal/ui/components"
	"github.com/jeranaias/webchat-tui/internal/ui/styles"
)

// =============================================================================
// MAIN LAYOUT
// =============================================================================

func (m Model) renderChat() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelpOverlay()
	}
	if m.state == StateError && m.lastError != nil {
		return m.renderErrorOverlay()
	}

	header := m.header.Render()
	input := m.renderInput()
	status := m.statusBar.Render()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		m.viewport.View(),
		input,
		status,
	)
}

func (m Model) renderInput() string {
	var line string
	if m.state == StateGenerating {
		line = m.spinner.View() + " " + m.theme.ThinkingText.Render("thinking...")
	} else {
		line = m.input.View()
	}
	return m.theme.InputContainer.Width(m.width - 2).Render(line)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// updateViewport re-renders the transcript into the viewport.
func (m *Model) updateViewport() {
	var b strings.Builder

	if len(m.session.Messages) == 0 && m.notice == "" {
		b.WriteString(m.renderEmptyState())
	}

	for i := range m.session.Messages {
		b.WriteString(m.renderTurn(&m.session.Messages[i]))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(m.notice)
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
}

func (m *Model) renderTurn(t *model.Turn) string {
	maxWidth := m.contentWidth()

	switch t.Role {
	case model.RoleUser:
		label := m.theme.SessionMeta.Render(t.Role.DisplayName())
		body := m.theme.UserBubble.MaxWidth(maxWidth).Render(t.Content)
		return label + "\n" + body + "\n"

	case model.RoleAssistant:
		label := m.theme.SessionMeta.Render(t.Role.DisplayName())
		var body string
		if t.ImageURL != "" {
			body = m.theme.AssistantBubble.MaxWidth(maxWidth).
				Render("Image ready: " + m.theme.NewsLink.Render(t.ImageURL))
		} else {
			rendered := m.markdown.Render(t.Content)
			rendered = components.ParseCodeBlocks(rendered, maxWidth)
			body = m.theme.AssistantBubble.MaxWidth(maxWidth).Render(strings.TrimRight(rendered, "\n"))
		}
		out := label + "\n" + body + "\n"
		if len(t.Citations) > 0 {
			out += m.renderCitations(t.Citations)
		}
		return out

	default:
		return m.theme.SystemBubble.MaxWidth(maxWidth).Render(t.Content) + "\n"
	}
}

func (m *Model) renderCitations(citations []string) string {
	var b strings.Builder
	for _, c := range citations {
		b.WriteString(m.theme.Citation.Render("  · " + c))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderEmptyState() string {
	lines := []string{
		"",
		m.theme.HeaderTitle.Render("webchat"),
		m.theme.SessionMeta.Render("Ask anything. Questions about current events go through web search."),
		m.theme.SessionMeta.Render("Type /help for commands."),
		"",
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}

func (m *Model) contentWidth() int {
	w := m.viewport.Width - 4
	if w < 20 {
		w = 20
	}
	return w
}

// =============================================================================
// OVERLAYS
// =============================================================================

func (m Model) renderErrorOverlay() string {
	e := m.lastError
	body := lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.ErrorTitle.Render(e.Title),
		"",
		m.theme.ErrorMessage.Render(e.Message),
		tipLine(m.theme, e.Tip),
		"",
		m.theme.SessionMeta.Render("esc to dismiss"),
	)
	box := m.theme.ErrorBox.Render(body)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func tipLine(theme *styles.Theme, tip string) string {
	if tip == "" {
		return ""
	}
	return theme.ErrorTip.Render("Tip: " + tip)
}

func (m Model) renderHelpOverlay() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("Commands"))
	b.WriteString("\n")

	groups := m.registry.ByCategory()
	categories := make([]string, 0, len(groups))
	for category := range groups {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		b.WriteString("\n")
		b.WriteString(m.theme.SessionMeta.Render(category))
		b.WriteString("\n")
		for _, cmd := range groups[category] {
			b.WriteString(fmt.Sprintf("  %s  %s\n",
				m.theme.ShortcutKey.Render(fmt.Sprintf("%-24s", cmd.Usage)),
				m.theme.ShortcutDesc.Render(cmd.Description)))
		}
	}
	b.WriteString("\n")
	b.WriteString(m.theme.SessionMeta.Render("esc to close"))
	box := m.theme.Container.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// =============================================================================
// NOTICE BLOCKS
// =============================================================================

func renderSessionList(theme *styles.Theme, sessions []storage.SessionMeta) string {
	if len(sessions) == 0 {
		return theme.SessionMeta.Render("No saved sessions yet.")
	}
	var b strings.Builder
	b.WriteString(theme.HeaderTitle.Render("Sessions"))
	b.WriteString("\n")
	for i, s := range sessions {
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			theme.SessionID.Render(fmt.Sprintf("[%d]", i+1)),
			theme.SessionTitle.Render(s.Title),
			theme.SessionMeta.Render(fmt.Sprintf("%s · %d turns",
				s.Date.Format("2006-01-02 15:04"), s.TurnCount))))
	}
	b.WriteString(theme.SessionMeta.Render("Load one with /load <n>"))
	return b.String()
}

func renderNews(theme *styles.Theme, items []news.Item) string {
	var b strings.Builder
	b.WriteString(theme.HeaderTitle.Render("Headlines"))
	b.WriteString("\n")
	for _, it := range items {
		b.WriteString(theme.NewsHeadline.Render("• " + it.Title))
		b.WriteString("\n")
		if it.Link != "" {
			b.WriteString(theme.NewsLink.Render("  " + it.Link))
			b.WriteString("\n")
		}
	}
	return b.String()
}
