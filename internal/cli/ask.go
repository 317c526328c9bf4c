// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single query command handler.
//
// Handles "webchat ask", which answers one question on stdout and exits.
//
// Examples:
//   webchat ask "What is the capital of France?"
//   webchat ask "latest Go release" | less
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/webchat-tui/internal/ui/styles"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// renderMarkdown renders markdown for terminal display, falling back to the
// raw content when rendering is unavailable.
func renderMarkdown(content string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(GetTerminalWidth()),
	)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayResponse prints a response, markdown-rendered only when stdout is a
// TTY so piped output stays clean.
func displayResponse(response string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(response))
	} else {
		fmt.Println(response)
	}
}

// =============================================================================
// STYLES
// =============================================================================

var (
	citationStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan)

	noticeStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose)
)

// styled applies a lipgloss style only when colored output is enabled, so
// piped and NO_COLOR output stays plain.
func styled(style lipgloss.Style, s string) string {
	if !ColorEnabled() {
		return s
	}
	return style.Render(s)
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// HandleAsk answers a single question and prints the result.
func HandleAsk(ctx context.Context, runner *Runner, query string) error {
	if runner.API == nil || !runner.API.IsConfigured() {
		return fmt.Errorf("no endpoint configured: set endpoint.url in the config file or WEBCHAT_ENDPOINT")
	}

	result, err := runner.Run(ctx, query, nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if result.FellBack && IsStdoutTTY() {
		fmt.Fprintln(os.Stderr, styled(noticeStyle, "web search failed; answered without live context"))
	}

	displayResponse(result.Content)

	if len(result.Citations) > 0 && IsStdoutTTY() {
		fmt.Println()
		for _, c := range result.Citations {
			fmt.Println(styled(citationStyle, "  · "+c))
		}
	}
	return nil
}
