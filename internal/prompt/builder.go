// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package prompt

import (
	"strings"

	"github.com/jeranaias/webchat-tui/internal/model"
	"github.com/jeranaias/webchat-tui/internal/websearch"
)

// chatPreamble is the fixed system instruction for the conversational path.
// It pins the output formatting the renderer expects.
const chatPreamble = `You are a helpful assistant. Format your answers as follows:
- Use fenced code blocks with a language tag for any code.
- Use inline code for identifiers, commands, and file names.
- Use headers, lists, and tables where they aid readability.
- Use bold for key terms.
- When explaining a concept, give an example first, then a short summary.`

// =============================================================================
// SEARCH PATH
// =============================================================================

// BuildSearchPrompt wraps a query and its live search context into an
// instruction block. The model is told to synthesize an original answer
// rather than quote the snippets, to cite sources inline, and to say so when
// the supplied context does not cover the question. The raw query always
// comes last. Callers must not pass an empty context; fall back to
// BuildChatPrompt instead.
func BuildSearchPrompt(query string, ctx websearch.Context) string {
	var sb strings.Builder

	sb.WriteString("You have been given live web search results for the query: \"")
	sb.WriteString(query)
	sb.WriteString("\"\n\n")
	sb.WriteString("Search results:\n\n")
	sb.WriteString(ctx.Text())
	sb.WriteString("\n\n")

	if len(ctx.Citations) > 0 {
		sb.WriteString("Sources:\n")
		for _, c := range ctx.Citations {
			sb.WriteString("- ")
			sb.WriteString(c)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Write an original answer synthesized from these results; do not quote them verbatim. ")
	sb.WriteString("Cite the sources inline where you use them. ")
	sb.WriteString("If the results do not fully cover the question, say what is missing.\n\n")
	sb.WriteString("Question: ")
	sb.WriteString(query)

	return sb.String()
}

// =============================================================================
// CONVERSATIONAL PATH
// =============================================================================

// BuildChatPrompt produces the plain conversational prompt: the formatting
// preamble, then up to the last model.RecentWindow turns rendered as
// alternating "User:"/"Assistant:" lines, then the new query.
func BuildChatPrompt(query string, turns []model.Turn) string {
	var sb strings.Builder

	sb.WriteString(chatPreamble)
	sb.WriteString("\n\n")

	if history := renderTurns(turns); history != "" {
		sb.WriteString("Conversation so far:\n")
		sb.WriteString(history)
		sb.WriteString("\n")
	}

	sb.WriteString("User: ")
	sb.WriteString(query)

	return sb.String()
}

// renderTurns renders turns as role-labeled lines, bounded to the recent
// window.
func renderTurns(turns []model.Turn) string {
	if len(turns) == 0 {
		return ""
	}
	if len(turns) > model.RecentWindow {
		turns = turns[len(turns)-model.RecentWindow:]
	}

	var sb strings.Builder
	for _, t := range turns {
		switch t.Role {
		case model.RoleUser:
			sb.WriteString("User: ")
		case model.RoleAssistant:
			sb.WriteString("Assistant: ")
		default:
			continue
		}
		sb.WriteString(t.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
