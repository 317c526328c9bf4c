// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/webchat-tui/internal/model"
	"github.com/jeranaias/webchat-tui/internal/prompt"
	"github.com/jeranaias/webchat-tui/internal/router"
	"github.com/jeranaias/webchat-tui/internal/telemetry"
)

// =============================================================================
// GENERATION PIPELINE
// =============================================================================

// generateCmd runs one full turn off the update loop: route the query, fetch
// search context when the router picks the search path, build the prompt, and
// call the endpoint. A failed search-path call gets exactly one retry through
// the plain chat path.
func generateCmd(deps Deps, query string, recent []model.Turn) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()

		decision := router.Decide(query)
		searching := deps.SearchEnabled && deps.Search != nil && decision.ShouldSearch()

		ctx := context.Background()

		if searching {
			searchCtx := deps.Search.Aggregate(ctx, query)
			if searchCtx.Empty() {
				// Both sources came back empty; same fallback as a failed call,
				// minus the retry bookkeeping.
				deps.Logger.Info("search context empty, using chat path",
					zap.Int("score", decision.Score))
				searching = false
			} else {
				p := prompt.BuildSearchPrompt(query, searchCtx)
				content, err := deps.API.Chat(ctx, p)
				if err == nil {
					record(deps, decision.Score, true, len(searchCtx.Blocks), time.Since(start))
					return ReplyMsg{
						Content:   content,
						Searched:  true,
						Citations: searchCtx.Citations,
						Latency:   time.Since(start),
					}
				}
				deps.Logger.Warn("search path failed, retrying without context",
					zap.Error(err))
				content, err = deps.API.Chat(ctx, prompt.BuildChatPrompt(query, recent))
				// The row reflects the outcome: the answer carried no
				// search context.
				record(deps, decision.Score, false, 0, time.Since(start))
				return ReplyMsg{
					Content:  content,
					FellBack: true,
					Latency:  time.Since(start),
					Err:      err,
				}
			}
		}

		content, err := deps.API.Chat(ctx, prompt.BuildChatPrompt(query, recent))
		record(deps, decision.Score, false, 0, time.Since(start))
		return ReplyMsg{
			Content: content,
			Latency: time.Since(start),
			Err:     err,
		}
	}
}

// imageCmd calls the image endpoint for an /image command.
func imageCmd(deps Deps, imagePrompt string) tea.Cmd {
	return func() tea.Msg {
		url, err := deps.API.Image(context.Background(), imagePrompt)
		return ImageReplyMsg{Prompt: imagePrompt, URL: url, Err: err}
	}
}

// record writes one row to the decision log, if one is attached.
func record(deps Deps, score int, searched bool, sources int, latency time.Duration) {
	if deps.Decisions == nil {
		return
	}
	err := deps.Decisions.Record(telemetry.Decision{
		Score:    score,
		Searched: searched,
		Sources:  sources,
		Latency:  latency,
	})
	if err != nil {
		deps.Logger.Warn("decision log write failed", zap.Error(err))
	}
}
