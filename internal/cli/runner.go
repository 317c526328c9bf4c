// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// runner.go - The shared generation pipeline behind ask and chat.
package cli

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/webchat-tui/internal/api"
	"github.com/jeranaias/webchat-tui/internal/model"
	"github.com/jeranaias/webchat-tui/internal/prompt"
	"github.com/jeranaias/webchat-tui/internal/router"
	"github.com/jeranaias/webchat-tui/internal/telemetry"
	"github.com/jeranaias/webchat-tui/internal/websearch"
)

// =============================================================================
// RUNNER
// =============================================================================

// Runner drives one query through route → search → prompt → endpoint. It is
// the non-TUI twin of the chat view's pipeline and follows the same rules: a
// failed search-path call gets exactly one retry through the plain chat path.
type Runner struct {
	API       *api.Client
	Search    *websearch.Aggregator
	Decisions *telemetry.Log
	Logger    *zap.Logger

	// SearchEnabled gates the web-search trigger entirely.
	SearchEnabled bool
}

// Result is one completed answer.
type Result struct {
	Content   string
	Searched  bool
	FellBack  bool
	Citations []string
	Latency   time.Duration
}

// Run answers one query. recent is the conversation window for the chat
// path; pass nil for a one-shot query.
func (r *Runner) Run(ctx context.Context, query string, recent []model.Turn) (Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()

	decision := router.Decide(query)
	searching := r.SearchEnabled && r.Search != nil && decision.ShouldSearch()

	if searching {
		searchCtx := r.Search.Aggregate(ctx, query)
		if searchCtx.Empty() {
			logger.Info("search context empty, using chat path",
				zap.Int("score", decision.Score))
		} else {
			content, err := r.API.Chat(ctx, prompt.BuildSearchPrompt(query, searchCtx))
			if err == nil {
				r.record(logger, decision.Score, true, len(searchCtx.Blocks), time.Since(start))
				return Result{
					Content:   content,
					Searched:  true,
					Citations: searchCtx.Citations,
					Latency:   time.Since(start),
				}, nil
			}
			logger.Warn("search path failed, retrying without context", zap.Error(err))
			content, err = r.API.Chat(ctx, prompt.BuildChatPrompt(query, recent))
			// The row reflects the outcome: the answer carried no search context.
			r.record(logger, decision.Score, false, 0, time.Since(start))
			return Result{
				Content:  content,
				FellBack: true,
				Latency:  time.Since(start),
			}, err
		}
	}

	content, err := r.API.Chat(ctx, prompt.BuildChatPrompt(query, recent))
	r.record(logger, decision.Score, false, 0, time.Since(start))
	return Result{Content: content, Latency: time.Since(start)}, err
}

func (r *Runner) record(logger *zap.Logger, score int, searched bool, sources int, latency time.Duration) {
	if r.Decisions == nil {
		return
	}
	err := r.Decisions.Record(telemetry.Decision{
		Score:    score,
		Searched: searched,
		Sources:  sources,
		Latency:  latency,
	})
	if err != nil {
		logger.Warn("decision log write failed", zap.Error(err))
	}
}
