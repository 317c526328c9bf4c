// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package websearch

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Configuration defaults for the aggregator.
const (
	// DefaultWikiBase is the Wikipedia site root.
	DefaultWikiBase = "https://en.wikipedia.org"

	// DefaultInstantBase is the DuckDuckGo Instant Answer endpoint.
	DefaultInstantBase = "https://api.duckduckgo.com"

	// DefaultTimeout bounds each source lookup. The underlying transport
	// default is not relied on.
	DefaultTimeout = 10 * time.Second

	// maxResponseSize limits response bodies read from either source.
	maxResponseSize = 5 * 1024 * 1024

	defaultUserAgent = "webchat-tui/1.0 (terminal chat assistant)"
)

// =============================================================================
// AGGREGATOR
// =============================================================================

// Aggregator fans one query out to both knowledge sources and merges
// whatever comes back. Safe for concurrent use.
type Aggregator struct {
	httpClient  *http.Client
	wikiBase    string
	instantBase string
	relayPrefix string
	timeout     time.Duration
	userAgent   string
	logger      *zap.Logger
}

// Options configures an Aggregator. Zero fields take defaults.
type Options struct {
	// WikiBase overrides the Wikipedia site root.
	WikiBase string
	// InstantBase overrides the instant-answer endpoint.
	InstantBase string
	// RelayPrefix, when set, is prepended to the (escaped) instant-answer
	// URL, mirroring the CORS relay the browser original required.
	RelayPrefix string
	// Timeout bounds each source lookup.
	Timeout time.Duration
	// HTTPClient overrides the shared client, used by tests.
	HTTPClient *http.Client
}

// NewAggregator creates an aggregator with the given options.
func NewAggregator(opts Options, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Aggregator{
		httpClient:  opts.HTTPClient,
		wikiBase:    opts.WikiBase,
		instantBase: opts.InstantBase,
		relayPrefix: opts.RelayPrefix,
		timeout:     opts.Timeout,
		userAgent:   defaultUserAgent,
		logger:      logger,
	}
	if a.wikiBase == "" {
		a.wikiBase = DefaultWikiBase
	}
	if a.instantBase == "" {
		a.instantBase = DefaultInstantBase
	}
	if a.timeout == 0 {
		a.timeout = DefaultTimeout
	}
	if a.httpClient == nil {
		// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
		a.httpClient = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return a
}

// =============================================================================
// AGGREGATION
// =============================================================================

// Aggregate runs both source lookups concurrently and waits for both to
// settle — a join barrier, not a race: neither lookup cancels the other, and
// an error in one never aborts the other. Failed or empty sources contribute
// nothing; their errors are logged and otherwise swallowed. Merge order is
// fixed: encyclopedia first, instant-answer second. If both sources come back
// empty the returned Context is empty and the caller must fall back to the
// unenriched query.
func (a *Aggregator) Aggregate(ctx context.Context, query string) Context {
	var wiki, instant SourceResult

	// The group exists for the join only; lookups report their failures as
	// zero results, never as group errors.
	var g errgroup.Group

	g.Go(func() error {
		lctx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()
		res, err := a.searchWikipedia(lctx, query)
		if err != nil {
			a.logger.Warn("wikipedia lookup failed", zap.String("query", query), zap.Error(err))
			return nil
		}
		wiki = res
		return nil
	})

	g.Go(func() error {
		lctx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()
		res, err := a.searchInstant(lctx, query)
		if err != nil {
			a.logger.Warn("instant answer lookup failed", zap.String("query", query), zap.Error(err))
			return nil
		}
		instant = res
		return nil
	})

	g.Wait()

	var out Context
	if !wiki.IsZero() {
		out.Blocks = append(out.Blocks, "From Wikipedia: "+wiki.Snippet)
		if wiki.URL != "" {
			out.Citations = append(out.Citations, wiki.URL)
		}
	}
	if !instant.IsZero() {
		out.Blocks = append(out.Blocks, "From DuckDuckGo: "+instant.Snippet)
		if instant.URL != "" {
			out.Citations = append(out.Citations, instant.URL)
		}
	}

	a.logger.Debug("search aggregated",
		zap.String("query", query),
		zap.Int("blocks", len(out.Blocks)),
		zap.Int("citations", len(out.Citations)),
	)

	return out
}
