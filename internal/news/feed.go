// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package news fetches a headline feed through an RSS-to-JSON translator,
// with a static fallback so the feature degrades instead of failing.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Defaults for the feed client.
const (
	// DefaultTranslatorBase is the RSS-to-JSON translation endpoint.
	DefaultTranslatorBase = "https://api.rss2json.com/v1/api.json"

	// DefaultFeedURL is the RSS feed translated by default.
	DefaultFeedURL = "https://feeds.bbci.co.uk/news/technology/rss.xml"

	// DefaultTimeout bounds one feed fetch.
	DefaultTimeout = 10 * time.Second

	// MaxHeadlines is the maximum number of items returned.
	MaxHeadlines = 8

	// maxResponseSize caps the feed response body.
	maxResponseSize = 2 * 1024 * 1024 // 2MB
)

// Item is one headline.
type Item struct {
	Title string
	Link  string
}

// staticHeadlines is the fallback shown when the live feed is unreachable.
// Deliberately evergreen: no dates, no claims that go stale.
var staticHeadlines = []Item{
	{Title: "AI assistants are changing how people search the web", Link: "https://en.wikipedia.org/wiki/Intelligent_agent"},
	{Title: "Open source large language models continue to improve", Link: "https://en.wikipedia.org/wiki/Large_language_model"},
	{Title: "Browsers add built-in machine learning features", Link: "https://en.wikipedia.org/wiki/Web_browser"},
	{Title: "Researchers debate the limits of retrieval-augmented generation", Link: "https://en.wikipedia.org/wiki/Information_retrieval"},
	{Title: "Terminal user interfaces see a renaissance", Link: "https://en.wikipedia.org/wiki/Text-based_user_interface"},
}

// translatorResponse is the wire format of an rss2json-style endpoint.
type translatorResponse struct {
	Status string `json:"status"`
	Items  []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"items"`
}

// Feed fetches headlines. Zero value is not usable; use NewFeed.
type Feed struct {
	httpClient     *http.Client
	translatorBase string
	feedURL        string
	logger         *zap.Logger
}

// Options configures a Feed. Zero values take defaults.
type Options struct {
	TranslatorBase string
	FeedURL        string
	Timeout        time.Duration
	HTTPClient     *http.Client
}

// NewFeed creates a headline feed client.
func NewFeed(opts Options, logger *zap.Logger) *Feed {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.TranslatorBase == "" {
		opts.TranslatorBase = DefaultTranslatorBase
	}
	if opts.FeedURL == "" {
		opts.FeedURL = DefaultFeedURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Feed{
		httpClient:     hc,
		translatorBase: opts.TranslatorBase,
		feedURL:        opts.FeedURL,
		logger:         logger,
	}
}

// Fetch returns the current headlines. Any failure falls back to the static
// list; Fetch never returns an error along with zero items.
func (f *Feed) Fetch(ctx context.Context) []Item {
	items, err := f.fetchLive(ctx)
	if err != nil {
		f.logger.Warn("news feed fetch failed, using static fallback", zap.Error(err))
		return staticHeadlines
	}
	if len(items) == 0 {
		f.logger.Warn("news feed returned no items, using static fallback")
		return staticHeadlines
	}
	return items
}

// fetchLive performs one translated-feed request.
func (f *Feed) fetchLive(ctx context.Context) ([]Item, error) {
	reqURL := f.translatorBase + "?rss_url=" + url.QueryEscape(f.feedURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	var tr translatorResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	if tr.Status != "ok" {
		return nil, fmt.Errorf("feed translator status %q", tr.Status)
	}

	items := make([]Item, 0, MaxHeadlines)
	for _, it := range tr.Items {
		if it.Title == "" {
			continue
		}
		items = append(items, Item{Title: it.Title, Link: it.Link})
		if len(items) == MaxHeadlines {
			break
		}
	}
	return items, nil
}

// StaticHeadlines returns the fallback list. Used by tests and the help
// display.
func StaticHeadlines() []Item {
	out := make([]Item, len(staticHeadlines))
	copy(out, staticHeadlines)
	return out
}
