// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/jeranaias/webchat-tui/internal/util"
)

// =============================================================================
// DUCKDUCKGO INSTANT ANSWER SOURCE
// =============================================================================

// instantResponse is the subset of the Instant Answer response we read.
// RelatedTopics may nest category groups; only flat entries carry Text.
type instantResponse struct {
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// searchInstant queries the DuckDuckGo Instant Answer endpoint. It prefers
// the direct abstract when present and falls back to the first related-topic
// entry with text. The browser original needed a CORS relay in front of this
// endpoint; a native client calls it directly unless a relay prefix is
// configured.
func (a *Aggregator) searchInstant(ctx context.Context, query string) (SourceResult, error) {
	endpoint := a.instantBase + "/?format=json&no_html=1&skip_disambig=1&q=" + url.QueryEscape(query)
	if a.relayPrefix != "" {
		endpoint = a.relayPrefix + url.QueryEscape(endpoint)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return SourceResult{}, err
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return SourceResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SourceResult{}, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return SourceResult{}, err
	}

	var parsed instantResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return SourceResult{}, fmt.Errorf("malformed response: %w", err)
	}

	if parsed.AbstractText != "" {
		return SourceResult{
			Snippet: util.TruncateRunes(parsed.AbstractText, SnippetLimit),
			URL:     parsed.AbstractURL,
		}, nil
	}

	for _, topic := range parsed.RelatedTopics {
		if topic.Text != "" {
			return SourceResult{
				Snippet: util.TruncateRunes(topic.Text, SnippetLimit),
				URL:     topic.FirstURL,
			}, nil
		}
	}

	return SourceResult{}, nil
}
