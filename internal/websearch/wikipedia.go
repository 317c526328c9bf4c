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
	"regexp"
	"strings"

	"github.com/jeranaias/webchat-tui/internal/util"
)

// =============================================================================
// PERFORMANCE: Pre-compiled regex (compiled once at startup)
// =============================================================================

var (
	// Wikipedia search snippets carry <span class="searchmatch"> markup.
	htmlTagRegex       = regexp.MustCompile(`<[^>]*>`)
	snippetSpaceRegex  = regexp.MustCompile(`\s+`)
	htmlEntityReplacer = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
)

// cleanHTML strips tags, decodes common entities, and collapses whitespace.
func cleanHTML(s string) string {
	text := htmlTagRegex.ReplaceAllString(s, "")
	text = htmlEntityReplacer.Replace(text)
	text = snippetSpaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// =============================================================================
// WIKIPEDIA SOURCE
// =============================================================================

// wikiSearchResponse is the subset of the MediaWiki search response we read.
type wikiSearchResponse struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}

// searchWikipedia queries the Wikipedia search endpoint and returns the first
// hit as a cleaned, truncated snippet plus the canonical article URL built
// from the hit's title. Any transport error, bad status, malformed body, or
// empty hit list yields an error; callers treat that as "no result".
func (a *Aggregator) searchWikipedia(ctx context.Context, query string) (SourceResult, error) {
	endpoint := a.wikiBase + "/w/api.php?action=query&list=search&format=json&utf8=1&srlimit=1&srsearch=" +
		url.QueryEscape(query)

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

	var parsed wikiSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return SourceResult{}, fmt.Errorf("malformed response: %w", err)
	}

	if len(parsed.Query.Search) == 0 {
		return SourceResult{}, nil
	}

	hit := parsed.Query.Search[0]
	snippet := cleanHTML(hit.Snippet)
	if snippet == "" {
		return SourceResult{}, nil
	}

	return SourceResult{
		Snippet: util.TruncateRunes(snippet, SnippetLimit),
		URL:     a.articleURL(hit.Title),
	}, nil
}

// articleURL builds the canonical article URL from a hit title.
func (a *Aggregator) articleURL(title string) string {
	return a.wikiBase + "/wiki/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
}
