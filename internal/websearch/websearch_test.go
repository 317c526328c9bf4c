// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wikiJSON(title, snippet string) string {
	return `{"query":{"search":[{"title":` + strconv.Quote(title) + `,"snippet":` + strconv.Quote(snippet) + `}]}}`
}

// newTestAggregator points both sources at local test servers.
func newTestAggregator(t *testing.T, wikiHandler, instantHandler http.HandlerFunc) *Aggregator {
	t.Helper()
	wiki := httptest.NewServer(wikiHandler)
	instant := httptest.NewServer(instantHandler)
	t.Cleanup(wiki.Close)
	t.Cleanup(instant.Close)

	return NewAggregator(Options{
		WikiBase:    wiki.URL,
		InstantBase: instant.URL,
		HTTPClient:  wiki.Client(),
	}, nil)
}

func TestAggregateMergesInFixedOrder(t *testing.T) {
	agg := newTestAggregator(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(wikiJSON("Go (programming language)", `Go is a <span class="searchmatch">statically typed</span> language.`)))
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"AbstractText":"Go is a compiled language.","AbstractURL":"https://duckduckgo.com/Go"}`))
		},
	)

	ctx := agg.Aggregate(context.Background(), "golang")
	require.False(t, ctx.Empty())
	require.Len(t, ctx.Blocks, 2)

	// Encyclopedia first, instant-answer second.
	assert.True(t, strings.HasPrefix(ctx.Blocks[0], "From Wikipedia: "))
	assert.True(t, strings.HasPrefix(ctx.Blocks[1], "From DuckDuckGo: "))

	// HTML markup stripped from the wiki snippet.
	assert.Contains(t, ctx.Blocks[0], "statically typed")
	assert.NotContains(t, ctx.Blocks[0], "<span")

	require.Len(t, ctx.Citations, 2)
	assert.Contains(t, ctx.Citations[0], "/wiki/Go_(programming_language)")
	assert.Equal(t, "https://duckduckgo.com/Go", ctx.Citations[1])

	assert.Contains(t, ctx.Text(), "statically typed")
}

func TestAggregateBothSourcesFail(t *testing.T) {
	agg := newTestAggregator(t,
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json at all"))
		},
	)

	ctx := agg.Aggregate(context.Background(), "anything")
	assert.True(t, ctx.Empty())
	assert.Empty(t, ctx.Blocks)
	assert.Empty(t, ctx.Citations)
	assert.Equal(t, "", ctx.Text())
}

func TestAggregateOneSourceFailsOtherSurvives(t *testing.T) {
	agg := newTestAggregator(t,
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusBadGateway)
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"AbstractText":"Still here.","AbstractURL":"https://example.com/a"}`))
		},
	)

	ctx := agg.Aggregate(context.Background(), "query")
	require.Len(t, ctx.Blocks, 1)
	assert.True(t, strings.HasPrefix(ctx.Blocks[0], "From DuckDuckGo: "))
	assert.Equal(t, []string{"https://example.com/a"}, ctx.Citations)
}

func TestAggregateEmptyHitListIsNoResult(t *testing.T) {
	agg := newTestAggregator(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"query":{"search":[]}}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"AbstractText":"","RelatedTopics":[]}`))
		},
	)

	ctx := agg.Aggregate(context.Background(), "obscure")
	assert.True(t, ctx.Empty())
}

func TestInstantFallsBackToRelatedTopics(t *testing.T) {
	agg := newTestAggregator(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"query":{"search":[]}}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"AbstractText":"","RelatedTopics":[{"Text":"","FirstURL":""},{"Text":"First useful topic.","FirstURL":"https://example.com/t"}]}`))
		},
	)

	ctx := agg.Aggregate(context.Background(), "topic")
	require.Len(t, ctx.Blocks, 1)
	assert.Contains(t, ctx.Blocks[0], "First useful topic.")
	assert.Equal(t, []string{"https://example.com/t"}, ctx.Citations)
}

func TestSnippetTruncation(t *testing.T) {
	long := strings.Repeat("word ", 200) // far past the limit
	agg := newTestAggregator(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(wikiJSON("Long Article", long)))
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		},
	)

	ctx := agg.Aggregate(context.Background(), "long")
	require.Len(t, ctx.Blocks, 1)

	snippet := strings.TrimPrefix(ctx.Blocks[0], "From Wikipedia: ")
	assert.LessOrEqual(t, len([]rune(snippet)), SnippetLimit)
	assert.True(t, strings.HasSuffix(snippet, "..."))
}

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"tags_stripped", `<span class="searchmatch">Go</span> language`, "Go language"},
		{"entities_decoded", "Tom &amp; Jerry &quot;cartoon&quot;", `Tom & Jerry "cartoon"`},
		{"whitespace_collapsed", "a\n  b\t c", "a b c"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanHTML(tt.input))
		})
	}
}

func TestRelayPrefixApplied(t *testing.T) {
	var gotPath string
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		w.Write([]byte(`{"AbstractText":"via relay","AbstractURL":"https://example.com"}`))
	}))
	defer relay.Close()

	wiki := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query":{"search":[]}}`))
	}))
	defer wiki.Close()

	agg := NewAggregator(Options{
		WikiBase:    wiki.URL,
		InstantBase: "https://api.duckduckgo.com",
		RelayPrefix: relay.URL + "/raw?url=",
		HTTPClient:  relay.Client(),
	}, nil)

	ctx := agg.Aggregate(context.Background(), "relay me")
	require.Len(t, ctx.Blocks, 1)
	assert.Contains(t, ctx.Blocks[0], "via relay")
	// The real endpoint URL rides escaped inside the relay query string.
	assert.Contains(t, gotPath, "url=")
	assert.Contains(t, gotPath, "api.duckduckgo.com")
}
