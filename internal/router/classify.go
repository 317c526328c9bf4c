// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// DETECTION RULE TABLES
// =============================================================================

// timeIndicators are temporal phrases that signal the answer depends on
// current information.
var timeIndicators = []string{
	"latest", "recent", "today", "yesterday", "tonight",
	"this week", "this month", "this year", "currently",
	"right now", "breaking", "as of", "update on", "just announced",
	"upcoming", "so far",
}

// questionOpeners are the interrogative prefixes that mark a query as a
// question. Matched against the start of the normalized string.
var questionOpeners = []string{
	"what", "who", "when", "where", "which", "how", "why",
	"can you tell me", "tell me about", "do you know",
}

// namedEntities is a curated list of companies, people, products, and
// event/topic words that suggest a factual lookup.
var namedEntities = []string{
	"openai", "google", "microsoft", "apple", "amazon", "meta",
	"tesla", "spacex", "nvidia", "netflix", "twitter", "tiktok",
	"youtube", "instagram", "bitcoin", "ethereum", "chatgpt",
	"iphone", "android", "playstation", "xbox", "nasa",
	"elon musk", "sam altman", "biden", "trump", "putin",
	"taylor swift", "olympics", "world cup", "super bowl",
}

// realTimeWords denote live or volatile data.
var realTimeWords = []string{
	"price", "cost of", "stock", "weather", "temperature",
	"score", "news", "trending", "live", "exchange rate",
	"forecast", "traffic", "election", "poll", "ranking", "schedule",
}

// creativeWords are generative/explanatory verbs and forms. A match applies
// a penalty unless a time indicator overrides it.
var creativeWords = []string{
	"explain", "write", "create", "generate", "compose", "make me",
	"poem", "story", "essay", "joke", "song", "recipe",
	"imagine", "design", "draw", "translate", "summarize",
	"paraphrase", "brainstorm", "rewrite",
}

var (
	recentYearRegex  = regexp.MustCompile(`\b20(2[0-9]|30)\b`)
	comparativeRegex = regexp.MustCompile(`\b(best|worst|top|biggest|largest|smallest|fastest|cheapest|richest|greatest|highest|lowest|most popular)\s+(in|of|for|among)\b`)
	eventRegex       = regexp.MustCompile(`\b(what happened|what's happening|what is happening|did .+ happen|will .+ happen)\b`)
	statsRegex       = regexp.MustCompile(`\b(how many|how much|number of|percentage|statistics|stats|count of)\b`)
	locationRegex    = regexp.MustCompile(`\b(in|at|near|around)\s+(america|usa|uk|england|london|india|china|japan|russia|germany|france|canada|australia|brazil|europe|africa|new york|california|texas|paris|tokyo|dubai)\b`)
	whitespaceRegex  = regexp.MustCompile(`\s+`)
)

// =============================================================================
// NORMALIZATION
// =============================================================================

// Normalize lowercases, trims, NFC-normalizes, and collapses internal
// whitespace. Extraction and scoring are invariant under anything Normalize
// removes, which keeps the score reproducible for equivalent inputs.
func Normalize(query string) string {
	q := norm.NFC.String(query)
	q = strings.ToLower(strings.TrimSpace(q))
	return whitespaceRegex.ReplaceAllString(q, " ")
}

// =============================================================================
// FEATURE EXTRACTION
// =============================================================================

// Extract derives the FeatureSet for a query. Pure and deterministic: no
// I/O, case-insensitive, identical input text always yields an identical
// FeatureSet. An empty query yields the zero FeatureSet.
func Extract(query string) FeatureSet {
	q := Normalize(query)
	if q == "" {
		return FeatureSet{}
	}

	f := FeatureSet{
		HasRecentYear:     recentYearRegex.MatchString(q),
		HasComparative:    comparativeRegex.MatchString(q),
		IsEventQuery:      eventRegex.MatchString(q),
		NeedsStats:        statsRegex.MatchString(q),
		HasLocation:       locationRegex.MatchString(q),
		IsCommand:         strings.HasPrefix(q, "/"),
		WordCount:         len(strings.Fields(q)),
		HasTimeIndicator:  containsAny(q, timeIndicators),
		HasNamedEntity:    containsAny(q, namedEntities),
		NeedsRealTimeData: containsAny(q, realTimeWords),
	}

	for _, opener := range questionOpeners {
		if strings.HasPrefix(q, opener) {
			f.IsQuestion = true
			break
		}
	}

	// Time indicators override the creative penalty: "write a summary of
	// today's news" should still search.
	f.IsCreativeRequest = containsAny(q, creativeWords) && !f.HasTimeIndicator

	return f
}

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
