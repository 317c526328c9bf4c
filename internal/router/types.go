// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

// =============================================================================
// FEATURE SET
// =============================================================================

// FeatureSet holds the lexical signals derived from one query. Each flag is
// the result of one independent detection rule; overlapping keyword matches
// across rules are allowed. A FeatureSet is computed fresh per query and
// never mutated after extraction.
type FeatureSet struct {
	// HasTimeIndicator is true when the query contains a temporal phrase
	// ("latest", "today", "as of", ...).
	HasTimeIndicator bool

	// HasRecentYear is true when the query contains a four-digit year in
	// the range 2020-2030.
	HasRecentYear bool

	// IsQuestion is true when the normalized query starts with an
	// interrogative opener.
	IsQuestion bool

	// HasNamedEntity is true when the query mentions a known company,
	// person, product, or event.
	HasNamedEntity bool

	// NeedsRealTimeData is true when the query asks about live or volatile
	// data (prices, weather, scores, ...).
	NeedsRealTimeData bool

	// HasComparative is true for superlative/comparative phrasing scoped by
	// a preposition ("best in", "top of", ...).
	HasComparative bool

	// IsEventQuery is true for "what happened / what's happening /
	// did ... happen / will ... happen" phrasing.
	IsEventQuery bool

	// NeedsStats is true for quantity-request phrasing ("how many",
	// "percentage", ...).
	NeedsStats bool

	// HasLocation is true when a preposition is followed by a known place
	// name. It only contributes to the score together with IsQuestion.
	HasLocation bool

	// IsCreativeRequest is true for generative/explanatory verbs ("explain",
	// "write", "poem", ...) unless a time indicator is also present; time
	// indicators override the creative penalty.
	IsCreativeRequest bool

	// IsCommand is true when the normalized query starts with "/".
	IsCommand bool

	// WordCount is the number of whitespace-delimited tokens.
	WordCount int
}

// =============================================================================
// ROUTE
// =============================================================================

// Route is the path a chat turn takes.
type Route int

const (
	// RouteChat sends the query through the plain conversational path.
	RouteChat Route = iota
	// RouteSearch augments the query with live web-search context first.
	RouteSearch
	// RouteCommand dispatches the input to the slash-command handler.
	RouteCommand
)

// String returns the human-readable name of the route.
func (r Route) String() string {
	switch r {
	case RouteChat:
		return "chat"
	case RouteSearch:
		return "search"
	case RouteCommand:
		return "command"
	default:
		return "unknown"
	}
}

// =============================================================================
// DECISION
// =============================================================================

// Decision is the full outcome of routing one query, kept for diagnostics.
type Decision struct {
	Route    Route
	Features FeatureSet
	Score    int
}

// ShouldSearch reports whether the decision selected the search path.
func (d Decision) ShouldSearch() bool {
	return d.Route == RouteSearch
}
