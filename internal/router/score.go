// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

// =============================================================================
// SCORING POLICY
// =============================================================================

// Fixed policy constants. The weights and threshold are tuned as a set;
// changing one shifts the behavior of every query class.
const (
	weightTimeIndicator  = 40
	weightRecentYear     = 30
	weightRealTimeData   = 35
	weightEventQuery     = 35
	weightEntityQuestion = 25
	weightComparative    = 20
	weightStats          = 20
	weightLocation       = 15
	weightLongQuestion   = 10

	penaltyCreative   = -50
	penaltyCommand    = -100
	penaltyShortQuery = -20

	// longQuestionWords is the word count above which a question earns the
	// long-question bonus.
	longQuestionWords = 4

	// shortQueryWords is the word count below which the short-query penalty
	// applies.
	shortQueryWords = 3

	// SearchThreshold separates "search" from "no search".
	SearchThreshold = 30
)

// =============================================================================
// SCORER
// =============================================================================

// Score combines a FeatureSet into a weighted integer. Contributions are
// additive, independent, and order-insensitive; the result is a pure function
// of the features. The command penalty is large enough that slash commands
// never reach the threshold regardless of other matches.
func Score(f FeatureSet) int {
	score := 0

	if f.HasTimeIndicator {
		score += weightTimeIndicator
	}
	if f.HasRecentYear {
		score += weightRecentYear
	}
	if f.NeedsRealTimeData {
		score += weightRealTimeData
	}
	if f.IsEventQuery {
		score += weightEventQuery
	}
	if f.HasNamedEntity && f.IsQuestion {
		score += weightEntityQuestion
	}
	if f.HasComparative {
		score += weightComparative
	}
	if f.NeedsStats {
		score += weightStats
	}
	if f.HasLocation && f.IsQuestion {
		score += weightLocation
	}
	if f.IsQuestion && f.WordCount > longQuestionWords {
		score += weightLongQuestion
	}

	if f.IsCreativeRequest {
		score += penaltyCreative
	}
	if f.IsCommand {
		score += penaltyCommand
	}
	if f.WordCount < shortQueryWords {
		score += penaltyShortQuery
	}

	return score
}

// ShouldSearch applies the fixed threshold to a score.
func ShouldSearch(score int) bool {
	return score >= SearchThreshold
}

// =============================================================================
// ROUTING
// =============================================================================

// Decide routes one query: slash commands go to the command path, everything
// else goes to the search path or the plain chat path depending on the score.
func Decide(query string) Decision {
	f := Extract(query)
	s := Score(f)

	route := RouteChat
	switch {
	case f.IsCommand:
		route = RouteCommand
	case ShouldSearch(s):
		route = RouteSearch
	}

	return Decision{Route: route, Features: f, Score: s}
}
