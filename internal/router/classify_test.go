// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"reflect"
	"testing"
)

// TestExtractFlags verifies each detection rule independently.
func TestExtractFlags(t *testing.T) {
	tests := []struct {
		name  string
		query string
		check func(FeatureSet) bool
	}{
		{"time_indicator_today", "bitcoin news today", func(f FeatureSet) bool { return f.HasTimeIndicator }},
		{"time_indicator_as_of", "population as of 2024", func(f FeatureSet) bool { return f.HasTimeIndicator }},
		{"recent_year_2024", "best phones of 2024", func(f FeatureSet) bool { return f.HasRecentYear }},
		{"recent_year_2030", "predictions for 2030", func(f FeatureSet) bool { return f.HasRecentYear }},
		{"old_year_not_recent", "music from 1999", func(f FeatureSet) bool { return !f.HasRecentYear }},
		{"question_what", "what is rust", func(f FeatureSet) bool { return f.IsQuestion }},
		{"question_tell_me_about", "tell me about go generics", func(f FeatureSet) bool { return f.IsQuestion }},
		{"not_question_statement", "rust is a language", func(f FeatureSet) bool { return !f.IsQuestion }},
		{"entity_bitcoin", "is bitcoin dead", func(f FeatureSet) bool { return f.HasNamedEntity }},
		{"entity_multiword", "who is elon musk", func(f FeatureSet) bool { return f.HasNamedEntity }},
		{"realtime_price", "gold price", func(f FeatureSet) bool { return f.NeedsRealTimeData }},
		{"realtime_weather", "weather in london", func(f FeatureSet) bool { return f.NeedsRealTimeData }},
		{"comparative_best_in", "best restaurants in paris", func(f FeatureSet) bool { return f.HasComparative }},
		{"comparative_top_of", "top of the charts", func(f FeatureSet) bool { return f.HasComparative }},
		{"no_comparative_without_scope", "the best answer", func(f FeatureSet) bool { return !f.HasComparative }},
		{"event_what_happened", "what happened at the summit", func(f FeatureSet) bool { return f.IsEventQuery }},
		{"event_will_happen", "will the launch happen", func(f FeatureSet) bool { return f.IsEventQuery }},
		{"stats_how_many", "how many people live in tokyo", func(f FeatureSet) bool { return f.NeedsStats }},
		{"stats_percentage", "percentage of internet users", func(f FeatureSet) bool { return f.NeedsStats }},
		{"location_in_london", "what to see in london", func(f FeatureSet) bool { return f.HasLocation }},
		{"creative_poem", "write me a poem", func(f FeatureSet) bool { return f.IsCreativeRequest }},
		{"creative_overridden_by_time", "write a summary of the latest launch", func(f FeatureSet) bool { return !f.IsCreativeRequest && f.HasTimeIndicator }},
		{"command_slash", "/image a cat", func(f FeatureSet) bool { return f.IsCommand }},
		{"not_command_mid_slash", "either/or choices", func(f FeatureSet) bool { return !f.IsCommand }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Extract(tt.query)
			if !tt.check(f) {
				t.Errorf("Extract(%q) = %+v, rule check failed", tt.query, f)
			}
		})
	}
}

// TestExtractWordCount verifies token counting on the normalized string.
func TestExtractWordCount(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 0},
		{"   ", 0},
		{"hi", 1},
		{"hello world", 2},
		{"  spaced   out   words  ", 3},
	}

	for _, tt := range tests {
		if got := Extract(tt.query).WordCount; got != tt.want {
			t.Errorf("Extract(%q).WordCount = %d, want %d", tt.query, got, tt.want)
		}
	}
}

// TestExtractEmptyQuery verifies the all-false zero value for empty input.
func TestExtractEmptyQuery(t *testing.T) {
	if f := Extract(""); f != (FeatureSet{}) {
		t.Errorf("Extract(\"\") = %+v, want zero FeatureSet", f)
	}
}

// TestExtractIdempotent verifies that repeated extraction of the same string
// yields identical FeatureSet values.
func TestExtractIdempotent(t *testing.T) {
	queries := []string{
		"What is the price of Bitcoin today?",
		"write me a poem",
		"/image a cat",
		"",
	}
	for _, q := range queries {
		a, b := Extract(q), Extract(q)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Extract(%q) not idempotent: %+v vs %+v", q, a, b)
		}
	}
}

// TestExtractCaseAndWhitespaceInvariance verifies normalization: case changes
// and leading/trailing whitespace do not change the extracted features.
func TestExtractCaseAndWhitespaceInvariance(t *testing.T) {
	variants := []string{
		"What is the price of Bitcoin today?",
		"what is the price of bitcoin today?",
		"  WHAT IS THE PRICE OF BITCOIN TODAY?  ",
		"What is the  price of   Bitcoin today?",
	}
	base := Extract(variants[0])
	for _, v := range variants[1:] {
		if got := Extract(v); !reflect.DeepEqual(got, base) {
			t.Errorf("Extract(%q) = %+v, want %+v", v, got, base)
		}
	}
}

// TestOverlappingRules verifies that keyword overlap across rule sets is
// allowed and independent: "bitcoin" is a named entity while "price" is
// real-time data, and both fire on the same query.
func TestOverlappingRules(t *testing.T) {
	f := Extract("what is the price of bitcoin")
	if !f.HasNamedEntity {
		t.Error("expected HasNamedEntity for 'bitcoin'")
	}
	if !f.NeedsRealTimeData {
		t.Error("expected NeedsRealTimeData for 'price'")
	}
	if !f.IsQuestion {
		t.Error("expected IsQuestion for 'what' opener")
	}
}
