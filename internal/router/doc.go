// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router decides, per user message, which path a chat turn takes:
// slash command, search-augmented, or plain conversational.
//
// The decision is purely lexical. A feature extractor scans the normalized
// query for fixed keyword sets and patterns, a scorer combines the features
// into a weighted integer, and a fixed threshold turns the score into a
// binary search/no-search decision. No I/O, no model calls, no state.
package router
