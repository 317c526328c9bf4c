// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea chat view.
//
// This file defines the message types produced by the generation pipeline.
// Command messages (/help, /sessions, /news, ...) are defined in the
// commands package and consumed here.
package chat

import "time"

// =============================================================================
// PIPELINE MESSAGES
// =============================================================================

// ReplyMsg delivers one completed assistant reply.
type ReplyMsg struct {
	Content   string
	Searched  bool     // answer was built with live search context
	FellBack  bool     // search path failed, reply came from the retry
	Citations []string // source URLs attached to a searched answer
	Latency   time.Duration
	Err       error
}

// ImageReplyMsg delivers the result of an /image request.
type ImageReplyMsg struct {
	Prompt string
	URL    string
	Err    error
}

// ErrorDismissMsg clears the error state and returns focus to the input.
type ErrorDismissMsg struct{}
