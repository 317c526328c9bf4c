// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-TUI surface: a one-shot ask command, a
// readline chat REPL, and session listing. Both modes drive the same
// route → search → prompt → endpoint pipeline as the full-screen view.
package cli
