// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompt builds the final text sent to the language model: a fixed
// instruction preamble, optional search context, recent conversation turns,
// and the user's query. Pure string construction, no I/O.
package prompt
