// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the webchat TUI.
//
// Components are pure renderers: they hold display state and produce styled
// strings, leaving all behavior to the chat model's update loop.
//
//   - Header: title bar with session title and search indicator
//   - StatusBar: bottom bar with status, route, and shortcuts
//   - CodeBlock: chroma-highlighted code with language badge
//   - Markdown: glamour renderer for assistant replies
package components
