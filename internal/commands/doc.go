// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system.
//
// Commands are input lines starting with "/". The Parser tokenizes input
// with quote-aware splitting, the Registry maps names and aliases to
// Command definitions, and handlers return tea.Cmd values that produce
// messages for the application's update loop.
//
// # Built-in Commands
//
//   - /help      show available commands
//   - /quit      exit the application
//   - /new       start a new session
//   - /clear     clear the current session
//   - /sessions  list saved sessions
//   - /load      load a session by index or ID
//   - /image     generate an image from a prompt
//   - /news      show current headlines
package commands
