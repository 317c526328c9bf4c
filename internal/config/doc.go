// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for webchat.
//
// # Configuration Sources
//
// In order of precedence:
//
//  1. Environment variables (WEBCHAT_*)
//  2. ~/.webchat/config.toml
//  3. Built-in defaults
//
// # Hot Reload
//
// A Watcher can be attached to the config file; edits are debounced,
// re-parsed, validated, and delivered to a callback. A file that fails to
// parse keeps the previous configuration in effect.
package config
