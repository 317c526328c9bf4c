// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides session persistence for webchat.
//
// All sessions live in a single JSON document. Every mutation rewrites the
// whole document atomically; partial writes never reach the live file.
//
// # Key Types
//
//   - SessionStore: the persistence layer for sessions
//   - SessionMeta: lightweight metadata for listing
//
// # Usage
//
// Create a store and save a session:
//
//	store, err := storage.NewSessionStore()
//	err = store.Put(session)
//
// List and load sessions:
//
//	metas, err := store.List()
//	sess, err := store.Get(metas[0].ID)
//
// # Storage Location
//
// Sessions are stored in ~/.webchat/sessions.json.
package storage
