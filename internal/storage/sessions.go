// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides session persistence for webchat.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/webchat-tui/internal/model"
	"github.com/jeranaias/webchat-tui/internal/util"
)

// sessionsFile is the name of the single JSON blob holding all sessions.
const sessionsFile = "sessions.json"

// MaxSessions limits stored sessions. The oldest are dropped on save once
// the limit is exceeded.
const MaxSessions = 100

// =============================================================================
// SESSION STORE
// =============================================================================

// SessionStore persists all sessions as one JSON document. Every mutation
// rewrites the whole file atomically; the file is the unit of consistency,
// not the individual session.
type SessionStore struct {
	// BaseDir is the directory holding the sessions file.
	// Default: ~/.webchat/
	BaseDir string

	mu       sync.Mutex
	sessions map[string]*model.Session
	loaded   bool
}

// NewSessionStore creates a store rooted at ~/.webchat.
func NewSessionStore() (*SessionStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewSessionStoreWithDir(filepath.Join(homeDir, ".webchat"))
}

// NewSessionStoreWithDir creates a store with a custom directory.
func NewSessionStoreWithDir(baseDir string) (*SessionStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &SessionStore{
		BaseDir:  baseDir,
		sessions: make(map[string]*model.Session),
	}, nil
}

// =============================================================================
// BLOB I/O
// =============================================================================

// load reads the blob from disk once. A missing file is an empty store; a
// corrupt file is an error so the caller does not silently overwrite data.
func (s *SessionStore) load() error {
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			s.loaded = true
			return nil
		}
		return err
	}

	var all []*model.Session
	if err := json.Unmarshal(data, &all); err != nil {
		return &SessionError{Message: "sessions file is corrupt: " + err.Error()}
	}

	for _, sess := range all {
		if sess.ID == "" {
			continue
		}
		s.sessions[sess.ID] = sess
	}
	s.loaded = true
	return nil
}

// flush writes the whole blob back to disk, most recent first.
func (s *SessionStore) flush() error {
	all := s.sorted()

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}

	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	return util.AtomicWriteFile(s.filePath(), data, 0644)
}

// sorted returns all sessions ordered most recent first.
func (s *SessionStore) sorted() []*model.Session {
	all := make([]*model.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, sess)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Date.After(all[j].Date)
	})
	return all
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Put saves a session, creating or replacing it by ID.
func (s *SessionStore) Put(sess *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	if sess.ID == "" {
		return &SessionError{Message: "session has no ID"}
	}

	s.sessions[sess.ID] = sess
	s.enforceLimit()
	return s.flush()
}

// Get retrieves a session by ID.
func (s *SessionStore) Get(id string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// GetByIndex retrieves a session by its position in the list (0 = most
// recent).
func (s *SessionStore) GetByIndex(index int) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}

	all := s.sorted()
	if index < 0 || index >= len(all) {
		return nil, ErrSessionNotFound
	}
	return all[index], nil
}

// List returns metadata for all sessions, most recent first.
func (s *SessionStore) List() ([]SessionMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}

	all := s.sorted()
	metas := make([]SessionMeta, 0, len(all))
	for _, sess := range all {
		metas = append(metas, SessionMeta{
			ID:        sess.ID,
			Title:     sess.Title,
			Date:      sess.Date,
			TurnCount: len(sess.Messages),
			Preview:   previewOf(sess),
		})
	}
	return metas, nil
}

// Delete removes a session by ID.
func (s *SessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}

	delete(s.sessions, id)
	return s.flush()
}

// Clear removes all sessions.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}

	s.sessions = make(map[string]*model.Session)
	return s.flush()
}

// enforceLimit drops the oldest sessions once MaxSessions is exceeded.
// Caller holds the lock.
func (s *SessionStore) enforceLimit() {
	if len(s.sessions) <= MaxSessions {
		return
	}
	all := s.sorted()
	for _, sess := range all[MaxSessions:] {
		delete(s.sessions, sess.ID)
	}
}

// =============================================================================
// METADATA
// =============================================================================

// SessionMeta contains metadata for listing sessions.
type SessionMeta struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	TurnCount int       `json:"turn_count"`
	Preview   string    `json:"preview"` // First user message truncated
}

// previewOf returns the first user message, truncated.
func previewOf(sess *model.Session) string {
	for _, t := range sess.Messages {
		if t.Role == model.RoleUser && t.Content != "" {
			preview := strings.ReplaceAll(t.Content, "\n", " ")
			return util.TruncateRunes(preview, 80)
		}
	}
	return ""
}

// filePath returns the path of the sessions blob.
func (s *SessionStore) filePath() string {
	return filepath.Join(s.BaseDir, sessionsFile)
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrSessionNotFound is returned when a session doesn't exist.
// Use errors.Is(err, ErrSessionNotFound) to check for this error.
var ErrSessionNotFound = &SessionError{Message: "session not found"}

// SessionError represents a session storage error.
// It implements the error interface and can be compared using errors.Is.
type SessionError struct {
	Message string
}

// Error implements the error interface.
func (e *SessionError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing session errors.
func (e *SessionError) Is(target error) bool {
	t, ok := target.(*SessionError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}
