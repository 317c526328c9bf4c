// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions.go - Session listing for the non-interactive surface.
package cli

import (
	"fmt"

	"github.com/jeranaias/webchat-tui/internal/storage"
)

// HandleSessions prints the saved sessions, most recent first.
func HandleSessions(store *storage.SessionStore) error {
	sessions, err := store.List()
	if err != nil {
		return fmt.Errorf("could not list sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("no saved sessions yet")
		return nil
	}
	for i, s := range sessions {
		fmt.Printf("[%d] %s  %s · %d turns\n",
			i+1, s.Title, s.Date.Format("2006-01-02 15:04"), s.TurnCount)
		if s.Preview != "" {
			fmt.Printf("    %s\n", s.Preview)
		}
	}
	return nil
}
