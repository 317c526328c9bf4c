// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/webchat-tui/internal/model"
	"github.com/jeranaias/webchat-tui/internal/news"
	"github.com/jeranaias/webchat-tui/internal/storage"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// These messages are sent by command handlers to update the application state.

// ShowHelpMsg triggers the help display.
type ShowHelpMsg struct{}

// NewSessionMsg starts a fresh session.
type NewSessionMsg struct{}

// ClearSessionMsg clears the current session's messages.
type ClearSessionMsg struct{}

// SessionListMsg contains the list of saved sessions.
type SessionListMsg struct {
	Sessions []storage.SessionMeta
	Error    error
}

// SessionLoadedMsg contains a loaded session.
type SessionLoadedMsg struct {
	Session *model.Session
	Error   error
}

// GenerateImageMsg requests image generation for a prompt.
type GenerateImageMsg struct {
	Prompt string
}

// NewsMsg contains fetched headlines.
type NewsMsg struct {
	Items []news.Item
}

// ErrorMsg indicates a command error.
type ErrorMsg struct {
	Title   string
	Message string
	Tip     string
}

// =============================================================================
// HANDLER IMPLEMENTATIONS
// =============================================================================

// HandleHelp shows help information.
func HandleHelp(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return ShowHelpMsg{}
	}
}

// HandleQuit exits the application.
func HandleQuit(ctx *Context, args []string) tea.Cmd {
	return tea.Quit
}

// HandleNew starts a new session.
func HandleNew(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return NewSessionMsg{}
	}
}

// HandleClear clears the current session's messages.
func HandleClear(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return ClearSessionMsg{}
	}
}

// HandleSessions lists saved sessions.
func HandleSessions(ctx *Context, args []string) tea.Cmd {
	if ctx == nil || ctx.Storage == nil {
		return func() tea.Msg {
			return ErrorMsg{Title: "No storage", Message: "session storage is not available"}
		}
	}
	store := ctx.Storage
	return func() tea.Msg {
		metas, err := store.List()
		return SessionListMsg{Sessions: metas, Error: err}
	}
}

// HandleLoad loads a saved session by index or ID. With no argument it shows
// the session list instead.
func HandleLoad(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		return HandleSessions(ctx, args)
	}
	if ctx == nil || ctx.Storage == nil {
		return func() tea.Msg {
			return ErrorMsg{Title: "No storage", Message: "session storage is not available"}
		}
	}

	store := ctx.Storage
	ref := args[0]

	return func() tea.Msg {
		// A bare number is a 1-based index into the /sessions list, as
		// displayed; anything else is a session ID.
		if idx, err := strconv.Atoi(ref); err == nil {
			if idx < 1 {
				return SessionLoadedMsg{Error: storage.ErrSessionNotFound}
			}
			sess, err := store.GetByIndex(idx - 1)
			return SessionLoadedMsg{Session: sess, Error: err}
		}
		sess, err := store.Get(ref)
		return SessionLoadedMsg{Session: sess, Error: err}
	}
}

// HandleImage requests image generation.
func HandleImage(ctx *Context, args []string) tea.Cmd {
	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		return func() tea.Msg {
			return ErrorMsg{
				Title:   "Missing prompt",
				Message: "describe the image to generate",
				Tip:     "usage: /image <prompt>",
			}
		}
	}
	return func() tea.Msg {
		return GenerateImageMsg{Prompt: prompt}
	}
}

// HandleNews fetches headlines. The feed falls back to a static list on any
// failure, so this never produces an ErrorMsg.
func HandleNews(ctx *Context, args []string) tea.Cmd {
	if ctx == nil || ctx.News == nil {
		return func() tea.Msg {
			return NewsMsg{Items: news.StaticHeadlines()}
		}
	}
	feed := ctx.News
	return func() tea.Msg {
		reqCtx, cancel := context.WithTimeout(context.Background(), news.DefaultTimeout)
		defer cancel()
		return NewsMsg{Items: feed.Fetch(reqCtx)}
	}
}
