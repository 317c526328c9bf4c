// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/webchat-tui/internal/api"
	"github.com/jeranaias/webchat-tui/internal/news"
	"github.com/jeranaias/webchat-tui/internal/storage"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help
	Description string

	// Usage shows argument syntax (e.g., "/load <id|index>")
	Usage string

	// Args defines the expected arguments
	Args []ArgDef

	// Handler is the function that executes the command
	Handler func(ctx *Context, args []string) tea.Cmd

	// Category for grouping in help display
	Category string
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	Name        string
	Required    bool
	Description string
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands, sorted by name.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// ByCategory returns commands grouped by category, each group sorted by
// name.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.commands {
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	for _, group := range result {
		sort.Slice(group, func(i, j int) bool { return group[i].Name < group[j].Name })
	}
	return result
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show help and available commands",
		Category:    "Navigation",
		Handler:     HandleHelp,
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit webchat",
		Category:    "Navigation",
		Handler:     HandleQuit,
	})

	r.Register(&Command{
		Name:        "/new",
		Aliases:     []string{"/n"},
		Description: "Start a new chat session",
		Category:    "Session",
		Handler:     HandleNew,
	})

	r.Register(&Command{
		Name:        "/clear",
		Description: "Clear the current session's messages",
		Category:    "Session",
		Handler:     HandleClear,
	})

	r.Register(&Command{
		Name:        "/sessions",
		Aliases:     []string{"/ls"},
		Description: "List saved sessions",
		Category:    "Session",
		Handler:     HandleSessions,
	})

	r.Register(&Command{
		Name:        "/load",
		Aliases:     []string{"/l"},
		Description: "Load a saved session by index or ID",
		Usage:       "/load <index|id>",
		Args: []ArgDef{
			{Name: "session", Required: false, Description: "Session index (from /sessions) or ID"},
		},
		Category: "Session",
		Handler:  HandleLoad,
	})

	r.Register(&Command{
		Name:        "/image",
		Aliases:     []string{"/img"},
		Description: "Generate an image from a prompt",
		Usage:       "/image <prompt>",
		Args: []ArgDef{
			{Name: "prompt", Required: true, Description: "Description of the image to generate"},
		},
		Category: "Generation",
		Handler:  HandleImage,
	})

	r.Register(&Command{
		Name:        "/news",
		Description: "Show current headlines",
		Category:    "Generation",
		Handler:     HandleNews,
	})
}

// =============================================================================
// CONTEXT TYPE
// =============================================================================

// Context provides access to application state for command handlers.
// All fields are optional and may be nil - handlers check before use.
type Context struct {
	// Storage handles session persistence
	Storage *storage.SessionStore

	// API is the inference endpoint client
	API *api.Client

	// News fetches headlines
	News *news.Feed
}

// NewContext creates a new command context with the given dependencies.
// All parameters can be nil.
func NewContext(store *storage.SessionStore, client *api.Client, feed *news.Feed) *Context {
	return &Context{
		Storage: store,
		API:     client,
		News:    feed,
	}
}
