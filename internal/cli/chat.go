// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive REPL chat with input history.
//
// Handles "webchat chat": a readline loop over the same pipeline the TUI
// uses, for terminals where the full-screen view is unwanted.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/peterh/liner"

	"github.com/jeranaias/webchat-tui/internal/commands"
	"github.com/jeranaias/webchat-tui/internal/config"
	"github.com/jeranaias/webchat-tui/internal/model"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

const historyFileName = "chat_history"

// lineReader wraps liner with persistent history.
type lineReader struct {
	line        *liner.State
	historyFile string
}

func newLineReader() *lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	r := &lineReader{
		line:        line,
		historyFile: filepath.Join(configDir, historyFileName),
	}
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
	return r
}

func (r *lineReader) read(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

func (r *lineReader) close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			r.line.WriteHistory(f)
			f.Close()
		}
	}
	r.line.Close()
}

// =============================================================================
// REPL LOOP
// =============================================================================

// HandleChat runs the interactive REPL until /quit, ctrl+c, or EOF.
func HandleChat(ctx context.Context, runner *Runner, cmdCtx *commands.Context) error {
	if runner.API == nil || !runner.API.IsConfigured() {
		return fmt.Errorf("no endpoint configured: set endpoint.url in the config file or WEBCHAT_ENDPOINT")
	}

	reader := newLineReader()
	defer reader.close()

	registry := commands.NewRegistry()
	parser := commands.NewParser(registry)
	session := model.NewSession()

	fmt.Println("webchat - type /help for commands, /quit to exit")

	for {
		input, err := reader.read("> ")
		if err != nil {
			if err == liner.ErrPromptAborted {
				return nil
			}
			// EOF or a terminal error ends the loop.
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if result := parser.Parse(input); result.IsCommand {
			if quit := runCommand(ctx, result, registry, cmdCtx, runner, session); quit {
				return nil
			}
			continue
		}

		recent := session.Recent(model.RecentWindow)
		session.Append(model.NewUserTurn(input))

		answer, err := runner.Run(ctx, input, recent)
		if err != nil {
			fmt.Println(styled(errorStyle, "error: " + err.Error()))
			continue
		}
		if answer.FellBack {
			fmt.Println(styled(noticeStyle, "web search failed; answered without live context"))
		}

		turn := model.NewAssistantTurn(answer.Content)
		turn.Searched = answer.Searched
		turn.Citations = answer.Citations
		session.Append(turn)

		displayResponse(answer.Content)
		for _, c := range answer.Citations {
			fmt.Println(styled(citationStyle, "  · "+c))
		}

		if store := cmdCtx.Storage; store != nil {
			if err := store.Put(session); err != nil {
				fmt.Println(styled(noticeStyle, "warning: session save failed: " + err.Error()))
			}
		}
	}
}

// runCommand dispatches one slash command and prints its outcome. The
// command handlers produce Bubble Tea messages; here they are executed
// synchronously and rendered as plain text. Returns true on /quit.
func runCommand(ctx context.Context, result commands.ParseResult, registry *commands.Registry, cmdCtx *commands.Context, runner *Runner, session *model.Session) bool {
	if result.Command == nil {
		fmt.Println(styled(errorStyle, fmt.Sprintf("unknown command: /%s (try /help)", result.CommandName)))
		return false
	}
	if err := commands.ValidateArgs(result.Command, result.Args); err != nil {
		fmt.Println(styled(errorStyle, err.Error()))
		return false
	}

	cmd := result.Command.Handler(cmdCtx, result.Args)
	if cmd == nil {
		return false
	}

	switch msg := cmd().(type) {
	case tea.QuitMsg:
		return true

	case commands.ShowHelpMsg:
		printHelp(registry)

	case commands.NewSessionMsg:
		*session = *model.NewSession()
		fmt.Println("started a new session")

	case commands.ClearSessionMsg:
		session.Clear()
		fmt.Println("cleared session history")

	case commands.SessionListMsg:
		if msg.Error != nil {
			fmt.Println(styled(errorStyle, "could not list sessions: " + msg.Error.Error()))
			break
		}
		if len(msg.Sessions) == 0 {
			fmt.Println("no saved sessions yet")
			break
		}
		for i, s := range msg.Sessions {
			fmt.Printf("[%d] %s  %s · %d turns\n",
				i+1, s.Title, s.Date.Format("2006-01-02 15:04"), s.TurnCount)
		}

	case commands.SessionLoadedMsg:
		if msg.Error != nil {
			fmt.Println(styled(errorStyle, "could not load session: " + msg.Error.Error()))
			break
		}
		*session = *msg.Session
		fmt.Printf("loaded session %s (%d turns)\n", session.Title, len(session.Messages))

	case commands.GenerateImageMsg:
		url, err := runner.API.Image(ctx, msg.Prompt)
		if err != nil {
			fmt.Println(styled(errorStyle, "image generation failed: " + err.Error()))
			break
		}
		fmt.Println("image ready: " + url)

	case commands.NewsMsg:
		for _, item := range msg.Items {
			fmt.Println("• " + item.Title)
			if item.Link != "" {
				fmt.Println(styled(citationStyle, "  "+item.Link))
			}
		}

	case commands.ErrorMsg:
		fmt.Println(styled(errorStyle, msg.Title + ": " + msg.Message))
	}
	return false
}

func printHelp(registry *commands.Registry) {
	groups := registry.ByCategory()
	categories := make([]string, 0, len(groups))
	for category := range groups {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		fmt.Println(category + ":")
		for _, cmd := range groups[category] {
			fmt.Printf("  %-24s %s\n", cmd.Usage, cmd.Description)
		}
	}
}
