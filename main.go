// webchat TUI - a terminal chat assistant with heuristic web-search triggering.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/webchat-tui/internal/api"
	"github.com/jeranaias/webchat-tui/internal/cli"
	"github.com/jeranaias/webchat-tui/internal/commands"
	"github.com/jeranaias/webchat-tui/internal/config"
	"github.com/jeranaias/webchat-tui/internal/logging"
	"github.com/jeranaias/webchat-tui/internal/news"
	"github.com/jeranaias/webchat-tui/internal/storage"
	"github.com/jeranaias/webchat-tui/internal/telemetry"
	"github.com/jeranaias/webchat-tui/internal/ui/chat"
	"github.com/jeranaias/webchat-tui/internal/ui/styles"
	"github.com/jeranaias/webchat-tui/internal/websearch"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

const usage = `webchat - terminal chat assistant with web-search triggering

Usage:
  webchat              Start the full-screen chat TUI
  webchat ask <query>  Answer one question and exit
  webchat chat         Interactive REPL chat
  webchat sessions     List saved sessions
  webchat version      Print version information

Queries about current events, recent releases, and live facts are answered
with web search context; everything else goes straight to the endpoint.
Configuration lives at ~/.webchat/config.toml.`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	config.SetGlobal(cfg)

	logger := logging.New(cfg.Log.Level, cfg.Log.Path)
	defer logger.Sync()

	args := os.Args[1:]
	if len(args) == 0 {
		runTUI(cfg, logger)
		return
	}

	switch args[0] {
	case "ask":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: webchat ask <query>")
			os.Exit(1)
		}
		query := strings.Join(args[1:], " ")
		if err := cli.HandleAsk(context.Background(), newRunner(cfg, logger), query); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

	case "chat":
		store := openStore(logger)
		cmdCtx := commands.NewContext(store, newAPIClient(cfg), newNewsFeed(cfg, logger))
		if err := cli.HandleChat(context.Background(), newRunner(cfg, logger), cmdCtx); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

	case "sessions":
		store, err := storage.NewSessionStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		if err := cli.HandleSessions(store); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

	case "version", "--version", "-v":
		fmt.Printf("webchat %s (%s, built %s)\n", Version, GitCommit, BuildDate)

	case "help", "--help", "-h":
		fmt.Println(usage)

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s\n", args[0], usage)
		os.Exit(1)
	}
}

// =============================================================================
// WIRING
// =============================================================================

func newAPIClient(cfg *config.Config) *api.Client {
	client := api.NewClient(cfg.Endpoint.URL)
	if cfg.Endpoint.TimeoutSecs > 0 {
		client = client.WithTimeout(time.Duration(cfg.Endpoint.TimeoutSecs) * time.Second)
	}
	return client
}

func newAggregator(cfg *config.Config, logger *zap.Logger) *websearch.Aggregator {
	return websearch.NewAggregator(websearch.Options{
		WikiBase:    cfg.Search.WikiBase,
		InstantBase: cfg.Search.InstantBase,
		RelayPrefix: cfg.Search.RelayPrefix,
		Timeout:     time.Duration(cfg.Search.TimeoutSecs) * time.Second,
	}, logger)
}

func newNewsFeed(cfg *config.Config, logger *zap.Logger) *news.Feed {
	return news.NewFeed(news.Options{
		TranslatorBase: cfg.News.TranslatorBase,
		FeedURL:        cfg.News.FeedURL,
	}, logger)
}

func newRunner(cfg *config.Config, logger *zap.Logger) *cli.Runner {
	return &cli.Runner{
		API:           newAPIClient(cfg),
		Search:        newAggregator(cfg, logger),
		Decisions:     openDecisions(logger),
		Logger:        logger,
		SearchEnabled: cfg.Search.Enabled,
	}
}

func openStore(logger *zap.Logger) *storage.SessionStore {
	store, err := storage.NewSessionStore()
	if err != nil {
		logger.Warn("session store unavailable, running without persistence", zap.Error(err))
		return nil
	}
	return store
}

func openDecisions(logger *zap.Logger) *telemetry.Log {
	decisions, err := telemetry.Open("")
	if err != nil {
		logger.Warn("decision log unavailable", zap.Error(err))
		return nil
	}
	return decisions
}

// =============================================================================
// TUI
// =============================================================================

func runTUI(cfg *config.Config, logger *zap.Logger) {
	theme := styles.NewTheme()
	decisions := openDecisions(logger)
	if decisions != nil {
		defer decisions.Close()
	}

	m := chat.New(theme, chat.Deps{
		API:           newAPIClient(cfg),
		Search:        newAggregator(cfg, logger),
		Store:         openStore(logger),
		News:          newNewsFeed(cfg, logger),
		Decisions:     decisions,
		Logger:        logger,
		SearchEnabled: cfg.Search.Enabled,
	})

	// Hot-reload the config file; a reload only swaps the global snapshot,
	// live collaborators pick it up on the next start.
	configPath, err := config.ConfigPath()
	if err == nil {
		watcher, werr := config.NewWatcher(configPath, func(next *config.Config) {
			config.SetGlobal(next)
			logger.Info("config reloaded")
		}, logger)
		if werr == nil {
			if err := watcher.Watch(); err != nil {
				logger.Warn("config watch failed", zap.Error(err))
			}
			defer watcher.Close()
		} else {
			logger.Warn("config watcher unavailable", zap.Error(werr))
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
