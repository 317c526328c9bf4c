// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the application's structured logger.
//
// Logs go to a file, never to the terminal: the TUI owns the screen. Control
// flow never depends on logging; a logger that cannot be built degrades to a
// no-op.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultFileName is the log file name inside the config directory.
const DefaultFileName = "webchat.log"

// New builds a file-backed zap logger at the given level. An empty path
// defaults to ~/.webchat/webchat.log. If the file cannot be opened, a no-op
// logger is returned so callers never need to branch on logging failures.
func New(level, path string) *zap.Logger {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return zap.NewNop()
		}
		path = filepath.Join(home, ".webchat", DefaultFileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return zap.NewNop()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// parseLevel maps a config level string to a zap level. Unknown strings
// default to info.
func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
