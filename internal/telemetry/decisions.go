// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry records routing decisions in a local SQLite database.
//
// One row per routed query: when it ran, how it scored, whether it searched,
// which sources answered, and how long the pipeline took. Local diagnostics
// only; nothing leaves the machine.
package telemetry

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// dbFileName is the database file inside the config directory.
const dbFileName = "decisions.db"

// schema creates the decision log table.
const schema = `
CREATE TABLE IF NOT EXISTS decisions (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	ts         INTEGER NOT NULL,
	score      INTEGER NOT NULL,
	searched   INTEGER NOT NULL,
	sources    INTEGER NOT NULL,
	latency_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_decisions_ts ON decisions(ts);
`

// Decision is one recorded routing decision.
type Decision struct {
	Timestamp time.Time
	Score     int
	Searched  bool
	Sources   int // number of search sources that returned a snippet
	Latency   time.Duration
}

// Log is the SQLite-backed decision log.
type Log struct {
	db *sql.DB
}

// Open creates or opens the decision log at the given path. An empty path
// defaults to ~/.webchat/decisions.db.
func Open(path string) (*Log, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".webchat", dbFileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Log{db: db}, nil
}

// Close closes the underlying database.
func (l *Log) Close() error {
	return l.db.Close()
}

// Record appends one decision.
func (l *Log) Record(d Decision) error {
	ts := d.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	searched := 0
	if d.Searched {
		searched = 1
	}
	_, err := l.db.Exec(
		"INSERT INTO decisions (ts, score, searched, sources, latency_ms) VALUES (?, ?, ?, ?, ?)",
		ts.UnixMilli(), d.Score, searched, d.Sources, d.Latency.Milliseconds(),
	)
	return err
}

// Recent returns the most recent n decisions, newest first.
func (l *Log) Recent(n int) ([]Decision, error) {
	rows, err := l.db.Query(
		"SELECT ts, score, searched, sources, latency_ms FROM decisions ORDER BY ts DESC, id DESC LIMIT ?", n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Decision
	for rows.Next() {
		var ts, latencyMs int64
		var searched int
		var d Decision
		if err := rows.Scan(&ts, &d.Score, &searched, &d.Sources, &latencyMs); err != nil {
			return nil, err
		}
		d.Timestamp = time.UnixMilli(ts)
		d.Searched = searched != 0
		d.Latency = time.Duration(latencyMs) * time.Millisecond
		out = append(out, d)
	}
	return out, rows.Err()
}

// Stats summarizes the decision log.
type Stats struct {
	Total        int
	Searched     int
	SearchedRate float64
	AvgLatency   time.Duration
}

// Summary computes aggregate statistics over all recorded decisions.
func (l *Log) Summary() (Stats, error) {
	var s Stats
	var avgLatency sql.NullFloat64

	row := l.db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(searched), 0), AVG(latency_ms) FROM decisions",
	)
	if err := row.Scan(&s.Total, &s.Searched, &avgLatency); err != nil {
		return Stats{}, err
	}
	if s.Total > 0 {
		s.SearchedRate = float64(s.Searched) / float64(s.Total)
	}
	if avgLatency.Valid {
		s.AvgLatency = time.Duration(avgLatency.Float64 * float64(time.Millisecond))
	}
	return s, nil
}
