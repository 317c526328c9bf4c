// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/jeranaias/webchat-tui/internal/model"
	"github.com/jeranaias/webchat-tui/internal/storage"
)

// =============================================================================
// PARSER TESTS
// =============================================================================

func TestIsCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"/help", true},
		{"/image a cat", true},
		{"  /help", true},
		{"hello", false},
		{"hello /help", false},
		{"", false},
		{"/", true},
	}

	for _, tc := range tests {
		got := IsCommand(tc.input)
		if got != tc.want {
			t.Errorf("IsCommand(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestExtractCommandName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/help", "/help"},
		{"/load 3", "/load"},
		{"/image a sunset", "/image"},
		{"  /help  ", "/help"},
		{"hello", ""},
		{"/", "/"},
	}

	for _, tc := range tests {
		got := ExtractCommandName(tc.input)
		if got != tc.want {
			t.Errorf("ExtractCommandName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestSplitCommandLine(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"/load 3", []string{"/load", "3"}},
		{`/image "a red cat"`, []string{"/image", "a red cat"}},
		{`/image 'single quoted'`, []string{"/image", "single quoted"}},
		{`/image "escaped \" quote"`, []string{"/image", `escaped " quote`}},
		{"/help   extra   spaces", []string{"/help", "extra", "spaces"}},
		{"", nil},
	}

	for _, tc := range tests {
		got := splitCommandLine(tc.input)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitCommandLine(%q) = %#v, want %#v", tc.input, got, tc.want)
		}
	}
}

func TestParserParse(t *testing.T) {
	p := NewParser(NewRegistry())

	result := p.Parse("/image a red cat")
	if !result.IsCommand {
		t.Fatal("Expected IsCommand=true")
	}
	if result.Command == nil || result.Command.Name != "/image" {
		t.Fatalf("Expected /image command, got %+v", result.Command)
	}
	if result.RawArgs != "a red cat" {
		t.Errorf("RawArgs = %q, want %q", result.RawArgs, "a red cat")
	}
	if len(result.Args) != 3 {
		t.Errorf("Args count = %d, want 3", len(result.Args))
	}
}

func TestParserParseNonCommand(t *testing.T) {
	p := NewParser(NewRegistry())

	result := p.Parse("what is the weather")
	if result.IsCommand {
		t.Error("Expected IsCommand=false for plain text")
	}
	if result.Command != nil {
		t.Error("Expected nil Command for plain text")
	}
}

func TestParserParseUnknownCommand(t *testing.T) {
	p := NewParser(NewRegistry())

	result := p.Parse("/nonsense")
	if !result.IsCommand {
		t.Error("Expected IsCommand=true for unknown command")
	}
	if result.Command != nil {
		t.Error("Expected nil Command for unknown command")
	}
}

func TestParserCaseInsensitiveName(t *testing.T) {
	p := NewParser(NewRegistry())

	result := p.Parse("/HELP")
	if result.Command == nil || result.Command.Name != "/help" {
		t.Errorf("Expected /HELP to resolve to /help, got %+v", result.Command)
	}
}

// =============================================================================
// REGISTRY TESTS
// =============================================================================

func TestRegistryBuiltins(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"/help", "/quit", "/new", "/clear", "/sessions", "/load", "/image", "/news"} {
		if r.Get(name) == nil {
			t.Errorf("Built-in command %s not registered", name)
		}
	}
}

func TestRegistryByCategory(t *testing.T) {
	r := NewRegistry()
	groups := r.ByCategory()

	want := map[string][]string{
		"Navigation": {"/help", "/quit"},
		"Session":    {"/clear", "/load", "/new", "/sessions"},
		"Generation": {"/image", "/news"},
	}
	for category, names := range want {
		group, ok := groups[category]
		if !ok {
			t.Fatalf("Category %q missing", category)
		}
		got := make([]string, len(group))
		for i, cmd := range group {
			got[i] = cmd.Name
		}
		if !reflect.DeepEqual(got, names) {
			t.Errorf("ByCategory()[%q] = %v, want %v (sorted)", category, got, names)
		}
	}
}

func TestRegistryAliases(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		alias string
		want  string
	}{
		{"/h", "/help"},
		{"/?", "/help"},
		{"/q", "/quit"},
		{"/n", "/new"},
		{"/ls", "/sessions"},
		{"/l", "/load"},
		{"/img", "/image"},
	}

	for _, tc := range tests {
		cmd := r.Get(tc.alias)
		if cmd == nil || cmd.Name != tc.want {
			t.Errorf("Get(%q) should resolve to %s", tc.alias, tc.want)
		}
	}
}

func TestValidateArgs(t *testing.T) {
	r := NewRegistry()
	img := r.Get("/image")

	if err := ValidateArgs(img, nil); err == nil {
		t.Error("Expected error for /image with no args")
	}
	if err := ValidateArgs(img, []string{"a", "cat"}); err != nil {
		t.Errorf("Unexpected error for /image with args: %v", err)
	}
}

// =============================================================================
// HANDLER TESTS
// =============================================================================

func TestHandleImage(t *testing.T) {
	cmd := HandleImage(nil, []string{"a", "red", "cat"})
	msg := cmd()

	imgMsg, ok := msg.(GenerateImageMsg)
	if !ok {
		t.Fatalf("Expected GenerateImageMsg, got %T", msg)
	}
	if imgMsg.Prompt != "a red cat" {
		t.Errorf("Prompt = %q, want %q", imgMsg.Prompt, "a red cat")
	}
}

func TestHandleImageMissingPrompt(t *testing.T) {
	cmd := HandleImage(nil, nil)
	msg := cmd()

	if _, ok := msg.(ErrorMsg); !ok {
		t.Fatalf("Expected ErrorMsg, got %T", msg)
	}
}

func TestHandleLoadByIndex(t *testing.T) {
	store, err := storage.NewSessionStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	older := model.NewSession()
	older.AppendUser("older session")
	older.Date = time.Now().Add(-time.Hour)
	if err := store.Put(older); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	newest := model.NewSession()
	newest.AppendUser("newest session")
	if err := store.Put(newest); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	ctx := NewContext(store, nil, nil)

	// The listing is most-recent-first and 1-based: [1] is the newest.
	msg := HandleLoad(ctx, []string{"1"})()
	loaded, ok := msg.(SessionLoadedMsg)
	if !ok {
		t.Fatalf("Expected SessionLoadedMsg, got %T", msg)
	}
	if loaded.Error != nil {
		t.Fatalf("Load error: %v", loaded.Error)
	}
	if loaded.Session.ID != newest.ID {
		t.Errorf("/load 1 loaded %q, want newest %q", loaded.Session.ID, newest.ID)
	}

	msg = HandleLoad(ctx, []string{"2"})()
	loaded = msg.(SessionLoadedMsg)
	if loaded.Error != nil {
		t.Fatalf("Load error: %v", loaded.Error)
	}
	if loaded.Session.ID != older.ID {
		t.Errorf("/load 2 loaded %q, want older %q", loaded.Session.ID, older.ID)
	}
}

func TestHandleLoadIndexOutOfRange(t *testing.T) {
	store, err := storage.NewSessionStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	sess := model.NewSession()
	sess.AppendUser("only session")
	if err := store.Put(sess); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	ctx := NewContext(store, nil, nil)

	for _, ref := range []string{"0", "-1", "2"} {
		msg := HandleLoad(ctx, []string{ref})()
		loaded, ok := msg.(SessionLoadedMsg)
		if !ok {
			t.Fatalf("Expected SessionLoadedMsg, got %T", msg)
		}
		if !errors.Is(loaded.Error, storage.ErrSessionNotFound) {
			t.Errorf("/load %s error = %v, want ErrSessionNotFound", ref, loaded.Error)
		}
	}
}

func TestHandleLoadByID(t *testing.T) {
	store, err := storage.NewSessionStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	sess := model.NewSession()
	if err := store.Put(sess); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	ctx := NewContext(store, nil, nil)
	msg := HandleLoad(ctx, []string{sess.ID})()

	loaded, ok := msg.(SessionLoadedMsg)
	if !ok {
		t.Fatalf("Expected SessionLoadedMsg, got %T", msg)
	}
	if loaded.Error != nil {
		t.Fatalf("Load error: %v", loaded.Error)
	}
}

func TestHandleLoadNotFound(t *testing.T) {
	store, err := storage.NewSessionStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	ctx := NewContext(store, nil, nil)
	msg := HandleLoad(ctx, []string{"sess_missing"})()

	loaded, ok := msg.(SessionLoadedMsg)
	if !ok {
		t.Fatalf("Expected SessionLoadedMsg, got %T", msg)
	}
	if !errors.Is(loaded.Error, storage.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", loaded.Error)
	}
}

func TestHandleLoadNoArgsListsSessions(t *testing.T) {
	store, err := storage.NewSessionStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	ctx := NewContext(store, nil, nil)
	msg := HandleLoad(ctx, nil)()

	if _, ok := msg.(SessionListMsg); !ok {
		t.Fatalf("Expected SessionListMsg, got %T", msg)
	}
}

func TestHandleNewsWithoutFeed(t *testing.T) {
	msg := HandleNews(nil, nil)()

	newsMsg, ok := msg.(NewsMsg)
	if !ok {
		t.Fatalf("Expected NewsMsg, got %T", msg)
	}
	if len(newsMsg.Items) == 0 {
		t.Error("Expected static fallback headlines")
	}
}
