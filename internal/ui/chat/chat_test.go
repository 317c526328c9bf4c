// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/webchat-tui/internal/api"
	"github.com/jeranaias/webchat-tui/internal/commands"
	"github.com/jeranaias/webchat-tui/internal/model"
	"github.com/jeranaias/webchat-tui/internal/telemetry"
	"github.com/jeranaias/webchat-tui/internal/ui/styles"
	"github.com/jeranaias/webchat-tui/internal/websearch"
)

func newTestModel(t *testing.T, deps Deps) Model {
	t.Helper()
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	m := New(styles.NewTheme(), deps)
	resized, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return resized.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// =============================================================================
// IN-FLIGHT GUARD TESTS
// =============================================================================

func TestSubmitRejectedWhileGenerating(t *testing.T) {
	m := newTestModel(t, Deps{API: api.NewClient("http://localhost:1")})
	m.state = StateGenerating
	m.session.Append(model.NewUserTurn("first question"))

	m.input.SetValue("second question")
	updated, cmd := m.Update(keyMsg("enter"))
	m = updated.(Model)

	if cmd != nil {
		t.Error("submit while generating should not produce a command")
	}
	if m.state != StateGenerating {
		t.Errorf("state = %v, want StateGenerating", m.state)
	}
	if got := len(m.session.Messages); got != 1 {
		t.Errorf("len(Messages) = %d, want 1 (rejected, not queued)", got)
	}
}

func TestGuardClearsOnSuccess(t *testing.T) {
	m := newTestModel(t, Deps{})
	m.state = StateGenerating
	m.session.Append(model.NewUserTurn("what is a goroutine"))

	updated, _ := m.Update(ReplyMsg{
		Content:   "A goroutine is a lightweight thread.",
		Searched:  true,
		Citations: []string{"https://en.wikipedia.org/wiki/Goroutine"},
	})
	m = updated.(Model)

	if m.state != StateReady {
		t.Errorf("state = %v, want StateReady", m.state)
	}
	last := m.session.Last()
	if last == nil || last.Role != model.RoleAssistant {
		t.Fatal("expected an assistant turn appended")
	}
	if !last.Searched {
		t.Error("assistant turn should carry the searched flag")
	}
	if len(last.Citations) != 1 {
		t.Errorf("len(Citations) = %d, want 1", len(last.Citations))
	}
}

func TestGuardClearsOnError(t *testing.T) {
	m := newTestModel(t, Deps{})
	m.state = StateGenerating

	updated, _ := m.Update(ReplyMsg{Err: errors.New("connection refused")})
	m = updated.(Model)

	if m.state != StateError {
		t.Errorf("state = %v, want StateError", m.state)
	}
	if m.lastError == nil {
		t.Fatal("expected lastError to be set")
	}

	// esc dismisses the error and returns to ready
	updated, _ = m.Update(keyMsg("esc"))
	m = updated.(Model)
	if m.state != StateReady {
		t.Errorf("state after dismiss = %v, want StateReady", m.state)
	}
}

// =============================================================================
// COMMAND DISPATCH TESTS
// =============================================================================

func TestUnknownCommandShowsNotice(t *testing.T) {
	m := newTestModel(t, Deps{})
	m.input.SetValue("/bogus")

	updated, cmd := m.Update(keyMsg("enter"))
	m = updated.(Model)

	if cmd != nil {
		t.Error("unknown command should not produce a command")
	}
	if !strings.Contains(m.notice, "unknown command") {
		t.Errorf("notice = %q, want unknown command message", m.notice)
	}
}

func TestNewCommandResetsSession(t *testing.T) {
	m := newTestModel(t, Deps{})
	m.session.Append(model.NewUserTurn("hello"))
	oldID := m.session.ID

	m.input.SetValue("/new")
	updated, cmd := m.Update(keyMsg("enter"))
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("/new should produce a command")
	}

	updated, _ = m.Update(cmd())
	m = updated.(Model)

	if m.session.ID == oldID {
		t.Error("session ID should change after /new")
	}
	if len(m.session.Messages) != 0 {
		t.Errorf("len(Messages) = %d, want 0", len(m.session.Messages))
	}
}

func TestClearCommandKeepsSession(t *testing.T) {
	m := newTestModel(t, Deps{})
	m.session.Append(model.NewUserTurn("hello"))
	oldID := m.session.ID

	updated, _ := m.Update(commands.ClearSessionMsg{})
	m = updated.(Model)

	if m.session.ID != oldID {
		t.Error("/clear should keep the same session")
	}
	if len(m.session.Messages) != 0 {
		t.Errorf("len(Messages) = %d, want 0", len(m.session.Messages))
	}
}

func TestHelpToggles(t *testing.T) {
	m := newTestModel(t, Deps{})

	updated, _ := m.Update(commands.ShowHelpMsg{})
	m = updated.(Model)
	if !m.showHelp {
		t.Fatal("help should be visible after ShowHelpMsg")
	}
	view := m.View()
	if !strings.Contains(view, "/image") {
		t.Error("help overlay should list /image")
	}
	if !strings.Contains(view, "Session") || !strings.Contains(view, "Generation") {
		t.Error("help overlay should group commands by category")
	}

	updated, _ = m.Update(keyMsg("esc"))
	m = updated.(Model)
	if m.showHelp {
		t.Error("esc should close the help overlay")
	}
	if m.state != StateReady {
		t.Errorf("state = %v, want StateReady", m.state)
	}
}

// =============================================================================
// PIPELINE TESTS
// =============================================================================

const wikiFixture = `{"query":{"search":[{"title":"Go (programming language)","snippet":"Go is a statically typed language."}]}}`
const instantFixture = `{"AbstractText":"Go is a compiled language designed at Google.","AbstractURL":"https://duckduckgo.com/Go"}`

func testAggregator(t *testing.T) *websearch.Aggregator {
	t.Helper()
	wiki := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, wikiFixture)
	}))
	t.Cleanup(wiki.Close)
	instant := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, instantFixture)
	}))
	t.Cleanup(instant.Close)

	return websearch.NewAggregator(websearch.Options{
		WikiBase:    wiki.URL,
		InstantBase: instant.URL,
	}, zap.NewNop())
}

func testDecisions(t *testing.T) *telemetry.Log {
	t.Helper()
	log, err := telemetry.Open(filepath.Join(t.TempDir(), "decisions.db"))
	if err != nil {
		t.Fatalf("telemetry.Open: %v", err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

func TestGenerateSearchPath(t *testing.T) {
	var sawSearchPrompt bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(string(body), "live web search results") {
			sawSearchPrompt = true
		}
		io.WriteString(w, `{"status":"success","text":"Here is the latest."}`)
	}))
	defer srv.Close()

	deps := Deps{
		API:           api.NewClient(srv.URL),
		Search:        testAggregator(t),
		Decisions:     testDecisions(t),
		Logger:        zap.NewNop(),
		SearchEnabled: true,
	}

	msg := generateCmd(deps, "latest news about Go today", nil)()
	reply, ok := msg.(ReplyMsg)
	if !ok {
		t.Fatalf("got %T, want ReplyMsg", msg)
	}
	if reply.Err != nil {
		t.Fatalf("unexpected error: %v", reply.Err)
	}
	if !sawSearchPrompt {
		t.Error("endpoint should have received the search-enriched prompt")
	}
	if !reply.Searched {
		t.Error("reply should be marked searched")
	}
	if len(reply.Citations) == 0 {
		t.Error("searched reply should carry citations")
	}
	if reply.Content != "Here is the latest." {
		t.Errorf("Content = %q", reply.Content)
	}

	rows, err := deps.Decisions.Recent(1)
	if err != nil || len(rows) != 1 {
		t.Fatalf("Recent: rows=%d err=%v", len(rows), err)
	}
	if !rows[0].Searched {
		t.Error("decision row should record searched=true")
	}
	if rows[0].Sources == 0 {
		t.Error("decision row should record the sources hit")
	}
}

func TestGenerateFallsBackOnceAfterSearchFailure(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(string(body), "live web search results") {
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, `{"status":"error","message":"overloaded"}`)
			return
		}
		io.WriteString(w, `{"status":"success","text":"plain answer"}`)
	}))
	defer srv.Close()

	deps := Deps{
		API:           api.NewClient(srv.URL),
		Search:        testAggregator(t),
		Decisions:     testDecisions(t),
		Logger:        zap.NewNop(),
		SearchEnabled: true,
	}

	msg := generateCmd(deps, "latest news about Go today", nil)()
	reply, ok := msg.(ReplyMsg)
	if !ok {
		t.Fatalf("got %T, want ReplyMsg", msg)
	}
	if reply.Err != nil {
		t.Fatalf("fallback should have succeeded: %v", reply.Err)
	}
	if !reply.FellBack {
		t.Error("reply should be marked as a fallback")
	}
	if reply.Content != "plain answer" {
		t.Errorf("Content = %q, want plain answer", reply.Content)
	}
	if calls != 2 {
		t.Errorf("endpoint calls = %d, want 2 (search attempt + one retry)", calls)
	}

	// The decision log records the outcome: the answer carried no search
	// context, so the row must not count as searched.
	rows, err := deps.Decisions.Recent(1)
	if err != nil || len(rows) != 1 {
		t.Fatalf("Recent: rows=%d err=%v", len(rows), err)
	}
	if rows[0].Searched {
		t.Error("fallback decision row should record searched=false")
	}
	if rows[0].Sources != 0 {
		t.Errorf("fallback decision row Sources = %d, want 0", rows[0].Sources)
	}
}

func TestGenerateChatPathWhenSearchDisabled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(string(body), "live web search results") {
			t.Error("search-enriched prompt sent with search disabled")
		}
		io.WriteString(w, `{"status":"success","text":"chat answer"}`)
	}))
	defer srv.Close()

	deps := Deps{
		API:           api.NewClient(srv.URL),
		Search:        testAggregator(t),
		Logger:        zap.NewNop(),
		SearchEnabled: false,
	}

	msg := generateCmd(deps, "latest news about Go today", nil)()
	reply := msg.(ReplyMsg)
	if reply.Searched {
		t.Error("reply should not be marked searched")
	}
	if reply.Content != "chat answer" {
		t.Errorf("Content = %q", reply.Content)
	}
}

func TestGenerateIncludesRecentHistory(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		io.WriteString(w, `{"status":"success","text":"ok"}`)
	}))
	defer srv.Close()

	deps := Deps{
		API:    api.NewClient(srv.URL),
		Logger: zap.NewNop(),
	}
	recent := []model.Turn{
		model.NewUserTurn("remember the number 41"),
		model.NewAssistantTurn("Noted."),
	}

	generateCmd(deps, "what number did I give you", recent)()

	if !strings.Contains(gotBody, "remember the number 41") {
		t.Error("prompt should include recent history")
	}
}

// =============================================================================
// VIEW TESTS
// =============================================================================

func TestViewShowsTranscript(t *testing.T) {
	m := newTestModel(t, Deps{})
	m.session.Append(model.NewUserTurn("hello there"))
	m.session.Append(model.NewAssistantTurn("General greeting received."))
	m.updateViewport()

	view := m.View()
	if !strings.Contains(view, "hello there") {
		t.Error("view should contain the user turn")
	}
	if !strings.Contains(view, "greeting received") {
		t.Error("view should contain the assistant turn")
	}
}

func TestImageReplyAppendsImageTurn(t *testing.T) {
	m := newTestModel(t, Deps{})
	m.state = StateGenerating
	m.session.Append(model.NewUserTurn("/image a red fox"))

	updated, _ := m.Update(ImageReplyMsg{Prompt: "a red fox", URL: "https://img.example/fox.png"})
	m = updated.(Model)

	if m.state != StateReady {
		t.Errorf("state = %v, want StateReady", m.state)
	}
	last := m.session.Last()
	if last == nil || last.ImageURL != "https://img.example/fox.png" {
		t.Fatalf("expected image turn, got %+v", last)
	}
}
