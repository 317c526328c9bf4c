// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/webchat-tui/internal/api"
	"github.com/jeranaias/webchat-tui/internal/commands"
	"github.com/jeranaias/webchat-tui/internal/model"
	"github.com/jeranaias/webchat-tui/internal/news"
	"github.com/jeranaias/webchat-tui/internal/storage"
	"github.com/jeranaias/webchat-tui/internal/telemetry"
	"github.com/jeranaias/webchat-tui/internal/ui/components"
	"github.com/jeranaias/webchat-tui/internal/ui/styles"
	"github.com/jeranaias/webchat-tui/internal/websearch"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady      State = iota // Ready for input
	StateGenerating              // A turn is in flight
	StateError                   // Showing an error
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Deps holds the collaborators the chat view drives. Any field may be nil;
// the view degrades (no persistence, no search, no telemetry) rather than
// panicking.
type Deps struct {
	API       *api.Client
	Search    *websearch.Aggregator
	Store     *storage.SessionStore
	News      *news.Feed
	Decisions *telemetry.Log
	Logger    *zap.Logger

	// SearchEnabled gates the web-search trigger entirely. When false every
	// query takes the plain chat path regardless of its score.
	SearchEnabled bool
}

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// State
	state State

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Conversation
	session *model.Session

	// Collaborators
	deps Deps

	// Slash commands
	registry *commands.Registry
	parser   *commands.Parser
	cmdCtx   *commands.Context

	// UI components
	viewport  viewport.Model
	input     textinput.Model
	spinner   spinner.Model
	header    *components.Header
	statusBar *components.StatusBar
	markdown  *components.Markdown

	// Last completed turn used the search path; shown in the status bar.
	lastSearched bool

	// Transient notice rendered under the transcript (session list, news
	// headlines, fallback warnings). Cleared on the next submission.
	notice string

	// Error state
	lastError *commands.ErrorMsg

	// Help overlay
	showHelp bool
}

// New creates a chat model wired to the given collaborators.
func New(theme *styles.Theme, deps Deps) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask anything..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	// ASCII spinner so the animation survives limited terminals.
	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	registry := commands.NewRegistry()

	m := Model{
		state:     StateReady,
		theme:     theme,
		session:   model.NewSession(),
		deps:      deps,
		registry:  registry,
		parser:    commands.NewParser(registry),
		cmdCtx:    commands.NewContext(deps.Store, deps.API, deps.News),
		viewport:  vp,
		input:     ti,
		spinner:   sp,
		header:    components.NewHeader(theme),
		statusBar: components.NewStatusBar(theme),
		markdown:  components.NewMarkdown(76),
	}
	m.header.SearchActive = deps.SearchEnabled
	return m
}

// Session exposes the active session, used by the outer program on quit.
func (m *Model) Session() *model.Session {
	return m.session
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.state == StateGenerating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case ReplyMsg:
		return m.handleReply(msg)

	case ImageReplyMsg:
		return m.handleImageReply(msg)

	case commands.ShowHelpMsg:
		m.showHelp = !m.showHelp
		return m, nil

	case commands.NewSessionMsg:
		return m.handleNewSession()

	case commands.ClearSessionMsg:
		m.session.Clear()
		m.notice = ""
		m.lastSearched = false
		m.header.Title = m.session.Title
		m.updateViewport()
		return m, nil

	case commands.SessionListMsg:
		return m.handleSessionList(msg)

	case commands.SessionLoadedMsg:
		return m.handleSessionLoaded(msg)

	case commands.GenerateImageMsg:
		return m.startImage(msg.Prompt)

	case commands.NewsMsg:
		m.notice = renderNews(m.theme, msg.Items)
		m.updateViewport()
		return m, nil

	case commands.ErrorMsg:
		m.lastError = &msg
		m.state = StateError
		return m, nil

	case ErrorDismissMsg:
		m.lastError = nil
		m.state = StateReady
		m.input.Focus()
		return m, textinput.Blink
	}

	// Unhandled messages still drive the input cursor and viewport scroll.
	var cmds []tea.Cmd
	if m.state == StateReady {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View renders the chat view.
func (m Model) View() string {
	return m.renderChat()
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// Layout: header (1) + viewport + input line (2) + status bar (1).
	const reservedHeight = 4
	viewportHeight := m.height - reservedHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	viewportWidth := m.width
	if viewportWidth < 1 {
		viewportWidth = 1
	}
	m.viewport.Width = viewportWidth
	m.viewport.Height = viewportHeight

	inputWidth := m.width - 6
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	if m.theme != nil {
		m.theme.SetSize(m.width, m.height)
	}
	m.header.Width = m.width
	m.statusBar.Width = m.width
	m.markdown.SetWidth(viewportWidth - 4)

	m.updateViewport()

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.state == StateError {
			return m.Update(ErrorDismissMsg{})
		}
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		return m, tea.Quit

	case "enter":
		return m.handleSubmit()

	case "up", "down", "pgup", "pgdown", "home", "end":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.state == StateReady {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	// Single in-flight guard: reject, don't queue.
	if m.state == StateGenerating {
		return m, nil
	}

	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	m.input.SetValue("")
	m.notice = ""
	m.showHelp = false

	if result := m.parser.Parse(text); result.IsCommand {
		if result.Command == nil {
			m.notice = m.theme.ErrorMessage.Render(
				fmt.Sprintf("unknown command: /%s (try /help)", result.CommandName))
			m.updateViewport()
			return m, nil
		}
		if err := commands.ValidateArgs(result.Command, result.Args); err != nil {
			m.notice = m.theme.ErrorMessage.Render(err.Error())
			m.updateViewport()
			return m, nil
		}
		return m, result.Command.Handler(m.cmdCtx, result.Args)
	}

	return m.startTurn(text)
}

func (m Model) handleReply(msg ReplyMsg) (tea.Model, tea.Cmd) {
	// The guard clears on every outcome.
	m.state = StateReady
	m.statusBar.Status = components.StatusReady
	m.input.Focus()

	if msg.Err != nil {
		m.deps.Logger.Warn("generation failed", zap.Error(msg.Err))
		m.lastError = &commands.ErrorMsg{
			Title:   "Request failed",
			Message: msg.Err.Error(),
			Tip:     "Check the endpoint URL in ~/.webchat/config.toml",
		}
		m.state = StateError
		return m, textinput.Blink
	}

	turn := model.NewAssistantTurn(msg.Content)
	turn.Searched = msg.Searched
	turn.Citations = msg.Citations
	m.session.Append(turn)
	m.lastSearched = msg.Searched
	m.header.Title = m.session.Title
	m.statusBar.Searched = msg.Searched
	m.statusBar.TurnCount = len(m.session.Messages)

	if msg.FellBack {
		m.notice = m.theme.ErrorTip.Render(
			"web search failed; answered without live context")
	}

	m.persist()
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, textinput.Blink
}

func (m Model) handleImageReply(msg ImageReplyMsg) (tea.Model, tea.Cmd) {
	m.state = StateReady
	m.statusBar.Status = components.StatusReady
	m.input.Focus()

	if msg.Err != nil {
		m.deps.Logger.Warn("image generation failed", zap.Error(msg.Err))
		m.lastError = &commands.ErrorMsg{
			Title:   "Image generation failed",
			Message: msg.Err.Error(),
		}
		m.state = StateError
		return m, textinput.Blink
	}

	turn := model.NewAssistantTurn("Generated image: " + msg.URL)
	turn.ImageURL = msg.URL
	m.session.Append(turn)
	m.header.Title = m.session.Title
	m.statusBar.TurnCount = len(m.session.Messages)

	m.persist()
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, textinput.Blink
}

func (m Model) handleNewSession() (tea.Model, tea.Cmd) {
	m.persist()
	m.session = model.NewSession()
	m.notice = ""
	m.lastSearched = false
	m.header.Title = m.session.Title
	m.statusBar.Searched = false
	m.statusBar.TurnCount = 0
	m.updateViewport()
	return m, nil
}

func (m Model) handleSessionList(msg commands.SessionListMsg) (tea.Model, tea.Cmd) {
	if msg.Error != nil {
		m.notice = m.theme.ErrorMessage.Render("could not list sessions: " + msg.Error.Error())
		m.updateViewport()
		return m, nil
	}
	m.notice = renderSessionList(m.theme, msg.Sessions)
	m.updateViewport()
	return m, nil
}

func (m Model) handleSessionLoaded(msg commands.SessionLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Error != nil {
		m.notice = m.theme.ErrorMessage.Render("could not load session: " + msg.Error.Error())
		m.updateViewport()
		return m, nil
	}
	m.persist()
	m.session = msg.Session
	m.notice = ""
	m.lastSearched = false
	m.header.Title = m.session.Title
	m.statusBar.TurnCount = len(m.session.Messages)
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

// =============================================================================
// TURN LIFECYCLE
// =============================================================================

func (m Model) startTurn(query string) (tea.Model, tea.Cmd) {
	if m.deps.API == nil || !m.deps.API.IsConfigured() {
		m.lastError = &commands.ErrorMsg{
			Title:   "No endpoint configured",
			Message: "Set endpoint.url in ~/.webchat/config.toml or WEBCHAT_ENDPOINT.",
		}
		m.state = StateError
		return m, nil
	}

	// Window snapshot excludes the query itself; the prompt builder appends it.
	recent := m.session.Recent(model.RecentWindow)

	m.session.Append(model.NewUserTurn(query))
	m.header.Title = m.session.Title
	m.state = StateGenerating
	m.statusBar.Status = components.StatusThinking
	m.statusBar.TurnCount = len(m.session.Messages)
	m.input.Blur()
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(m.spinner.Tick, generateCmd(m.deps, query, recent))
}

func (m Model) startImage(prompt string) (tea.Model, tea.Cmd) {
	if m.state == StateGenerating {
		return m, nil
	}
	if m.deps.API == nil || !m.deps.API.IsConfigured() {
		m.lastError = &commands.ErrorMsg{
			Title:   "No endpoint configured",
			Message: "Set endpoint.url in ~/.webchat/config.toml or WEBCHAT_ENDPOINT.",
		}
		m.state = StateError
		return m, nil
	}

	m.session.Append(model.NewUserTurn("/image " + prompt))
	m.state = StateGenerating
	m.statusBar.Status = components.StatusThinking
	m.statusBar.TurnCount = len(m.session.Messages)
	m.input.Blur()
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(m.spinner.Tick, imageCmd(m.deps, prompt))
}

func (m *Model) persist() {
	if m.deps.Store == nil || len(m.session.Messages) == 0 {
		return
	}
	if err := m.deps.Store.Put(m.session); err != nil {
		m.deps.Logger.Warn("session save failed", zap.Error(err))
	}
}
