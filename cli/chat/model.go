package chat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.dalton.dog/bubbleup"

	"github.com/companionai/companion/internal/api"
	"github.com/companionai/companion/internal/audio"
	"github.com/companionai/companion/internal/configuration"
	"github.com/companionai/companion/internal/history"
	"github.com/companionai/companion/internal/identity"
	"github.com/companionai/companion/internal/markdown"
	"github.com/companionai/companion/internal/session"
	"github.com/companionai/companion/internal/thread"
	"github.com/companionai/companion/internal/voices"
)

const (
	minTextareaHeight    = 1
	maxTextareaHeight    = 6
	defaultTextareaWidth = 80
	minViewportHeight    = 1
	playbackTickInterval = 250 * time.Millisecond
	seekStep             = 5 * time.Second
)

// viewState selects between the landing page and the conversation view.
type viewState int

const (
	viewLanding viewState = iota
	viewChat
)

// Options holds the options for the chat.
type Options struct {
	SessionID string
	Voice     string
}

// Model represents the Bubble Tea model for the companion chat.
type Model struct {
	// Core dependencies
	ctx      context.Context
	config   *configuration.Config
	client   *api.Client
	provider identity.Provider

	// Domain state
	sessions *session.Store
	thread   *thread.Thread
	catalog  *voices.Catalog

	// Audio
	player       *audio.Player
	playback     *audio.Playback
	voiceID      string
	synthesizing bool

	// View state
	view        viewState
	sidebarOpen bool
	initialID   string

	// UI components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	progress progress.Model

	// Renderer.
	renderer *markdown.Renderer

	// Alert notifications.
	alertClipboardWrite bubbleup.AlertModel

	// UI state
	width         int
	height        int
	ready         bool
	err           error
	quitting      bool
	windowFocused bool

	// Input history
	history           *history.History
	historyNavigating bool
}

// Message types for Bubble Tea
type (
	sessionsLoadedMsg struct{ err error }
	sessionCreatedMsg struct {
		session *api.Session
		err     error
	}
	sessionDeletedMsg struct{ err error }
	historyLoadedMsg  struct {
		token uint64
		err   error
	}
	sendDoneMsg    struct{ err error }
	voicesLoadedMsg struct{ err error }
	speechReadyMsg struct {
		data []byte
		err  error
	}
	playbackTickMsg time.Time
)

// NewModel creates a new companion chat model.
func NewModel(
	ctx context.Context,
	config *configuration.Config,
	client *api.Client,
	provider identity.Provider,
	opts Options,
) (*Model, error) {
	ta := textarea.New()
	ta.Placeholder = "Type your message... (Enter to send, Ctrl+C to quit)"
	ta.Focus()
	ta.CharLimit = 0
	ta.SetWidth(defaultTextareaWidth)
	ta.SetHeight(minTextareaHeight)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Prompt = ""

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	pr := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	alertClipboardWrite := bubbleup.NewAlertModel(25, true, 1)

	renderer, err := markdown.NewRenderer(defaultTextareaWidth)
	if err != nil {
		return nil, err
	}

	historyPath, err := configuration.ExpandPath(config.HistoryFile)
	if err != nil {
		return nil, err
	}

	initialVoice := config.DefaultVoice
	if opts.Voice != "" {
		initialVoice = opts.Voice
	}

	return &Model{
		ctx:                 ctx,
		config:              config,
		client:              client,
		provider:            provider,
		sessions:            session.NewStore(client, provider),
		thread:              thread.New(client),
		catalog:             voices.NewCatalog(client),
		player:              audio.NewPlayer(),
		voiceID:             initialVoice,
		view:                viewLanding,
		sidebarOpen:         true,
		initialID:           opts.SessionID,
		windowFocused:       true,
		textarea:            ta,
		spinner:             sp,
		progress:            pr,
		renderer:            renderer,
		alertClipboardWrite: *alertClipboardWrite,
		history:             history.NewHistory(historyPath),
	}, nil
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.alertClipboardWrite.Init(),
		m.loadSessions(),
		m.loadVoices(),
	)
}

// adjustTextareaHeight resizes the textarea based on content line count.
func (m *Model) adjustTextareaHeight() {
	lineCount := strings.Count(m.textarea.Value(), "\n") + 1

	newHeight := lineCount
	if newHeight < minTextareaHeight {
		newHeight = minTextareaHeight
	}
	if newHeight > maxTextareaHeight {
		newHeight = maxTextareaHeight
	}

	oldHeight := m.textarea.Height()
	if oldHeight != newHeight {
		m.textarea.SetHeight(newHeight)

		heightDiff := newHeight - oldHeight
		m.recalculateLayout()
		if heightDiff != 0 && m.ready {
			m.viewport.LineDown(heightDiff)
		}
	}
}

// recalculateLayout adjusts viewport and textarea dimensions based on current state.
func (m *Model) recalculateLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	viewportHeight := m.height - headerHeight
	viewportWidth := m.width
	if m.sidebarOpen && m.view == viewChat {
		viewportWidth -= sidebarWidth + 1
	}

	viewportHeight -= m.textarea.Height() + inputBorderHeight

	if m.playback != nil || m.synthesizing {
		viewportHeight -= widgetHeight
	}
	if m.err != nil {
		viewportHeight -= 1
	}

	if viewportHeight < minViewportHeight {
		viewportHeight = minViewportHeight
	}

	m.renderer.SetWidth(viewportWidth - messageHorizontalFrameSize)
	m.progress.Width = viewportWidth / 3

	if !m.ready {
		m.viewport = viewport.New(viewportWidth, viewportHeight)
		m.ready = true
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom() // Only on initial render
	} else {
		m.viewport.Width = viewportWidth
		m.viewport.Height = viewportHeight
		m.viewport.SetContent(m.renderMessages())
	}

	m.textarea.SetWidth(viewportWidth - textAreaStyle.GetHorizontalPadding() - textAreaStyle.GetHorizontalBorderSize())
}

// refreshViewport re-renders the message list, keeping the scroll pinned to
// the bottom when it already was.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	wasAtBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderMessages())
	if wasAtBottom {
		m.viewport.GotoBottom()
	}
}
