package chat

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
)

func (m *Model) loadSessions() tea.Cmd {
	return func() tea.Msg {
		return sessionsLoadedMsg{err: m.sessions.Load(m.ctx)}
	}
}

func (m *Model) loadVoices() tea.Cmd {
	return func() tea.Msg {
		return voicesLoadedMsg{err: m.catalog.Load(m.ctx)}
	}
}

func (m *Model) createSession() tea.Cmd {
	return func() tea.Msg {
		s, err := m.sessions.Create(m.ctx)
		return sessionCreatedMsg{session: s, err: err}
	}
}

func (m *Model) deleteActiveSession() tea.Cmd {
	active := m.sessions.ActiveID()
	if active == "" {
		return nil
	}
	return func() tea.Msg {
		return sessionDeletedMsg{err: m.sessions.Delete(m.ctx, active)}
	}
}

// openSession selects a session and kicks off its history fetch. The token
// ties the fetch to this selection so a stale response never lands on a
// newer thread.
func (m *Model) openSession(sessionID string) tea.Cmd {
	if err := m.sessions.Select(sessionID); err != nil {
		m.err = err
		return nil
	}
	m.view = viewChat
	m.err = nil
	token := m.thread.Reset(sessionID)
	m.refreshViewport()
	return m.loadThreadHistory(token)
}

func (m *Model) loadThreadHistory(token uint64) tea.Cmd {
	return func() tea.Msg {
		return historyLoadedMsg{token: token, err: m.thread.Load(m.ctx, token)}
	}
}

// cycleSession moves the active session by delta within the sidebar order,
// selecting the first session when none is active.
func (m *Model) cycleSession(delta int) tea.Cmd {
	sessions := m.sessions.Sessions()
	if len(sessions) == 0 {
		return nil
	}

	index := 0
	if active := m.sessions.ActiveID(); active != "" {
		for i, s := range sessions {
			if s.ID == active {
				index = (i + delta + len(sessions)) % len(sessions)
				break
			}
		}
	}
	return m.openSession(sessions[index].ID)
}

func (m *Model) sendMessage() tea.Cmd {
	userInput := strings.TrimSpace(m.textarea.Value())
	if userInput == "" {
		return nil
	}

	m.history.Add(userInput)
	m.historyNavigating = false
	m.textarea.Reset()
	m.adjustTextareaHeight()
	m.err = nil

	send := func() tea.Msg {
		return sendDoneMsg{err: m.thread.Send(m.ctx, userInput)}
	}

	// The thread appends the user message as soon as Send starts; spinner
	// ticks repaint the viewport while the reply is in flight.
	return tea.Batch(send, m.spinner.Tick)
}

// speakLastReply synthesizes the most recent companion reply with the
// selected voice.
func (m *Model) speakLastReply() tea.Cmd {
	text := m.thread.LastAssistantMessage()
	if text == "" || m.synthesizing {
		return nil
	}
	m.synthesizing = true
	m.recalculateLayout()

	voiceID := m.voiceID
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		data, err := m.client.Synthesize(m.ctx, text, voiceID)
		return speechReadyMsg{data: data, err: err}
	})
}

func (m *Model) startPlayback(data []byte) tea.Cmd {
	playback, err := m.player.Play(data)
	if err != nil {
		m.err = errors.Wrap(err, "playing speech")
		return nil
	}
	m.playback = playback
	m.recalculateLayout()
	return m.playbackTick()
}

func (m *Model) playbackTick() tea.Cmd {
	return tea.Tick(playbackTickInterval, func(t time.Time) tea.Msg {
		return playbackTickMsg(t)
	})
}

func (m *Model) stopPlayback() {
	if m.playback == nil {
		return
	}
	m.playback.Close()
	m.playback = nil
	m.recalculateLayout()
}
