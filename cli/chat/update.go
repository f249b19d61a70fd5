package chat

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"go.dalton.dog/bubbleup"
	"golang.design/x/clipboard"

	"github.com/companionai/companion/internal/debug"
)

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Always update the alert model with every message
	outAlert, alertCmd := m.alertClipboardWrite.Update(msg)
	m.alertClipboardWrite = outAlert.(bubbleup.AlertModel)
	if alertCmd != nil {
		cmds = append(cmds, alertCmd)
	}

	switch msg := msg.(type) {
	case tea.FocusMsg:
		m.windowFocused = true
		m.textarea.Focus()
		cmds = append(cmds, textarea.Blink)
		return m, tea.Batch(cmds...)

	case tea.BlurMsg:
		m.windowFocused = false
		m.textarea.Blur()
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			cmds = append(cmds, cmd)
			return m, tea.Batch(cmds...)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalculateLayout()

	case sessionsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Batch(cmds...)
		}
		if m.initialID != "" {
			sessionID := m.initialID
			m.initialID = ""
			cmds = append(cmds, m.openSession(sessionID))
		}
		return m, tea.Batch(cmds...)

	case sessionCreatedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Batch(cmds...)
		}
		cmds = append(cmds, m.openSession(msg.session.ID))
		return m, tea.Batch(cmds...)

	case sessionDeletedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else if m.sessions.ActiveID() == "" {
			// Deleting the open conversation drops back to the landing page.
			m.thread.Reset("")
			m.view = viewLanding
		}
		m.refreshViewport()
		return m, tea.Batch(cmds...)

	case historyLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
		}
		m.refreshViewport()
		return m, tea.Batch(cmds...)

	case sendDoneMsg:
		// On failure the optimistic user message stays in the thread.
		if msg.err != nil {
			m.err = msg.err
			m.recalculateLayout()
		}
		m.refreshViewport()
		return m, tea.Batch(cmds...)

	case voicesLoadedMsg:
		if msg.err != nil {
			debug.GetLogger().Warn("loading voices", "error", msg.err)
			return m, tea.Batch(cmds...)
		}
		m.voiceID = m.catalog.Resolve(m.voiceID)
		return m, tea.Batch(cmds...)

	case speechReadyMsg:
		m.synthesizing = false
		if msg.err != nil {
			m.err = msg.err
			m.recalculateLayout()
			return m, tea.Batch(cmds...)
		}
		m.stopPlayback()
		cmds = append(cmds, m.startPlayback(msg.data))
		return m, tea.Batch(cmds...)

	case playbackTickMsg:
		if m.playback == nil {
			return m, tea.Batch(cmds...)
		}
		select {
		case <-m.playback.Done():
			m.stopPlayback()
		default:
			cmds = append(cmds, m.playbackTick())
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		if m.thread.Loading() {
			m.refreshViewport()
		}
	}

	// Update textarea while composing
	if m.view == viewChat && !m.thread.Loading() {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
		m.adjustTextareaHeight()
	}

	// Update viewport - but don't pass typing keys to it while composing
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.view == viewChat && m.thread.Loading() {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		} else {
			switch msg.String() {
			case "pgup", "pgdown", "home", "end":
				var cmd tea.Cmd
				m.viewport, cmd = m.viewport.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	// Alt combinations work in every view
	if msg.Alt {
		switch msg.String() {
		case "alt+p":
			if entry, ok := m.history.Previous(m.textarea.Value()); ok {
				m.textarea.SetValue(entry)
				m.historyNavigating = true
				m.adjustTextareaHeight()
			}
			return nil, true

		case "alt+n":
			if entry, ok := m.history.Next(); ok {
				m.textarea.SetValue(entry)
				m.historyNavigating = true
				m.adjustTextareaHeight()
			}
			return nil, true

		case "alt+w":
			content := m.thread.LastAssistantMessage()
			if content == "" {
				return nil, true
			}
			clipboard.Write(clipboard.FmtText, []byte(content))
			return m.alertClipboardWrite.NewAlertCmd(bubbleup.InfoKey, "Copied to clipboard!"), true

		case "alt+m":
			if m.playback != nil {
				m.playback.ToggleMute()
			}
			return nil, true

		case "alt+left":
			if m.playback != nil {
				if err := m.playback.Seek(m.playback.Position() - seekStep); err != nil {
					debug.GetLogger().Warn("seeking", "error", err)
				}
			}
			return nil, true

		case "alt+right":
			if m.playback != nil {
				if err := m.playback.Seek(m.playback.Position() + seekStep); err != nil {
					debug.GetLogger().Warn("seeking", "error", err)
				}
			}
			return nil, true
		}
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		m.stopPlayback()
		m.player.Close()
		m.quitting = true
		return tea.Quit, true

	case tea.KeyEnter:
		if m.view == viewChat && !m.thread.Loading() {
			return m.sendMessage(), true
		}

	case tea.KeyCtrlN:
		return m.createSession(), true

	case tea.KeyCtrlG:
		m.sessions.Deselect()
		m.thread.Reset("")
		m.view = viewLanding
		m.err = nil
		m.refreshViewport()
		return nil, true

	case tea.KeyCtrlB:
		m.sidebarOpen = !m.sidebarOpen
		m.recalculateLayout()
		return nil, true

	case tea.KeyCtrlJ:
		return m.cycleSession(1), true

	case tea.KeyCtrlK:
		return m.cycleSession(-1), true

	case tea.KeyCtrlX:
		return m.deleteActiveSession(), true

	case tea.KeyCtrlV:
		m.voiceID = m.catalog.Next(m.voiceID)
		name := m.catalog.Name(m.voiceID)
		return m.alertClipboardWrite.NewAlertCmd(bubbleup.InfoKey, fmt.Sprintf("Voice: %s", name)), true

	case tea.KeyCtrlR:
		return m.speakLastReply(), true

	case tea.KeyCtrlP:
		if m.playback != nil {
			m.playback.TogglePause()
		}
		return nil, true
	}

	// Reset history navigation on any key press that modifies input
	if m.historyNavigating {
		switch msg.Type {
		case tea.KeyRunes, tea.KeyBackspace, tea.KeyDelete:
			m.history.Reset()
			m.historyNavigating = false
		}
	}

	return nil, false
}
