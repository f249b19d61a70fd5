package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/companionai/companion/internal/api"
	"github.com/companionai/companion/internal/audio"
)

const sessionNameTruncateLength = 24

// View renders the model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteString("\n")

	if m.view == viewLanding {
		b.WriteString(m.renderLanding())
		return m.alertClipboardWrite.Render(b.String())
	}

	main := viewportStyle.Render(m.viewport.View())
	if m.sidebarOpen {
		main = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
	}
	b.WriteString(main)
	b.WriteString("\n")

	if m.playback != nil || m.synthesizing {
		b.WriteString(m.renderAudioWidget())
		b.WriteString("\n")
	}

	if m.thread.Loading() {
		b.WriteString(fmt.Sprintf("%s Typing...\n", m.spinner.View()))
	} else {
		b.WriteString(textAreaStyle.Render(m.textarea.View()))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return m.alertClipboardWrite.Render(b.String())
}

func (m *Model) renderTitle() string {
	userID := m.provider.UserID()
	if userID == "" {
		userID = "signed out"
	}

	sessionName := "no session"
	if active := m.sessions.Active(); active != nil {
		sessionName = truncate(active.Name, sessionNameTruncateLength)
	}

	title := fmt.Sprintf(" 💕 companion │ 👤 %s │ 💬 %s │ 🔊 %s ",
		userID, sessionName, m.catalog.Name(m.voiceID))

	return titleStyle.Width(m.width).Render(title)
}

func (m *Model) renderLanding() string {
	var b strings.Builder

	b.WriteString(heroStyle.Render("Your AI Companion"))
	b.WriteString("\n")
	b.WriteString(taglineStyle.Render("Always here to talk, listen, and keep you company."))
	b.WriteString("\n\n")

	b.WriteString(featureStyle.Render("💬 Natural conversations that remember context"))
	b.WriteString("\n")
	b.WriteString(featureStyle.Render("🔊 Replies spoken aloud in a voice you choose"))
	b.WriteString("\n")
	b.WriteString(featureStyle.Render("📚 Every conversation saved and ready to resume"))
	b.WriteString("\n\n")

	if m.provider.UserID() == "" {
		b.WriteString(helpStyle.Render("Set COMPANION_USER (or user_id in ~/.companion/config.json) to sign in."))
		return b.String()
	}

	if sessions := m.sessions.Sessions(); len(sessions) > 0 {
		b.WriteString(dimTextStyle.Render("Conversations:"))
		b.WriteString("\n")
		for i, s := range sessions {
			if i >= 5 {
				b.WriteString(dimTextStyle.Render(fmt.Sprintf("  ... and %d more", len(sessions)-i)))
				b.WriteString("\n")
				break
			}
			b.WriteString(sessionItemStyle.Render(fmt.Sprintf("• %s", truncate(s.Name, sessionNameTruncateLength))))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("Ctrl+N new conversation · Ctrl+J/K browse · Ctrl+C quit"))
	return b.String()
}

func (m *Model) renderSidebar() string {
	var b strings.Builder

	b.WriteString(sidebarTitleStyle.Render("Conversations"))
	b.WriteString("\n\n")

	sessions := m.sessions.Sessions()
	if len(sessions) == 0 {
		b.WriteString(dimTextStyle.Render(" none yet"))
	}
	active := m.sessions.ActiveID()
	for _, s := range sessions {
		name := truncate(s.Name, sidebarWidth-4)
		if s.ID == active {
			b.WriteString(sessionActiveStyle.Render("▸ " + name))
		} else {
			b.WriteString(sessionItemStyle.Render("  " + name))
		}
		b.WriteString("\n")
	}

	return sidebarStyle.Height(m.viewport.Height).Render(b.String())
}

func (m *Model) renderMessages() string {
	messages := m.thread.Messages()

	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		rendered := m.renderer.Render(msg.Content)
		switch msg.Role {
		case api.RoleUser:
			b.WriteString(userMessageStyle.Render(rendered))
		case api.RoleAssistant:
			b.WriteString(companionMessageStyle.Render(rendered))
		}
	}

	if len(messages) == 0 && !m.thread.Loading() {
		b.WriteString(dimTextStyle.Render("Say hello to start the conversation."))
	}

	return b.String()
}

func (m *Model) renderAudioWidget() string {
	if m.synthesizing {
		return widgetStyle.Render(fmt.Sprintf("%s Synthesizing speech...", m.spinner.View()))
	}

	position := m.playback.Position()
	duration := m.playback.Duration()

	percent := 0.0
	if duration > 0 {
		percent = float64(position) / float64(duration)
	}

	icon := "▶"
	if m.playback.Paused() {
		icon = "⏸"
	}

	var b strings.Builder
	b.WriteString(widgetStyle.Render(fmt.Sprintf("🔊 %s ", icon)))
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString(widgetTimeStyle.Render(fmt.Sprintf(" %s / %s",
		audio.FormatDuration(position), audio.FormatDuration(duration))))
	if m.playback.Muted() {
		b.WriteString(widgetMutedStyle.Render(" [muted]"))
	}
	return b.String()
}
