package chat

import "github.com/charmbracelet/lipgloss"

// Layout constants
const (
	// Padding and margins
	textAreaPaddingLeft = 1
	messagePaddingLeft  = 2
	helpMarginTop       = 1
	heroPaddingTop      = 2

	// Border adjustments
	inputBorderHeight = 2
	headerHeight      = 2
	widgetHeight      = 1

	// Sidebar
	sidebarWidth = 28
)

var (
	messageHorizontalFrameSize = companionMessageStyle.GetHorizontalFrameSize()

	// Color palette
	primaryColor   = lipgloss.Color("#EC4899") // Pink
	secondaryColor = lipgloss.Color("#A855F7") // Purple
	accentColor    = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#EF4444") // Red
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	textColor      = lipgloss.Color("#F9FAFB") // Light gray
	dimTextColor   = lipgloss.Color("#9CA3AF") // Dim gray
	messageColor   = lipgloss.Color("#E5E7EB")
	borderColor    = lipgloss.Color("#4B5563")

	// Title bar style
	titleStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(textColor).
			Bold(true)

	// User message styles
	userMessageStyle = lipgloss.NewStyle().
				Foreground(textColor).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(primaryColor).
				Padding(0, 1).
				MarginLeft(10)

	// Companion message styles
	companionMessageStyle = lipgloss.NewStyle().
				Foreground(messageColor).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(secondaryColor).
				Padding(0, 1).
				MarginRight(10)

	// Sidebar styles
	sidebarStyle = lipgloss.NewStyle().
			Width(sidebarWidth).
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(borderColor)

	sidebarTitleStyle = lipgloss.NewStyle().
				Foreground(secondaryColor).
				Bold(true).
				PaddingLeft(1)

	sessionItemStyle = lipgloss.NewStyle().
				Foreground(dimTextColor).
				PaddingLeft(1)

	sessionActiveStyle = lipgloss.NewStyle().
				Foreground(textColor).
				Background(primaryColor).
				Bold(true).
				PaddingLeft(1)

	// Landing page styles
	heroStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			PaddingTop(heroPaddingTop)

	taglineStyle = lipgloss.NewStyle().
			Foreground(dimTextColor).
			Italic(true)

	featureStyle = lipgloss.NewStyle().
			Foreground(messageColor).
			PaddingLeft(messagePaddingLeft)

	// Audio widget styles
	widgetStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	widgetTimeStyle = lipgloss.NewStyle().
			Foreground(dimTextColor)

	widgetMutedStyle = lipgloss.NewStyle().
				Foreground(accentColor).
				Bold(true)

	dimTextStyle = lipgloss.NewStyle().
			Foreground(dimTextColor)

	// Error style
	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	// Input area styles
	textAreaStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			PaddingLeft(textAreaPaddingLeft)

	// Spinner style
	spinnerStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	// Help text style
	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true).
			MarginTop(helpMarginTop)

	// Viewport border
	viewportStyle = lipgloss.NewStyle().Margin(0).Padding(0)
)

// truncate shortens a string to maxLen runes with an ellipsis. Session names
// are user-authored and may hold multibyte runes; slicing bytes could split
// one mid-sequence.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
