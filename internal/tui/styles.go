package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette using standard terminal colors, with the college blue for
// headings.
var (
	brandColor     = lipgloss.Color("#2A527A")
	primaryColor   = lipgloss.Color("14") // Bright Cyan
	secondaryColor = lipgloss.Color("12") // Bright Blue
	errorColor     = lipgloss.Color("9")  // Bright Red
	warningColor   = lipgloss.Color("11") // Bright Yellow

	bgDark    = lipgloss.Color("235")
	bgLighter = lipgloss.Color("241")

	textSecondary = lipgloss.Color("7")
	textMuted     = lipgloss.Color("8")
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(bgLighter).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().Bold(true)

	titleStyle = lipgloss.NewStyle().
			Foreground(brandColor).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(errorColor).
			Foreground(errorColor).
			Bold(true).
			Padding(1, 2)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	// Navigation tabs
	navItemStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(textSecondary)

	navActiveStyle = navItemStyle.
			Background(brandColor).
			Foreground(lipgloss.Color("15")).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(bgDark).
			Foreground(textSecondary).
			Padding(0, 1)
)

const (
	userIcon  = "👤"
	botIcon   = "🎓"
	errorIcon = "✗"
)
