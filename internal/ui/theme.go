package ui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	ColorAccent     = lipgloss.Color("#7c6df2")
	ColorBackground = lipgloss.Color("#1f2233")
	ColorForeground = lipgloss.Color("#edf2f4")
	ColorMuted      = lipgloss.Color("#8d99ae")

	ColorSuccess = lipgloss.Color("#2ecc71")
	ColorWarning = lipgloss.Color("#f39c12")
	ColorError   = lipgloss.Color("#ef233c")
)

// Styles for terminal output
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorForeground).
			Background(ColorAccent).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent).
			MarginTop(1)

	ContentStyle = lipgloss.NewStyle().
			Foreground(ColorForeground)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Background(ColorBackground).
			Padding(0, 1)
)
