package watch

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red
	TextColor      = lipgloss.Color("#FFFFFF") // White
	SubtleColor    = lipgloss.Color("#626262") // Gray
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	StatusWarmupStyle = lipgloss.NewStyle().
				Foreground(WarningColor).
				Bold(true)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	SensorNameStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	DeltaUpStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	DeltaDownStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(0, 2)

	HelpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			MarginTop(1)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)
)
