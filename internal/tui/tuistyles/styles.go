package tuistyles

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	ColorPrimary   = lipgloss.Color("#5A56E0")
	ColorSecondary = lipgloss.Color("#8B88F0")
	ColorAccent    = lipgloss.Color("#F2A541")
	ColorSuccess   = lipgloss.Color("#3FA34D")
	ColorDanger    = lipgloss.Color("#D64545")
	ColorInfo      = lipgloss.Color("#3D8BD9")

	ColorForeground = lipgloss.Color("#EDEDED")
	ColorMuted      = lipgloss.Color("#8A8A8A")
	ColorBorder     = lipgloss.Color("#4A4A4A")
)

// Base styles
var (
	AppStyle = lipgloss.NewStyle().Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	UnselectedItemStyle = lipgloss.NewStyle().
				Foreground(ColorForeground)

	QuestionStyle = lipgloss.NewStyle().
			Foreground(ColorForeground).
			Bold(true).
			MarginBottom(1)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	EligibleStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	IneligibleStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Bold(true)
)

// OutcomeStyle picks the style for an eligibility outcome
func OutcomeStyle(eligible bool) lipgloss.Style {
	if eligible {
		return EligibleStyle
	}
	return IneligibleStyle
}
