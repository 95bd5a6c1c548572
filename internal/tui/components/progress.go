package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/fundsim/internal/tui/tuistyles"
)

// ProgressBar shows how far the applicant is through the questionnaire
type ProgressBar struct {
	Current   int
	Total     int
	Width     int
	Label     string
	ShowCount bool
}

// NewProgressBar creates a new progress bar
func NewProgressBar(current, total int) *ProgressBar {
	return &ProgressBar{
		Current:   current,
		Total:     total,
		Width:     30,
		ShowCount: true,
	}
}

// WithLabel sets the progress label
func (p *ProgressBar) WithLabel(label string) *ProgressBar {
	p.Label = label
	return p
}

// WithWidth sets the bar width
func (p *ProgressBar) WithWidth(width int) *ProgressBar {
	p.Width = width
	return p
}

// filled returns the number of filled cells, clamped to the bar width
func (p *ProgressBar) filled() int {
	if p.Total <= 0 || p.Current <= 0 {
		return 0
	}
	n := p.Width * p.Current / p.Total
	if n > p.Width {
		return p.Width
	}
	return n
}

// Render returns the styled progress bar
func (p *ProgressBar) Render() string {
	var b strings.Builder

	if p.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorForeground).Bold(true).Render(p.Label))
		b.WriteString(" ")
	}

	filled := p.filled()
	b.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess).Render(strings.Repeat("█", filled)))
	b.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorBorder).Render(strings.Repeat("░", p.Width-filled)))

	if p.ShowCount {
		b.WriteString(" ")
		b.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(fmt.Sprintf("%d/%d", p.Current, p.Total)))
	}
	return b.String()
}
