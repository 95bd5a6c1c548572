package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestChoicePromptNavigation(t *testing.T) {
	p := NewChoicePrompt("Is the house insured?",
		Choice{Label: "Yes", Value: "yes"},
		Choice{Label: "No", Value: "no"},
	)
	assert.Equal(t, "yes", p.Value())

	done, _ := p.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.False(t, done)
	assert.Equal(t, "no", p.Value())

	p.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "no", p.Value(), "cursor stays on the last choice")

	p.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "yes", p.Value())

	done, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, done)
}

func TestChoicePromptSetValue(t *testing.T) {
	p := NewChoicePrompt("Exposure zone",
		Choice{Label: "High", Value: "high"},
		Choice{Label: "Medium", Value: "medium"},
		Choice{Label: "Low", Value: "low"},
	)
	p.SetValue("low")
	assert.Equal(t, "low", p.Value())

	p.SetValue("unknown")
	assert.Equal(t, "low", p.Value())
}

func TestTextPrompt(t *testing.T) {
	p := NewTextPrompt("Department", "e.g. 47")
	p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("4")})
	p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("7")})
	assert.Equal(t, "47", p.Value())

	p.SetError("bad value")
	assert.Contains(t, p.View(), "bad value")

	p.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Empty(t, p.Error())
	assert.Equal(t, "4", p.Value())

	p.SetValue(" 1985 ")
	assert.Equal(t, "1985", p.Value())
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		filled  int
	}{
		{"empty", 0, 8, 0},
		{"half", 4, 8, 15},
		{"full", 8, 8, 30},
		{"overflow", 9, 8, 30},
		{"no total", 3, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProgressBar(tt.current, tt.total)
			assert.Equal(t, tt.filled, p.filled())
		})
	}

	out := NewProgressBar(2, 8).WithLabel("Step").Render()
	assert.Contains(t, out, "2/8")
	assert.Contains(t, out, "Step")
}
