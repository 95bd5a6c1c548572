package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rgehrsitz/fundsim/internal/tui/tuistyles"
)

// PromptKind selects how a prompt collects its answer
type PromptKind int

const (
	PromptChoice PromptKind = iota
	PromptText
)

// Choice is one selectable answer
type Choice struct {
	Label string
	Value string
}

// Prompt asks a single question, either as a choice list or a free-text input
type Prompt struct {
	Title   string
	Hint    string
	Kind    PromptKind
	Choices []Choice

	cursor int
	input  textinput.Model
	err    string
}

// NewChoicePrompt creates a prompt answered by picking one of choices
func NewChoicePrompt(title string, choices ...Choice) *Prompt {
	return &Prompt{Title: title, Kind: PromptChoice, Choices: choices}
}

// NewTextPrompt creates a prompt answered by typing
func NewTextPrompt(title, placeholder string) *Prompt {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 16
	ti.Width = 20
	ti.Focus()
	return &Prompt{Title: title, Kind: PromptText, input: ti}
}

// WithHint sets the line shown under the title
func (p *Prompt) WithHint(hint string) *Prompt {
	p.Hint = hint
	return p
}

// Value returns the selected or typed answer
func (p *Prompt) Value() string {
	if p.Kind == PromptText {
		return strings.TrimSpace(p.input.Value())
	}
	if len(p.Choices) == 0 {
		return ""
	}
	return p.Choices[p.cursor].Value
}

// SetValue preselects a choice or prefills the text input
func (p *Prompt) SetValue(v string) {
	if p.Kind == PromptText {
		p.input.SetValue(v)
		p.input.CursorEnd()
		return
	}
	for i, c := range p.Choices {
		if c.Value == v {
			p.cursor = i
			return
		}
	}
}

// SetError shows a validation message until the next keystroke
func (p *Prompt) SetError(msg string) {
	p.err = msg
}

// Error returns the current validation message
func (p *Prompt) Error() string {
	return p.err
}

// Update handles a key press. The first return is true when the answer is
// confirmed with enter.
func (p *Prompt) Update(msg tea.KeyMsg) (bool, tea.Cmd) {
	if key.Matches(msg, key.NewBinding(key.WithKeys("enter"))) {
		return true, nil
	}
	p.err = ""

	if p.Kind == PromptText {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return false, cmd
	}

	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
		if p.cursor < len(p.Choices)-1 {
			p.cursor++
		}
	}
	return false, nil
}

// View renders the prompt
func (p *Prompt) View() string {
	var b strings.Builder
	b.WriteString(tuistyles.QuestionStyle.Render(p.Title))
	b.WriteString("\n")
	if p.Hint != "" {
		b.WriteString(tuistyles.HintStyle.Render(p.Hint))
		b.WriteString("\n\n")
	}

	if p.Kind == PromptText {
		b.WriteString(p.input.View())
		b.WriteString("\n")
	} else {
		for i, c := range p.Choices {
			if i == p.cursor {
				b.WriteString(tuistyles.SelectedItemStyle.Render("> " + c.Label))
			} else {
				b.WriteString(tuistyles.UnselectedItemStyle.Render("  " + c.Label))
			}
			b.WriteString("\n")
		}
	}

	if p.err != "" {
		b.WriteString("\n")
		b.WriteString(tuistyles.ErrorStyle.Render(p.err))
		b.WriteString("\n")
	}
	return b.String()
}
