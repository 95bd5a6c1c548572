package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/fundsim/internal/compare"
	"github.com/rgehrsitz/fundsim/internal/domain"
	"github.com/rgehrsitz/fundsim/internal/eligibility"
	"github.com/rgehrsitz/fundsim/internal/simulation"
	"github.com/rgehrsitz/fundsim/internal/tui/components"
)

// View renders the current state of the application
func (m Model) View() string {
	var content string
	switch {
	case m.err != nil:
		content = ErrorStyle.Render(fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err))
	case m.state.CurrentStep == domain.StepIntro:
		content = m.renderIntro()
	case m.state.CurrentStep == domain.StepResult:
		content = m.renderResult()
	default:
		content = m.renderQuestion()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		BorderStyle.Width(min(m.width-4, 78)).Render(content),
		m.renderStatusBar(),
	)
}

// renderTitleBar renders the application title and current step
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("Clay Shrink-Swell Repair Fund - Eligibility Simulator")
	mode := "Applicant"
	if m.opts.EditMode {
		mode = "Caseworker edit"
	}
	subtitle := SubtitleStyle.Render(fmt.Sprintf("%s / %s", mode, stepTitles[m.state.CurrentStep]))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle)
}

// renderStatusBar renders the key help and the last status line
func (m Model) renderStatusBar() string {
	line := m.help.View(m.keys)
	if m.status != "" {
		line += "  " + InfoStyle.Render(m.status)
	}
	return StatusBarStyle.Render(line)
}

func (m Model) renderIntro() string {
	rules := m.machine.Evaluator().Rules()
	var b strings.Builder
	b.WriteString("This simulator checks whether your house can receive preventive\n")
	b.WriteString("repair funding against clay shrink-swell damage.\n\n")
	b.WriteString(fmt.Sprintf("It asks about %d topics and stops as soon as a criterion is not met.\n", len(simulation.QuestionSteps())))
	if rules.Metadata.Description != "" {
		b.WriteString("\n")
		b.WriteString(HintStyle.Render(rules.Metadata.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(SelectedItemStyle.Render("Press enter to start"))
	return b.String()
}

func (m Model) renderQuestion() string {
	steps := simulation.QuestionSteps()
	current := 0
	for i, s := range steps {
		if s == m.state.CurrentStep {
			current = i + 1
		}
	}

	var b strings.Builder
	b.WriteString(components.NewProgressBar(current, len(steps)).WithLabel(stepTitles[m.state.CurrentStep]).Render())
	b.WriteString("\n\n")
	if m.prompt != nil {
		b.WriteString(m.prompt.View())
	}
	return b.String()
}

func (m Model) renderResult() string {
	var b strings.Builder
	result := m.state.Result
	if result == nil {
		return "No result yet. Press esc to go back."
	}

	if result.Eligible {
		b.WriteString(OutcomeStyle(true).Render("Your house appears to be eligible for the fund."))
		b.WriteString("\n")
		if tier, ok := m.machine.Evaluator().Tier(m.state.Answers); ok {
			b.WriteString(fmt.Sprintf("Income tier: %s\n", tier.Label()))
		}
	} else {
		b.WriteString(OutcomeStyle(false).Render("Your house is not eligible for the fund."))
		b.WriteString("\n")
		b.WriteString(eligibility.Message(result.Reason))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderChecks(result.Checks))

	if set := m.modifications(); set != nil {
		b.WriteString("\n")
		tf := &compare.TableFormatter{}
		b.WriteString(tf.Format(set))
	}

	b.WriteString("\n")
	b.WriteString(HintStyle.Render("Press enter to quit, esc to change your last answer"))
	return b.String()
}

func renderChecks(checks domain.Checks) string {
	var b strings.Builder
	for _, id := range domain.RuleOrder {
		chk := checks.Get(id)
		mark := "·"
		switch {
		case chk.IsPassed():
			mark = OutcomeStyle(true).Render("✓")
		case chk.IsFailed():
			mark = OutcomeStyle(false).Render("✗")
		}
		b.WriteString(fmt.Sprintf("%s %s\n", mark, strings.ReplaceAll(string(id), "_", " ")))
	}
	return b.String()
}
