package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/fundsim/internal/domain"
	"github.com/rgehrsitz/fundsim/internal/simulation"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case SessionLoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		if msg.Fresh {
			m.status = "New session " + m.opts.SessionID
			return m, nil
		}
		m.state = msg.State
		m.status = "Resumed session " + m.opts.SessionID
		if msg.Recovery != simulation.RecoveryNone {
			m.status += fmt.Sprintf(" (repaired: %s)", msg.Recovery)
		}
		m.enterStep()
		return m, nil

	case SessionSavedMsg:
		if msg.Err != nil {
			m.err = fmt.Errorf("saving session: %w", msg.Err)
		}
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		m.err = nil
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Reset):
		m.state = m.machine.Reset()
		m.questions, m.prompt = nil, nil
		m.status = "Started over"
		return m, m.saveSessionCmd()

	case key.Matches(msg, m.keys.Back):
		return m.back()
	}

	switch m.state.CurrentStep {
	case domain.StepIntro:
		if key.Matches(msg, m.keys.Confirm) {
			return m.transition(m.machine.Start(m.state))
		}
		return m, nil

	case domain.StepResult:
		if key.Matches(msg, m.keys.Confirm) {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.prompt == nil {
		m.enterStep()
		if m.prompt == nil {
			return m, nil
		}
	}

	done, cmd := m.prompt.Update(msg)
	if !done {
		return m, cmd
	}
	return m.answer()
}

// answer records the confirmed prompt value and submits the step once its
// last applicable question is answered
func (m Model) answer() (tea.Model, tea.Cmd) {
	q := m.questions[m.qIndex]
	update, err := applyAnswer(q, m.update, m.prompt.Value())
	if err != nil {
		m.prompt.SetError(err.Error())
		return m, nil
	}
	m.update = update

	if m.nextQuestion() {
		return m, nil
	}

	opts := simulation.SubmitOptions{SkipEarlyExit: m.opts.EditMode}
	return m.transition(m.machine.SubmitAnswer(m.state, m.update, opts))
}

// back steps to the previous question, or to the previous step
func (m Model) back() (tea.Model, tea.Cmd) {
	if m.prompt != nil && m.previousQuestion() {
		return m, nil
	}
	if !m.state.CanGoBack() {
		return m, nil
	}
	m.state = m.machine.GoBack(m.state, simulation.BackOptions{PreserveAnswers: m.opts.EditMode})
	m.enterStep()
	return m, m.saveSessionCmd()
}

func (m Model) transition(next domain.SimulationState, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.err = err
		return m, nil
	}
	m.state = next
	m.status = ""
	m.enterStep()
	return m, m.saveSessionCmd()
}
