package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/fundsim/internal/compare"
	"github.com/rgehrsitz/fundsim/internal/domain"
	"github.com/rgehrsitz/fundsim/internal/simulation"
	"github.com/rgehrsitz/fundsim/internal/store"
	"github.com/rgehrsitz/fundsim/internal/tui/components"
)

// Options configures the wizard
type Options struct {
	// EditMode runs the caseworker flow: no early exit and answers are
	// kept when going back.
	EditMode bool
	// Baseline is diffed against the edited answers on the result screen
	Baseline *domain.AnswerSet
	// Sessions persists the wizard after every transition when set
	Sessions  store.SessionStore
	SessionID string
}

// Model represents the entire application state
type Model struct {
	machine *simulation.Machine
	differ  *compare.Differ
	opts    Options

	state domain.SimulationState

	// questions of the current step and the answers collected for it so far
	questions []question
	qIndex    int
	prompt    *components.Prompt
	update    domain.AnswerSet

	keys keyMap
	help help.Model

	width  int
	height int

	status string
	err    error
}

// NewModel creates the wizard on a fresh session
func NewModel(machine *simulation.Machine, opts Options) Model {
	m := Model{
		machine: machine,
		differ:  compare.NewDiffer(machine.Evaluator()),
		opts:    opts,
		keys:    defaultKeyMap(),
		help:    help.New(),
		width:   80,
		height:  24,
	}
	m.state = machine.Create()
	if opts.Baseline != nil {
		m.state.Answers = opts.Baseline.Clone()
	}
	return m
}

// State returns the current session state
func (m Model) State() domain.SimulationState {
	return m.state
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	if m.opts.Sessions == nil || m.opts.SessionID == "" {
		return nil
	}
	return loadSessionCmd(m.machine, m.opts.Sessions, m.opts.SessionID)
}

// loadSessionCmd returns a command that reads and repairs a stored session
func loadSessionCmd(machine *simulation.Machine, sessions store.SessionStore, id string) tea.Cmd {
	return func() tea.Msg {
		state, err := sessions.Load(context.Background(), id)
		if errors.Is(err, store.ErrNotFound) {
			return SessionLoadedMsg{Fresh: true}
		}
		if err != nil {
			return SessionLoadedMsg{Err: err}
		}
		repaired, recovery := machine.Restore(state)
		return SessionLoadedMsg{State: repaired, Recovery: recovery}
	}
}

// saveSessionCmd returns a command that persists the session, nil when
// the wizard runs without a store
func (m Model) saveSessionCmd() tea.Cmd {
	if m.opts.Sessions == nil || m.opts.SessionID == "" {
		return nil
	}
	sessions, id, state := m.opts.Sessions, m.opts.SessionID, m.state.Clone()
	return func() tea.Msg {
		return SessionSavedMsg{Err: sessions.Save(context.Background(), id, state)}
	}
}

// enterStep prepares the questions of the current step
func (m *Model) enterStep() {
	m.questions = questionsFor(m.state.CurrentStep, m.machine.Evaluator().Rules())
	m.update = domain.AnswerSet{}
	m.qIndex = -1
	m.prompt = nil
	m.nextQuestion()
}

// nextQuestion moves to the next applicable question of the step. It
// returns false when the step has no question left.
func (m *Model) nextQuestion() bool {
	for i := m.qIndex + 1; i < len(m.questions); i++ {
		if m.applies(m.questions[i]) {
			m.showQuestion(i)
			return true
		}
	}
	m.qIndex = len(m.questions)
	m.prompt = nil
	return false
}

// previousQuestion moves back within the step, dropping the answer given to
// the question it returns to. It returns false on the first question.
func (m *Model) previousQuestion() bool {
	for i := m.qIndex - 1; i >= 0; i-- {
		if m.applies(m.questions[i]) {
			m.update = m.update.Without(m.questions[i].field)
			m.showQuestion(i)
			return true
		}
	}
	return false
}

func (m *Model) applies(q question) bool {
	return q.when == nil || q.when(m.state.Answers.Merge(m.update))
}

func (m *Model) showQuestion(i int) {
	q := m.questions[i]
	m.qIndex = i
	m.prompt = q.prompt()
	if v := q.current(m.state.Answers.Merge(m.update)); v != "" {
		m.prompt.SetValue(v)
	}
}

// modifications diffs the edited answers against the baseline, nil
// outside edit mode
func (m Model) modifications() *compare.ModificationSet {
	if m.opts.Baseline == nil {
		return nil
	}
	return m.differ.Compare(*m.opts.Baseline, m.state.Answers)
}
