package simulation

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/fundsim/internal/domain"
	"github.com/rgehrsitz/fundsim/internal/eligibility"
)

var (
	// ErrInvalidTransition is returned when an operation is not allowed from the current step
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrIncomplete is returned when a complete record is requested for partial answers
	ErrIncomplete = errors.New("answers are incomplete")
)

// Transition kinds reported to the Observer
const (
	TransitionStart   = "start"
	TransitionAdvance = "advance"
	TransitionExit    = "early_exit"
	TransitionFinish  = "finish"
	TransitionBack    = "back"
	TransitionReset   = "reset"
)

// SubmitOptions tunes SubmitAnswer
type SubmitOptions struct {
	// SkipEarlyExit evaluates every rule and never ends the questionnaire
	// before the last step (edit mode)
	SkipEarlyExit bool
}

// BackOptions tunes GoBack
type BackOptions struct {
	// PreserveAnswers keeps the answers of the step being left (edit mode)
	PreserveAnswers bool
}

// Outcome is the result of a one-shot evaluation over an answer set
type Outcome struct {
	Result     domain.EligibilityResult `yaml:"result" json:"result"`
	Checks     domain.Checks            `yaml:"checks" json:"checks"`
	IsComplete bool                     `yaml:"is_complete" json:"is_complete"`
	Tier       domain.IncomeTier        `yaml:"tier,omitempty" json:"tier,omitempty"`
}

// Machine drives a questionnaire session. It holds no session state: every
// operation takes a state and returns the next one.
type Machine struct {
	Logger    Logger
	evaluator *eligibility.Evaluator
	observer  Observer
	now       func() time.Time
	newID     func() string
}

// Option configures a Machine
type Option func(*Machine)

// WithClock overrides the clock used for timestamps and the construction-age rule
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}

// WithObserver reports transitions and determinations to o
func WithObserver(o Observer) Option {
	return func(m *Machine) {
		if o != nil {
			m.observer = o
		}
	}
}

// WithIDGenerator overrides how complete-record identifiers are produced
func WithIDGenerator(newID func() string) Option {
	return func(m *Machine) {
		if newID != nil {
			m.newID = newID
		}
	}
}

// NewMachine creates a state machine over a program rule set
func NewMachine(rules *domain.ProgramRules, opts ...Option) *Machine {
	m := &Machine{
		Logger:   NopLogger{},
		observer: nopObserver{},
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	m.evaluator = eligibility.NewEvaluator(rules, eligibility.WithClock(m.now))
	return m
}

// SetLogger sets the logger, falling back to NopLogger for nil
func (m *Machine) SetLogger(l Logger) {
	if l == nil {
		m.Logger = NopLogger{}
		return
	}
	m.Logger = l
}

// Evaluator exposes the underlying rule orchestrator
func (m *Machine) Evaluator() *eligibility.Evaluator {
	return m.evaluator
}

// Create returns a fresh session parked on the intro step
func (m *Machine) Create() domain.SimulationState {
	now := m.now()
	return domain.SimulationState{
		CurrentStep: domain.StepIntro,
		Answers:     domain.AnswerSet{},
		History:     []domain.Step{},
		StartedAt:   now,
		UpdatedAt:   now,
	}
}

// Reset discards the session and returns a fresh one
func (m *Machine) Reset() domain.SimulationState {
	m.observer.IncrementTransition(TransitionReset)
	return m.Create()
}

// Start leaves the intro step for the first question
func (m *Machine) Start(state domain.SimulationState) (domain.SimulationState, error) {
	if state.CurrentStep != domain.StepIntro {
		return state, fmt.Errorf("%w: cannot start from step %q", ErrInvalidTransition, state.CurrentStep)
	}

	next := state.Clone()
	next.History = append(next.History, domain.StepIntro)
	next.CurrentStep = nextStep(domain.StepIntro)
	next.UpdatedAt = m.now()

	m.observer.IncrementTransition(TransitionStart)
	return next, nil
}

// SubmitAnswer merges update into the answers and moves the session on.
// The session jumps to the result step when a rule fails in citizen mode or
// when the last question is answered; otherwise it advances one step.
func (m *Machine) SubmitAnswer(state domain.SimulationState, update domain.AnswerSet, opts SubmitOptions) (domain.SimulationState, error) {
	current := state.CurrentStep
	if current == domain.StepIntro || current == domain.StepResult || !IsKnownStep(current) {
		return state, fmt.Errorf("%w: cannot submit answers on step %q", ErrInvalidTransition, current)
	}

	next := state.Clone()
	next.Answers = state.Answers.Merge(update)
	next.History = append(next.History, current)
	next.UpdatedAt = m.now()

	policy := eligibility.StopAtFirstFailure
	if opts.SkipEarlyExit {
		policy = eligibility.EvaluateAll
	}

	started := time.Now()
	ev := m.evaluator.Evaluate(next.Answers, policy)
	m.observer.ObserveEvaluateLatency(time.Since(started))

	exit := ev.ShouldExit && !opts.SkipEarlyExit
	if !exit && current != lastQuestionStep() {
		next.CurrentStep = nextStep(current)
		m.observer.IncrementTransition(TransitionAdvance)
		return next, nil
	}

	result := m.determine(next.Answers, ev, current)
	next.CurrentStep = domain.StepResult
	next.Result = &result

	kind := TransitionFinish
	if exit {
		kind = TransitionExit
		m.Logger.Debugf("early exit at step %s: %s", current, result.Reason)
	}
	m.observer.IncrementTransition(kind)
	m.observer.IncrementResult(result.Eligible, string(result.Reason))
	return next, nil
}

// GoBack returns to the previous step and always clears the result. In
// citizen mode the answers of the step being left are cleared too.
// Nothing happens when there is nowhere to go back to.
func (m *Machine) GoBack(state domain.SimulationState, opts BackOptions) domain.SimulationState {
	if !state.CanGoBack() {
		return state
	}

	next := state.Clone()
	last := len(next.History) - 1
	leaving := next.CurrentStep
	next.CurrentStep = next.History[last]
	next.History = next.History[:last]
	next.Result = nil
	if !opts.PreserveAnswers {
		next.Answers = next.Answers.Without(stepFields[leaving]...)
	}
	next.UpdatedAt = m.now()

	m.observer.IncrementTransition(TransitionBack)
	return next
}

// Evaluate makes the citizen-mode determination over answers
func (m *Machine) Evaluate(answers domain.AnswerSet) Outcome {
	return m.outcome(func() eligibility.Assessment { return m.evaluator.Assess(answers) })
}

// EvaluateForEdition makes the caseworker determination over answers.
// Rules that could not be evaluated do not block eligibility unless the
// program requires completeness in edit mode.
func (m *Machine) EvaluateForEdition(answers domain.AnswerSet) Outcome {
	return m.outcome(func() eligibility.Assessment { return m.evaluator.AssessForEdition(answers) })
}

func (m *Machine) outcome(assess func() eligibility.Assessment) Outcome {
	started := time.Now()
	as := assess()
	m.observer.ObserveEvaluateLatency(time.Since(started))

	step := as.FailedAtStep
	if step == "" {
		step = domain.StepResult
	}
	return Outcome{
		Result: domain.EligibilityResult{
			Eligible:         as.Eligible,
			Reason:           as.Reason,
			DeterminedAtStep: step,
			DeterminedAt:     m.now(),
			Checks:           as.Checks,
		},
		Checks:     as.Checks,
		IsComplete: as.IsComplete,
		Tier:       as.Tier,
	}
}

// ToCompleteRecord finalizes a complete answer set for the record sink
func (m *Machine) ToCompleteRecord(answers domain.AnswerSet) (domain.CompleteRecord, error) {
	if missing := eligibility.MissingFields(answers); len(missing) > 0 {
		return domain.CompleteRecord{}, fmt.Errorf("%w: missing %v", ErrIncomplete, missing)
	}

	out := m.Evaluate(answers)
	return domain.CompleteRecord{
		ID:          m.newID(),
		Answers:     answers.Clone(),
		Result:      out.Result,
		IncomeTier:  out.Tier,
		CompletedAt: out.Result.DeterminedAt,
	}, nil
}

func (m *Machine) determine(answers domain.AnswerSet, ev eligibility.Evaluation, at domain.Step) domain.EligibilityResult {
	as := m.evaluator.Conclude(answers, ev)
	return domain.EligibilityResult{
		Eligible:         as.Eligible,
		Reason:           as.Reason,
		DeterminedAtStep: at,
		DeterminedAt:     m.now(),
		Checks:           as.Checks,
	}
}
