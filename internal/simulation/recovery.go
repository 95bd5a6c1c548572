package simulation

import (
	"github.com/rgehrsitz/fundsim/internal/domain"
	"github.com/rgehrsitz/fundsim/internal/eligibility"
)

// Recovery describes what Restore had to do to a loaded session
type Recovery string

const (
	RecoveryNone          Recovery = "none"
	RecoveryRecomputed    Recovery = "recomputed"
	RecoveryReset         Recovery = "reset"
	RecoveryClearedResult Recovery = "cleared_result"
)

// Restore makes a session loaded from storage safe to resume. Stored
// sessions may predate the current rule definitions: a result step without
// checks is recomputed from the stored answers, and reset when no rule can
// be resolved from them. A result left on a non-result step is dropped.
func (m *Machine) Restore(state domain.SimulationState) (domain.SimulationState, Recovery) {
	if !IsKnownStep(state.CurrentStep) {
		m.Logger.Warnf("stored session is on unknown step %q, resetting", state.CurrentStep)
		return m.recovered(m.Create(), RecoveryReset)
	}

	if state.CurrentStep != domain.StepResult {
		if state.Result == nil {
			return state, RecoveryNone
		}
		m.Logger.Warnf("stored session on step %s carries a result, clearing it", state.CurrentStep)
		next := state.Clone()
		next.Result = nil
		return m.recovered(next, RecoveryClearedResult)
	}

	if state.Result != nil && len(state.Result.Checks) > 0 {
		return state, RecoveryNone
	}

	ev := m.evaluator.Evaluate(state.Answers, eligibility.StopAtFirstFailure)
	if !ev.Checks.AnyResolved() {
		m.Logger.Warnf("stored result has no checks and none can be recomputed, resetting session")
		return m.recovered(m.Create(), RecoveryReset)
	}

	at := domain.StepResult
	if n := len(state.History); n > 0 {
		at = state.History[n-1]
	}
	result := m.determine(state.Answers, ev, at)

	m.Logger.Warnf("stored result had no checks, recomputed it (eligible=%t)", result.Eligible)
	next := state.Clone()
	next.Result = &result
	next.UpdatedAt = m.now()
	return m.recovered(next, RecoveryRecomputed)
}

func (m *Machine) recovered(state domain.SimulationState, kind Recovery) (domain.SimulationState, Recovery) {
	m.observer.IncrementRecovery(string(kind))
	return state, kind
}
