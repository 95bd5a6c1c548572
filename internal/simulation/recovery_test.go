package simulation

import (
	"testing"

	"github.com/rgehrsitz/fundsim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachine_Restore(t *testing.T) {
	t.Run("healthy session is untouched", func(t *testing.T) {
		m := newTestMachine(t)
		state := walk(t, m, eligibleAnswers(), SubmitOptions{})

		restored, kind := m.Restore(state)

		assert.Equal(t, RecoveryNone, kind)
		assert.Equal(t, state, restored)
	})

	t.Run("result without checks is recomputed", func(t *testing.T) {
		logger := &TestLogger{}
		obs := newCountingObserver()
		m := newTestMachine(t, WithObserver(obs))
		m.SetLogger(logger)

		state := walk(t, m, eligibleAnswers(), SubmitOptions{})
		state.Result.Checks = nil

		restored, kind := m.Restore(state)

		assert.Equal(t, RecoveryRecomputed, kind)
		require.NotNil(t, restored.Result)
		assert.True(t, restored.Result.Eligible)
		assert.True(t, restored.Result.Checks.AllPassed())
		assert.Equal(t, domain.StepHousehold, restored.Result.DeterminedAtStep)
		assert.Len(t, logger.Warnings, 1)
		assert.Equal(t, 1, obs.recoveries[string(RecoveryRecomputed)])
		assert.Nil(t, state.Result.Checks, "The loaded state is not modified")
	})

	t.Run("missing result is recomputed", func(t *testing.T) {
		m := newTestMachine(t)
		answers := eligibleAnswers()
		answers.Housing.DepartmentCode = domain.Ptr("75")
		state := m.Create()
		state.CurrentStep = domain.StepResult
		state.Answers = answers
		state.History = []domain.Step{domain.StepIntro, domain.StepHousingType, domain.StepAddress}

		restored, kind := m.Restore(state)

		assert.Equal(t, RecoveryRecomputed, kind)
		require.NotNil(t, restored.Result)
		assert.False(t, restored.Result.Eligible)
		assert.Equal(t, domain.ReasonDepartmentIneligible, restored.Result.Reason)
		assert.Equal(t, domain.StepAddress, restored.Result.DeterminedAtStep)
	})

	t.Run("nothing to recompute resets", func(t *testing.T) {
		logger := &TestLogger{}
		m := newTestMachine(t)
		m.SetLogger(logger)
		state := m.Create()
		state.CurrentStep = domain.StepResult
		state.History = []domain.Step{domain.StepIntro}

		restored, kind := m.Restore(state)

		assert.Equal(t, RecoveryReset, kind)
		assert.Equal(t, m.Create(), restored)
		assert.Len(t, logger.Warnings, 1)
	})

	t.Run("unknown step resets", func(t *testing.T) {
		m := newTestMachine(t)
		state := m.Create()
		state.CurrentStep = "legacy-step"

		restored, kind := m.Restore(state)

		assert.Equal(t, RecoveryReset, kind)
		assert.Equal(t, domain.StepIntro, restored.CurrentStep)
	})

	t.Run("stale result on a question step is dropped", func(t *testing.T) {
		m := newTestMachine(t)
		state, err := m.Start(m.Create())
		require.NoError(t, err)
		state.Result = &domain.EligibilityResult{Eligible: true}

		restored, kind := m.Restore(state)

		assert.Equal(t, RecoveryClearedResult, kind)
		assert.Nil(t, restored.Result)
		assert.Equal(t, domain.StepHousingType, restored.CurrentStep)
	})
}
