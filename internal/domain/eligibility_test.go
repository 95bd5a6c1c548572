package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecks(t *testing.T) {
	var empty Checks
	assert.True(t, empty.Get(RuleIncome).IsPending(), "nil checks report pending")
	assert.False(t, empty.AllPassed())
	assert.False(t, empty.AnyResolved())

	checks := Checks{
		RuleHousingType: Passed(),
		RuleInsurance:   Failed(ReasonNotInsured),
		RuleAdjacency:   Failed(ReasonAdjacentBuilding),
	}

	id, chk, ok := checks.FirstFailure()
	require.True(t, ok)
	assert.Equal(t, RuleAdjacency, id, "first failure follows rule order, not insertion")
	assert.Equal(t, ReasonAdjacentBuilding, chk.Reason)
	assert.True(t, checks.AnyResolved())

	all := Checks{}
	for _, id := range RuleOrder {
		all[id] = Passed()
	}
	assert.True(t, all.AllPassed())
	_, _, ok = all.FirstFailure()
	assert.False(t, ok)

	c := all.Clone()
	c[RuleIncome] = Failed(ReasonIncomeTooHigh)
	assert.True(t, all.Get(RuleIncome).IsPassed())
}

func TestCheckStatusText(t *testing.T) {
	for _, s := range []CheckStatus{CheckPending, CheckPassed, CheckFailed} {
		text, err := s.MarshalText()
		require.NoError(t, err)

		var back CheckStatus
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, s, back)
	}

	var s CheckStatus
	assert.Error(t, s.UnmarshalText([]byte("maybe")))
}

func TestIncomeTierLabel(t *testing.T) {
	assert.Equal(t, "Very modest", TierVeryModest.Label())
	assert.Equal(t, "Upper", TierUpper.Label())
	assert.Equal(t, "Unknown", IncomeTier("").Label())
}

func TestSimulationState(t *testing.T) {
	s := SimulationState{CurrentStep: StepIntro}
	assert.False(t, s.CanGoBack())

	s = SimulationState{
		CurrentStep: StepAddress,
		History:     []Step{StepIntro, StepHousingType},
		Result: &EligibilityResult{
			Eligible:     false,
			Reason:       ReasonApartment,
			DeterminedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Checks:       Checks{RuleHousingType: Failed(ReasonApartment)},
		},
	}
	assert.True(t, s.CanGoBack())

	c := s.Clone()
	c.History[0] = StepResult
	c.Result.Checks[RuleHousingType] = Passed()
	assert.Equal(t, StepIntro, s.History[0])
	assert.True(t, s.Result.Checks[RuleHousingType].IsFailed())
}

func TestModificationFlips(t *testing.T) {
	assert.True(t, Modification{WasEligible: true, IsEligible: false}.FlipsEligibility())
	assert.False(t, Modification{WasEligible: true, IsEligible: true}.FlipsEligibility())
}

func TestProgramRulesDepartment(t *testing.T) {
	r := &ProgramRules{EligibleDepartments: []string{"47", "2A"}}
	assert.True(t, r.IsEligibleDepartment("2A"))
	assert.False(t, r.IsEligibleDepartment("75"))
}
