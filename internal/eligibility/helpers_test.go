package eligibility

import (
	"testing"
	"time"

	"github.com/rgehrsitz/fundsim/internal/config"
	"github.com/rgehrsitz/fundsim/internal/domain"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func testRules(t *testing.T) *domain.ProgramRules {
	t.Helper()
	rules, err := config.DefaultProgramRules()
	require.NoError(t, err)
	return rules
}

func testEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	return NewEvaluator(testRules(t), WithClock(func() time.Time { return fixedNow }))
}

// eligibleAnswers is a complete answer set passing every rule
func eligibleAnswers() domain.AnswerSet {
	return domain.AnswerSet{
		Housing: domain.Housing{
			Type:             domain.Ptr(domain.HousingHouse),
			DepartmentCode:   domain.Ptr("47"),
			RegionCode:       domain.Ptr("75"),
			ExposureZone:     domain.Ptr(domain.ExposureHigh),
			ConstructionYear: domain.Ptr(1985),
			FloorCount:       domain.Ptr(1),
			Adjacent:         domain.Ptr(false),
			OwnerOccupant:    domain.Ptr(true),
		},
		DamageHistory: domain.DamageHistory{
			State:             domain.Ptr(domain.DamageSound),
			Insured:           domain.Ptr(true),
			PriorCompensation: domain.Ptr(false),
		},
		Household: domain.Household{
			Size:   domain.Ptr(2),
			Income: domain.Money(15000),
		},
	}
}
