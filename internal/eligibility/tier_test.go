package eligibility

import (
	"testing"

	"github.com/rgehrsitz/fundsim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncomeTierCalculator_Tier(t *testing.T) {
	calc := NewIncomeTierCalculator(testRules(t).Income)

	tests := []struct {
		name    string
		income  int64
		size    int
		capital bool
		want    domain.IncomeTier
	}{
		{"size 1 at very modest ceiling", 21805, 1, false, domain.TierVeryModest},
		{"size 1 one euro above very modest ceiling", 21806, 1, false, domain.TierModest},
		{"size 1 at modest ceiling", 27954, 1, false, domain.TierModest},
		{"size 1 one euro above modest ceiling", 27955, 1, false, domain.TierIntermediate},
		{"size 1 at intermediate ceiling", 39164, 1, false, domain.TierIntermediate},
		{"size 1 above intermediate ceiling", 39165, 1, false, domain.TierUpper},
		{"zero income", 0, 1, false, domain.TierVeryModest},
		{"size 2 low income", 15000, 2, false, domain.TierVeryModest},
		{"size 2 middle income", 35000, 2, false, domain.TierModest},
		{"capital region uses its own table", 24031, 1, true, domain.TierVeryModest},
		{"same income outside the capital", 24031, 1, false, domain.TierModest},
		{"size 5 last table row", 92610, 5, false, domain.TierIntermediate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, err := calc.Tier(decimal.NewFromInt(tt.income), tt.size, tt.capital)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tier)
		})
	}
}

func TestIncomeTierCalculator_FractionalIncomeAtBoundary(t *testing.T) {
	calc := NewIncomeTierCalculator(testRules(t).Income)

	tier, err := calc.Tier(decimal.RequireFromString("21805.99"), 1, false)
	require.NoError(t, err)
	assert.Equal(t, domain.TierVeryModest, tier, "Anything below ceiling+1 stays in the lower tier")
}

func TestIncomeTierCalculator_Extrapolation(t *testing.T) {
	calc := NewIncomeTierCalculator(testRules(t).Income)

	t.Run("other regions size 7", func(t *testing.T) {
		th, err := calc.Thresholds(7, false)
		require.NoError(t, err)
		assert.True(t, th.VeryModest.Equal(decimal.NewFromInt(51289+2*6471)), "got %s", th.VeryModest)
		assert.True(t, th.Modest.Equal(decimal.NewFromInt(65749+2*8302)), "got %s", th.Modest)
		assert.True(t, th.Intermediate.Equal(decimal.NewFromInt(92610+2*11694)), "got %s", th.Intermediate)
	})

	t.Run("capital region size 6", func(t *testing.T) {
		th, err := calc.Thresholds(6, true)
		require.NoError(t, err)
		assert.True(t, th.VeryModest.Equal(decimal.NewFromInt(56580+7116)), "got %s", th.VeryModest)
	})

	t.Run("boundary holds past the table", func(t *testing.T) {
		ceiling := int64(51289 + 6471)
		tier, err := calc.Tier(decimal.NewFromInt(ceiling), 6, false)
		require.NoError(t, err)
		assert.Equal(t, domain.TierVeryModest, tier)

		tier, err = calc.Tier(decimal.NewFromInt(ceiling+1), 6, false)
		require.NoError(t, err)
		assert.Equal(t, domain.TierModest, tier)
	})
}

func TestIncomeTierCalculator_Errors(t *testing.T) {
	calc := NewIncomeTierCalculator(testRules(t).Income)

	_, err := calc.Tier(decimal.NewFromInt(1000), 0, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "household size must be at least 1")

	empty := &IncomeTierCalculator{}
	_, err = empty.Thresholds(1, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "income table is empty")
}

func TestIncomeTierCalculator_TierFor(t *testing.T) {
	calc := NewIncomeTierCalculator(testRules(t).Income)

	tier, ok := calc.TierFor(domain.Household{Size: domain.Ptr(2), Income: domain.Money(35000)}, false)
	assert.True(t, ok)
	assert.Equal(t, domain.TierModest, tier)

	_, ok = calc.TierFor(domain.Household{Size: domain.Ptr(2)}, false)
	assert.False(t, ok, "Missing income leaves the tier undetermined")

	_, ok = calc.TierFor(domain.Household{Income: domain.Money(35000)}, false)
	assert.False(t, ok, "Missing size leaves the tier undetermined")

	_, ok = calc.TierFor(domain.Household{Size: domain.Ptr(0), Income: domain.Money(35000)}, false)
	assert.False(t, ok, "Invalid size leaves the tier undetermined")
}
