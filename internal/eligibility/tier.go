package eligibility

import (
	"fmt"

	"github.com/rgehrsitz/fundsim/internal/domain"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// IncomeTierCalculator classifies declared household income into the four
// means-testing tiers using the regional threshold tables
type IncomeTierCalculator struct {
	CapitalRegion domain.IncomeTable
	OtherRegions  domain.IncomeTable
}

// NewIncomeTierCalculator creates a calculator from the program income rules
func NewIncomeTierCalculator(rules domain.IncomeRules) *IncomeTierCalculator {
	return &IncomeTierCalculator{
		CapitalRegion: rules.CapitalRegion,
		OtherRegions:  rules.OtherRegions,
	}
}

// Thresholds returns the three tier ceilings for a household size.
// Sizes past the end of the table are extrapolated linearly from the last row.
func (c *IncomeTierCalculator) Thresholds(householdSize int, isCapitalRegion bool) (domain.IncomeThresholds, error) {
	if householdSize < 1 {
		return domain.IncomeThresholds{}, fmt.Errorf("household size must be at least 1, got %d", householdSize)
	}

	table := c.OtherRegions
	if isCapitalRegion {
		table = c.CapitalRegion
	}
	if len(table.BySize) == 0 {
		return domain.IncomeThresholds{}, fmt.Errorf("income table is empty")
	}

	if householdSize <= len(table.BySize) {
		return table.BySize[householdSize-1], nil
	}

	base := table.BySize[len(table.BySize)-1]
	extra := decimal.NewFromInt(int64(householdSize - len(table.BySize)))
	return domain.IncomeThresholds{
		VeryModest:   base.VeryModest.Add(table.PerExtraPerson.VeryModest.Mul(extra)),
		Modest:       base.Modest.Add(table.PerExtraPerson.Modest.Mul(extra)),
		Intermediate: base.Intermediate.Add(table.PerExtraPerson.Intermediate.Mul(extra)),
	}, nil
}

// Tier classifies income for a household. A ceiling is inclusive: an income
// equal to a published ceiling belongs to the lower tier, and each tier's
// exclusive upper bound is ceiling + 1.
func (c *IncomeTierCalculator) Tier(income decimal.Decimal, householdSize int, isCapitalRegion bool) (domain.IncomeTier, error) {
	t, err := c.Thresholds(householdSize, isCapitalRegion)
	if err != nil {
		return "", err
	}

	switch {
	case income.LessThan(t.VeryModest.Add(one)):
		return domain.TierVeryModest, nil
	case income.LessThan(t.Modest.Add(one)):
		return domain.TierModest, nil
	case income.LessThan(t.Intermediate.Add(one)):
		return domain.TierIntermediate, nil
	default:
		return domain.TierUpper, nil
	}
}

// TierFor classifies a household answer group. The second return is false when
// size or income is missing or the size is invalid; callers treat that as a
// failed income rule.
func (c *IncomeTierCalculator) TierFor(h domain.Household, isCapitalRegion bool) (domain.IncomeTier, bool) {
	if h.Size == nil || h.Income == nil {
		return "", false
	}
	tier, err := c.Tier(*h.Income, *h.Size, isCapitalRegion)
	if err != nil {
		return "", false
	}
	return tier, true
}
