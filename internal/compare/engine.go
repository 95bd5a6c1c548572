package compare

import (
	"fmt"

	"github.com/rgehrsitz/fundsim/internal/domain"
	"github.com/rgehrsitz/fundsim/internal/eligibility"
)

// comparableField describes one answer the diff reports on. extract returns
// the display form of the value and false when the value is absent.
type comparableField struct {
	field   domain.Field
	label   string
	rule    domain.RuleID
	extract func(d *Differ, a domain.AnswerSet) (string, bool)
}

var comparableFields = []comparableField{
	{
		field: domain.FieldHousingType, label: "Housing type", rule: domain.RuleHousingType,
		extract: func(_ *Differ, a domain.AnswerSet) (string, bool) {
			if a.Housing.Type == nil {
				return "", false
			}
			return housingTypeLabel(*a.Housing.Type), true
		},
	},
	{
		field: domain.FieldFloorCount, label: "Floors", rule: domain.RuleFloorCount,
		extract: func(_ *Differ, a domain.AnswerSet) (string, bool) {
			if a.Housing.FloorCount == nil {
				return "", false
			}
			return plural(*a.Housing.FloorCount, "floor", "floors"), true
		},
	},
	{
		field: domain.FieldDamageState, label: "Damage", rule: domain.RuleDamageState,
		extract: func(_ *Differ, a domain.AnswerSet) (string, bool) {
			if a.DamageHistory.State == nil {
				return "", false
			}
			return damageStateLabel(*a.DamageHistory.State), true
		},
	},
	{
		field: domain.FieldAdjacent, label: "Adjacency", rule: domain.RuleAdjacency,
		extract: func(_ *Differ, a domain.AnswerSet) (string, bool) {
			return yesNo(a.Housing.Adjacent, "Semi-detached or terraced", "Detached")
		},
	},
	{
		field: domain.FieldPriorCompensation, label: "Prior compensation", rule: domain.RulePriorCompensation,
		extract: func(_ *Differ, a domain.AnswerSet) (string, bool) {
			return yesNo(a.DamageHistory.PriorCompensation, "Yes", "No")
		},
	},
	{
		field: domain.FieldInsured, label: "Insurance", rule: domain.RuleInsurance,
		extract: func(_ *Differ, a domain.AnswerSet) (string, bool) {
			return yesNo(a.DamageHistory.Insured, "Insured", "Not insured")
		},
	},
	{
		field: domain.FieldOwnerOccupant, label: "Owner-occupancy", rule: domain.RuleOwnerOccupancy,
		extract: func(_ *Differ, a domain.AnswerSet) (string, bool) {
			return yesNo(a.Housing.OwnerOccupant, "Owner-occupant", "Not owner-occupant")
		},
	},
	{
		field: domain.FieldHouseholdSize, label: "Household size", rule: domain.RuleIncome,
		extract: func(_ *Differ, a domain.AnswerSet) (string, bool) {
			if a.Household.Size == nil {
				return "", false
			}
			return plural(*a.Household.Size, "person", "people"), true
		},
	},
	{
		// income is compared by tier so edits within a bracket do not show up
		field: domain.FieldHouseholdIncome, label: "Income", rule: domain.RuleIncome,
		extract: func(d *Differ, a domain.AnswerSet) (string, bool) {
			if a.Household.Income == nil {
				return "", false
			}
			tier, ok := d.evaluator.Tier(a)
			if !ok {
				return "", false
			}
			return tier.Label(), true
		},
	},
}

// Differ compares a baseline answer set with an edited one
type Differ struct {
	evaluator *eligibility.Evaluator
}

// NewDiffer creates a differ using the evaluator's income tables
func NewDiffer(evaluator *eligibility.Evaluator) *Differ {
	return &Differ{evaluator: evaluator}
}

// ComputeModifications lists the comparable fields whose value changed.
// current may be partial: a field counts as edited only when current sets
// it, and its new value is read from current laid over baseline so derived
// displays such as the income tier keep the baseline's household context.
// Each entry carries the outcome of the field's rule before and after.
func (d *Differ) ComputeModifications(baseline, current domain.AnswerSet, baselineChecks, currentChecks domain.Checks) []domain.Modification {
	effective := baseline.Merge(current)
	mods := []domain.Modification{}
	for _, cf := range comparableFields {
		if !current.Has(cf.field) {
			continue
		}
		after, ok := cf.extract(d, effective)
		if !ok {
			continue
		}
		before, ok := cf.extract(d, baseline)
		if !ok {
			before = "Not provided"
		}
		if before == after {
			continue
		}
		mods = append(mods, domain.Modification{
			Field:         cf.field,
			Label:         cf.label,
			BeforeDisplay: before,
			AfterDisplay:  after,
			WasEligible:   baselineChecks.Get(cf.rule).IsPassed(),
			IsEligible:    currentChecks.Get(cf.rule).IsPassed(),
		})
	}
	return mods
}

// Compare evaluates both answer sets and diffs them. The baseline gets the
// citizen determination with every rule resolved independently; the edit,
// laid over the baseline, gets the caseworker determination.
func (d *Differ) Compare(baseline, current domain.AnswerSet) *ModificationSet {
	before := d.evaluator.Conclude(baseline, d.evaluator.Evaluate(baseline, eligibility.EvaluateAll))
	after := d.evaluator.AssessForEdition(baseline.Merge(current))
	return &ModificationSet{
		BaselineEligible: before.Eligible,
		CurrentEligible:  after.Eligible,
		CurrentReason:    after.Reason,
		Modifications:    d.ComputeModifications(baseline, current, before.Checks, after.Checks),
	}
}

func housingTypeLabel(t domain.HousingType) string {
	switch t {
	case domain.HousingHouse:
		return "House"
	case domain.HousingApartment:
		return "Apartment"
	default:
		return string(t)
	}
}

func damageStateLabel(s domain.DamageState) string {
	switch s {
	case domain.DamageSound:
		return "Sound"
	case domain.DamageVerySlightlyDamaged:
		return "Very slightly damaged"
	case domain.DamageDamaged:
		return "Damaged"
	default:
		return string(s)
	}
}

func yesNo(v *bool, yes, no string) (string, bool) {
	if v == nil {
		return "", false
	}
	if *v {
		return yes, true
	}
	return no, true
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
