package eligibility

import (
	"github.com/rgehrsitz/fundsim/internal/domain"
	"github.com/shopspring/decimal"
)

// Each predicate below takes only the answers it needs. Missing input is a
// failure with the rule's own reason; the orchestrator never calls a
// predicate before its input exists, so "not answered yet" stays pending there.

// CheckHousingType passes only for houses
func CheckHousingType(t *domain.HousingType) domain.Check {
	if t == nil || *t != domain.HousingHouse {
		return domain.Failed(domain.ReasonApartment)
	}
	return domain.Passed()
}

// CheckDepartment passes when the department is on the program whitelist
func CheckDepartment(code *string, rules *domain.ProgramRules) domain.Check {
	if code == nil || !rules.IsEligibleDepartment(*code) {
		return domain.Failed(domain.ReasonDepartmentIneligible)
	}
	return domain.Passed()
}

// CheckExposureZone passes only for high clay-exposure zones
func CheckExposureZone(zone *domain.ExposureZone) domain.Check {
	if zone == nil || *zone != domain.ExposureHigh {
		return domain.Failed(domain.ReasonZoneNotHigh)
	}
	return domain.Passed()
}

// CheckConstructionAge passes when the building is at least minAge years old
func CheckConstructionAge(constructionYear *int, currentYear, minAge int) domain.Check {
	if constructionYear == nil || currentYear-*constructionYear < minAge {
		return domain.Failed(domain.ReasonBuildingTooRecent)
	}
	return domain.Passed()
}

// CheckFloorCount passes when the building has at most maxFloors floors
func CheckFloorCount(floors *int, maxFloors int) domain.Check {
	if floors == nil || *floors > maxFloors {
		return domain.Failed(domain.ReasonTooManyFloors)
	}
	return domain.Passed()
}

// CheckDamageState passes for sound or very slightly damaged buildings
func CheckDamageState(state *domain.DamageState) domain.Check {
	if state == nil {
		return domain.Failed(domain.ReasonTooDamaged)
	}
	switch *state {
	case domain.DamageSound, domain.DamageVerySlightlyDamaged:
		return domain.Passed()
	default:
		return domain.Failed(domain.ReasonTooDamaged)
	}
}

// CheckAdjacency passes for detached houses
func CheckAdjacency(adjacent *bool) domain.Check {
	if adjacent == nil || *adjacent {
		return domain.Failed(domain.ReasonAdjacentBuilding)
	}
	return domain.Passed()
}

// CheckPriorCompensation applies the two-tier grandfather rule on past
// natural-disaster compensation:
//   - never compensated: pass
//   - paid on or after the eligibility cutoff: fail
//   - paid before the cap cutoff: pass whatever the amount
//   - paid between the two cutoffs: pass only up to the amount cap
//
// Any qualifier still unknown leaves the check pending.
func CheckPriorCompensation(d domain.DamageHistory, amountCap decimal.Decimal) domain.Check {
	if d.PriorCompensation == nil {
		return domain.Failed(domain.ReasonCompensationIneligible)
	}
	if !*d.PriorCompensation {
		return domain.Passed()
	}
	if d.BeforeEligibilityCutoff == nil {
		return domain.Pending()
	}
	if !*d.BeforeEligibilityCutoff {
		return domain.Failed(domain.ReasonCompensationIneligible)
	}
	if d.BeforeCapCutoff == nil {
		return domain.Pending()
	}
	if *d.BeforeCapCutoff {
		return domain.Passed()
	}
	if d.CompensationAmount == nil {
		return domain.Pending()
	}
	if d.CompensationAmount.GreaterThan(amountCap) {
		return domain.Failed(domain.ReasonCompensationIneligible)
	}
	return domain.Passed()
}

// CheckInsurance passes when the house is currently insured
func CheckInsurance(insured *bool) domain.Check {
	if insured == nil || !*insured {
		return domain.Failed(domain.ReasonNotInsured)
	}
	return domain.Passed()
}

// CheckOwnerOccupancy passes when the applicant owns and lives in the house
func CheckOwnerOccupancy(ownerOccupant *bool) domain.Check {
	if ownerOccupant == nil || !*ownerOccupant {
		return domain.Failed(domain.ReasonNotOwnerOccupant)
	}
	return domain.Passed()
}

// CheckIncome passes for every tier but the upper one.
// An undetermined tier counts as a failure.
func CheckIncome(h domain.Household, isCapitalRegion bool, calc *IncomeTierCalculator) domain.Check {
	tier, ok := calc.TierFor(h, isCapitalRegion)
	if !ok || tier == domain.TierUpper {
		return domain.Failed(domain.ReasonIncomeTooHigh)
	}
	return domain.Passed()
}
