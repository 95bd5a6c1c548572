package domain

import (
	"fmt"
	"time"
)

// RuleID names one of the eligibility rules
type RuleID string

const (
	RuleHousingType       RuleID = "housing_type"
	RuleDepartment        RuleID = "department"
	RuleExposureZone      RuleID = "exposure_zone"
	RuleConstructionAge   RuleID = "construction_age"
	RuleFloorCount        RuleID = "floor_count"
	RuleDamageState       RuleID = "damage_state"
	RuleAdjacency         RuleID = "adjacency"
	RulePriorCompensation RuleID = "prior_compensation"
	RuleInsurance         RuleID = "insurance"
	RuleOwnerOccupancy    RuleID = "owner_occupancy"
	RuleIncome            RuleID = "income"
)

// RuleOrder is the fixed evaluation order. The first failing rule in this
// order is always the reported reason.
var RuleOrder = []RuleID{
	RuleHousingType,
	RuleDepartment,
	RuleExposureZone,
	RuleConstructionAge,
	RuleFloorCount,
	RuleDamageState,
	RuleAdjacency,
	RulePriorCompensation,
	RuleInsurance,
	RuleOwnerOccupancy,
	RuleIncome,
}

// Reason is the typed code attached to a failed rule
type Reason string

const (
	ReasonApartment              Reason = "apartment"
	ReasonDepartmentIneligible   Reason = "department_ineligible"
	ReasonZoneNotHigh            Reason = "zone_not_high"
	ReasonBuildingTooRecent      Reason = "building_too_recent"
	ReasonTooManyFloors          Reason = "too_many_floors"
	ReasonTooDamaged             Reason = "too_damaged"
	ReasonAdjacentBuilding       Reason = "adjacent_building"
	ReasonCompensationIneligible Reason = "compensation_ineligible"
	ReasonNotInsured             Reason = "not_insured"
	ReasonNotOwnerOccupant       Reason = "not_owner_occupant"
	ReasonIncomeTooHigh          Reason = "income_too_high"
)

// CheckStatus is the state of a single rule check
type CheckStatus int

const (
	CheckPending CheckStatus = iota
	CheckPassed
	CheckFailed
)

func (s CheckStatus) String() string {
	switch s {
	case CheckPassed:
		return "passed"
	case CheckFailed:
		return "failed"
	default:
		return "pending"
	}
}

// MarshalText implements encoding.TextMarshaler
func (s CheckStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *CheckStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "passed":
		*s = CheckPassed
	case "failed":
		*s = CheckFailed
	case "pending", "":
		*s = CheckPending
	default:
		return fmt.Errorf("unknown check status %q", string(text))
	}
	return nil
}

// Check is the outcome of one rule: pending, passed, or failed with a reason.
// The zero value is pending.
type Check struct {
	Status CheckStatus `yaml:"status" json:"status"`
	Reason Reason      `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// Passed builds a passing check
func Passed() Check { return Check{Status: CheckPassed} }

// Failed builds a failing check with its reason
func Failed(reason Reason) Check { return Check{Status: CheckFailed, Reason: reason} }

// Pending builds a not-yet-evaluated check
func Pending() Check { return Check{} }

func (c Check) IsPassed() bool  { return c.Status == CheckPassed }
func (c Check) IsFailed() bool  { return c.Status == CheckFailed }
func (c Check) IsPending() bool { return c.Status == CheckPending }

// Checks holds the evaluated rules. A rule absent from the map is pending.
type Checks map[RuleID]Check

// Get returns the check for a rule, pending when it was never evaluated
func (c Checks) Get(id RuleID) Check {
	if c == nil {
		return Pending()
	}
	return c[id]
}

// FirstFailure returns the first failing check in rule order
func (c Checks) FirstFailure() (RuleID, Check, bool) {
	for _, id := range RuleOrder {
		if chk := c.Get(id); chk.IsFailed() {
			return id, chk, true
		}
	}
	return "", Check{}, false
}

// AllPassed reports whether every rule resolved to passed
func (c Checks) AllPassed() bool {
	for _, id := range RuleOrder {
		if !c.Get(id).IsPassed() {
			return false
		}
	}
	return true
}

// AnyResolved reports whether at least one rule passed or failed
func (c Checks) AnyResolved() bool {
	for _, id := range RuleOrder {
		if !c.Get(id).IsPending() {
			return true
		}
	}
	return false
}

// Clone returns an independent copy
func (c Checks) Clone() Checks {
	if c == nil {
		return nil
	}
	out := make(Checks, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// IncomeTier is one of the four ordered income brackets
type IncomeTier string

const (
	TierVeryModest   IncomeTier = "very-modest"
	TierModest       IncomeTier = "modest"
	TierIntermediate IncomeTier = "intermediate"
	TierUpper        IncomeTier = "upper"
)

// Label returns the display name of the tier
func (t IncomeTier) Label() string {
	switch t {
	case TierVeryModest:
		return "Very modest"
	case TierModest:
		return "Modest"
	case TierIntermediate:
		return "Intermediate"
	case TierUpper:
		return "Upper"
	default:
		return "Unknown"
	}
}

// EligibilityResult is the determination recorded when the questionnaire ends.
// Reason is set iff Eligible is false.
type EligibilityResult struct {
	Eligible         bool      `yaml:"eligible" json:"eligible"`
	Reason           Reason    `yaml:"reason,omitempty" json:"reason,omitempty"`
	DeterminedAtStep Step      `yaml:"determined_at_step" json:"determined_at_step"`
	DeterminedAt     time.Time `yaml:"determined_at" json:"determined_at"`
	Checks           Checks    `yaml:"checks" json:"checks"`
}
