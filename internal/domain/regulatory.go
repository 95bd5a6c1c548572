package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProgramRules contains all regulatory data of the repair fund that applies
// uniformly to every applicant. It is loaded from program.yaml.
type ProgramRules struct {
	Metadata            ProgramMetadata   `yaml:"metadata" json:"metadata"`
	EligibleDepartments []string          `yaml:"eligible_departments" json:"eligible_departments"`
	CapitalRegionCode   string            `yaml:"capital_region_code" json:"capital_region_code"`
	Building            BuildingRules     `yaml:"building" json:"building"`
	Compensation        CompensationRules `yaml:"compensation" json:"compensation"`
	Income              IncomeRules       `yaml:"income" json:"income"`
	Edit                EditRules         `yaml:"edit" json:"edit"`
}

// ProgramMetadata contains information about the rule set
type ProgramMetadata struct {
	DataYear    int    `yaml:"data_year" json:"data_year"`
	LastUpdated string `yaml:"last_updated" json:"last_updated"`
	Description string `yaml:"description" json:"description"`
}

// BuildingRules contains the structural limits of eligible houses
type BuildingRules struct {
	MinAgeYears int `yaml:"min_age_years" json:"min_age_years"`
	MaxFloors   int `yaml:"max_floors" json:"max_floors"`
}

// CompensationRules contains the grandfathering of past natural-disaster claims.
// Claims paid on or after EligibilityCutoff disqualify; claims paid before
// CapCutoff are exempt from AmountCap.
type CompensationRules struct {
	EligibilityCutoff time.Time       `yaml:"eligibility_cutoff" json:"eligibility_cutoff"`
	CapCutoff         time.Time       `yaml:"cap_cutoff" json:"cap_cutoff"`
	AmountCap         decimal.Decimal `yaml:"amount_cap" json:"amount_cap"`
}

// IncomeRules contains the two regional means-testing tables
type IncomeRules struct {
	CapitalRegion IncomeTable `yaml:"capital_region" json:"capital_region"`
	OtherRegions  IncomeTable `yaml:"other_regions" json:"other_regions"`
}

// EditRules tunes caseworker edit-mode evaluation
type EditRules struct {
	// RequireCompleteness makes edit-mode evaluation refuse a positive
	// determination while any rule is still pending.
	RequireCompleteness bool `yaml:"require_completeness" json:"require_completeness"`
}

// IsEligibleDepartment reports whether code is on the whitelist
func (r *ProgramRules) IsEligibleDepartment(code string) bool {
	for _, d := range r.EligibleDepartments {
		if d == code {
			return true
		}
	}
	return false
}
