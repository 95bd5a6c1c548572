package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/rgehrsitz/fundsim/internal/domain"
	"gopkg.in/yaml.v3"
)

var departmentCodePattern = regexp.MustCompile(`^(\d{2}|2[AB]|97\d)$`)

// InputParser handles parsing of answer files and program rule files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadAnswers loads an answer set from a YAML or JSON file
func (ip *InputParser) LoadAnswers(filename string) (*domain.AnswerSet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseAnswers(data)
}

// ParseAnswers decodes and validates an answer set. JSON documents are
// accepted since they are valid YAML.
func (ip *InputParser) ParseAnswers(data []byte) (*domain.AnswerSet, error) {
	var answers domain.AnswerSet
	if err := yaml.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateAnswers(&answers); err != nil {
		return nil, fmt.Errorf("answers validation failed: %w", err)
	}

	return &answers, nil
}

// LoadProgramRules loads a program rule set from a YAML file
func (ip *InputParser) LoadProgramRules(filename string) (*domain.ProgramRules, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseProgramRules(data)
}

// ParseProgramRules decodes and validates a program rule set
func (ip *InputParser) ParseProgramRules(data []byte) (*domain.ProgramRules, error) {
	var rules domain.ProgramRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateProgramRules(&rules); err != nil {
		return nil, fmt.Errorf("program rules validation failed: %w", err)
	}

	return &rules, nil
}

// ValidateAnswers checks the values that are present. Absent fields are
// never an error: an answer set may be partial.
func (ip *InputParser) ValidateAnswers(a *domain.AnswerSet) error {
	h := a.Housing
	if h.Type != nil {
		switch *h.Type {
		case domain.HousingHouse, domain.HousingApartment:
		default:
			return fmt.Errorf("unknown housing type %q", *h.Type)
		}
	}
	if h.DepartmentCode != nil && !departmentCodePattern.MatchString(*h.DepartmentCode) {
		return fmt.Errorf("invalid department code %q", *h.DepartmentCode)
	}
	if h.ExposureZone != nil {
		switch *h.ExposureZone {
		case domain.ExposureHigh, domain.ExposureMedium, domain.ExposureLow:
		default:
			return fmt.Errorf("unknown exposure zone %q", *h.ExposureZone)
		}
	}
	if h.ConstructionYear != nil && (*h.ConstructionYear < 1000 || *h.ConstructionYear > 9999) {
		return fmt.Errorf("construction year must have four digits, got %d", *h.ConstructionYear)
	}
	if h.FloorCount != nil && *h.FloorCount < 0 {
		return fmt.Errorf("floor count cannot be negative")
	}

	d := a.DamageHistory
	if d.State != nil {
		switch *d.State {
		case domain.DamageSound, domain.DamageVerySlightlyDamaged, domain.DamageDamaged:
		default:
			return fmt.Errorf("unknown damage state %q", *d.State)
		}
	}
	if d.CompensationAmount != nil && d.CompensationAmount.IsNegative() {
		return fmt.Errorf("compensation amount cannot be negative")
	}

	if a.Household.Size != nil && *a.Household.Size < 1 {
		return fmt.Errorf("household size must be at least 1")
	}
	if a.Household.Income != nil && a.Household.Income.IsNegative() {
		return fmt.Errorf("household income cannot be negative")
	}

	return nil
}

// ValidateProgramRules validates a loaded program rule set
func (ip *InputParser) ValidateProgramRules(rules *domain.ProgramRules) error {
	if len(rules.EligibleDepartments) == 0 {
		return fmt.Errorf("eligible departments are required")
	}
	seen := make(map[string]bool, len(rules.EligibleDepartments))
	for _, code := range rules.EligibleDepartments {
		if !departmentCodePattern.MatchString(code) {
			return fmt.Errorf("invalid department code %q", code)
		}
		if seen[code] {
			return fmt.Errorf("duplicate department code %q", code)
		}
		seen[code] = true
	}
	if rules.CapitalRegionCode == "" {
		return fmt.Errorf("capital region code is required")
	}

	if rules.Building.MinAgeYears < 0 {
		return fmt.Errorf("minimum building age cannot be negative")
	}
	if rules.Building.MaxFloors < 0 {
		return fmt.Errorf("maximum floor count cannot be negative")
	}

	c := rules.Compensation
	if c.EligibilityCutoff.IsZero() || c.CapCutoff.IsZero() {
		return fmt.Errorf("compensation cutoffs are required")
	}
	if !c.CapCutoff.Before(c.EligibilityCutoff) {
		return fmt.Errorf("cap cutoff must be before eligibility cutoff")
	}
	if !c.AmountCap.IsPositive() {
		return fmt.Errorf("compensation amount cap must be positive")
	}

	if err := ip.validateIncomeTable(&rules.Income.CapitalRegion); err != nil {
		return fmt.Errorf("capital region income table: %w", err)
	}
	if err := ip.validateIncomeTable(&rules.Income.OtherRegions); err != nil {
		return fmt.Errorf("other regions income table: %w", err)
	}

	return nil
}

func (ip *InputParser) validateIncomeTable(table *domain.IncomeTable) error {
	if len(table.BySize) == 0 {
		return fmt.Errorf("at least one household size row is required")
	}
	for i, row := range table.BySize {
		if err := validateThresholds(row); err != nil {
			return fmt.Errorf("household size %d: %w", i+1, err)
		}
		if i > 0 {
			prev := table.BySize[i-1]
			if row.VeryModest.LessThan(prev.VeryModest) || row.Modest.LessThan(prev.Modest) || row.Intermediate.LessThan(prev.Intermediate) {
				return fmt.Errorf("household size %d: thresholds must not decrease with size", i+1)
			}
		}
	}
	if err := validateThresholds(table.PerExtraPerson); err != nil {
		return fmt.Errorf("per extra person: %w", err)
	}
	return nil
}

func validateThresholds(t domain.IncomeThresholds) error {
	if !t.VeryModest.IsPositive() {
		return fmt.Errorf("very modest ceiling must be positive")
	}
	if t.Modest.LessThan(t.VeryModest) {
		return fmt.Errorf("modest ceiling must be at least the very modest ceiling")
	}
	if t.Intermediate.LessThan(t.Modest) {
		return fmt.Errorf("intermediate ceiling must be at least the modest ceiling")
	}
	return nil
}
