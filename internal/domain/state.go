package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Step identifies a wizard screen
type Step string

const (
	StepIntro        Step = "intro"
	StepHousingType  Step = "housing-type"
	StepAddress      Step = "address"
	StepDamage       Step = "damage"
	StepAdjacency    Step = "adjacency"
	StepCompensation Step = "compensation"
	StepInsurance    Step = "insurance"
	StepOccupancy    Step = "occupancy"
	StepHousehold    Step = "household"
	StepResult       Step = "result"
)

// StepOrder is the full wizard sequence including the intro and result screens
var StepOrder = []Step{
	StepIntro,
	StepHousingType,
	StepAddress,
	StepDamage,
	StepAdjacency,
	StepCompensation,
	StepInsurance,
	StepOccupancy,
	StepHousehold,
	StepResult,
}

// SimulationState is the whole wizard session. It is owned by a single
// session and is never shared between writers.
type SimulationState struct {
	CurrentStep Step               `yaml:"current_step" json:"current_step"`
	Answers     AnswerSet          `yaml:"answers" json:"answers"`
	History     []Step             `yaml:"history" json:"history"`
	Result      *EligibilityResult `yaml:"result,omitempty" json:"result,omitempty"`
	StartedAt   time.Time          `yaml:"started_at" json:"started_at"`
	UpdatedAt   time.Time          `yaml:"updated_at" json:"updated_at"`
}

// CanGoBack reports whether a back navigation would change the state
func (s SimulationState) CanGoBack() bool {
	return len(s.History) > 0 && s.CurrentStep != StepIntro
}

// Clone returns a copy sharing no mutable state with s
func (s SimulationState) Clone() SimulationState {
	c := s
	c.Answers = s.Answers.Clone()
	c.History = append([]Step(nil), s.History...)
	if s.Result != nil {
		r := *s.Result
		r.Checks = s.Result.Checks.Clone()
		c.Result = &r
	}
	return c
}

// CompleteRecord is the finalized submission handed to persistence
type CompleteRecord struct {
	ID          string            `yaml:"id" json:"id"`
	Answers     AnswerSet         `yaml:"answers" json:"answers"`
	Result      EligibilityResult `yaml:"result" json:"result"`
	IncomeTier  IncomeTier        `yaml:"income_tier" json:"income_tier"`
	CompletedAt time.Time         `yaml:"completed_at" json:"completed_at"`
}

// Modification is one changed field between a baseline and an edited answer set
type Modification struct {
	Field         Field  `yaml:"field" json:"field"`
	Label         string `yaml:"label" json:"label"`
	BeforeDisplay string `yaml:"before" json:"before"`
	AfterDisplay  string `yaml:"after" json:"after"`
	WasEligible   bool   `yaml:"was_eligible" json:"was_eligible"`
	IsEligible    bool   `yaml:"is_eligible" json:"is_eligible"`
}

// FlipsEligibility reports whether the change altered the associated rule outcome
func (m Modification) FlipsEligibility() bool {
	return m.WasEligible != m.IsEligible
}

// IncomeThresholds holds the three tier ceilings for one household size
type IncomeThresholds struct {
	VeryModest   decimal.Decimal `yaml:"very_modest" json:"very_modest"`
	Modest       decimal.Decimal `yaml:"modest" json:"modest"`
	Intermediate decimal.Decimal `yaml:"intermediate" json:"intermediate"`
}

// IncomeTable is a progressive threshold table indexed by household size.
// BySize[0] is the row for one person; sizes beyond the table are
// extrapolated from the last row with PerExtraPerson.
type IncomeTable struct {
	BySize         []IncomeThresholds `yaml:"by_size" json:"by_size"`
	PerExtraPerson IncomeThresholds   `yaml:"per_extra_person" json:"per_extra_person"`
}
