package eligibility

import (
	"time"

	"github.com/rgehrsitz/fundsim/internal/domain"
)

// Policy controls what the orchestrator does with a failing rule
type Policy int

const (
	// StopAtFirstFailure returns as soon as a rule fails (citizen mode)
	StopAtFirstFailure Policy = iota
	// EvaluateAll walks every rule regardless of failures (edit mode)
	EvaluateAll
)

func (p Policy) String() string {
	if p == EvaluateAll {
		return "evaluate-all"
	}
	return "stop-at-first-failure"
}

// rule binds a predicate to its reason and to the fields that must be
// present before it can be evaluated. The owning step comes from StepRules.
type rule struct {
	id     domain.RuleID
	reason domain.Reason
	inputs []domain.Field
	check  func(e *Evaluator, a domain.AnswerSet) domain.Check
}

// ruleTable is kept in domain.RuleOrder order
var ruleTable = []rule{
	{
		id: domain.RuleHousingType, reason: domain.ReasonApartment,
		inputs: []domain.Field{domain.FieldHousingType},
		check: func(_ *Evaluator, a domain.AnswerSet) domain.Check {
			return CheckHousingType(a.Housing.Type)
		},
	},
	{
		id: domain.RuleDepartment, reason: domain.ReasonDepartmentIneligible,
		inputs: []domain.Field{domain.FieldDepartmentCode},
		check: func(e *Evaluator, a domain.AnswerSet) domain.Check {
			return CheckDepartment(a.Housing.DepartmentCode, e.rules)
		},
	},
	{
		id: domain.RuleExposureZone, reason: domain.ReasonZoneNotHigh,
		inputs: []domain.Field{domain.FieldExposureZone},
		check: func(_ *Evaluator, a domain.AnswerSet) domain.Check {
			return CheckExposureZone(a.Housing.ExposureZone)
		},
	},
	{
		id: domain.RuleConstructionAge, reason: domain.ReasonBuildingTooRecent,
		inputs: []domain.Field{domain.FieldConstructionYear},
		check: func(e *Evaluator, a domain.AnswerSet) domain.Check {
			return CheckConstructionAge(a.Housing.ConstructionYear, e.now().Year(), e.rules.Building.MinAgeYears)
		},
	},
	{
		id: domain.RuleFloorCount, reason: domain.ReasonTooManyFloors,
		inputs: []domain.Field{domain.FieldFloorCount},
		check: func(e *Evaluator, a domain.AnswerSet) domain.Check {
			return CheckFloorCount(a.Housing.FloorCount, e.rules.Building.MaxFloors)
		},
	},
	{
		id: domain.RuleDamageState, reason: domain.ReasonTooDamaged,
		inputs: []domain.Field{domain.FieldDamageState},
		check: func(_ *Evaluator, a domain.AnswerSet) domain.Check {
			return CheckDamageState(a.DamageHistory.State)
		},
	},
	{
		id: domain.RuleAdjacency, reason: domain.ReasonAdjacentBuilding,
		inputs: []domain.Field{domain.FieldAdjacent},
		check: func(_ *Evaluator, a domain.AnswerSet) domain.Check {
			return CheckAdjacency(a.Housing.Adjacent)
		},
	},
	{
		id: domain.RulePriorCompensation, reason: domain.ReasonCompensationIneligible,
		inputs: []domain.Field{domain.FieldPriorCompensation},
		check: func(e *Evaluator, a domain.AnswerSet) domain.Check {
			return CheckPriorCompensation(a.DamageHistory, e.rules.Compensation.AmountCap)
		},
	},
	{
		id: domain.RuleInsurance, reason: domain.ReasonNotInsured,
		inputs: []domain.Field{domain.FieldInsured},
		check: func(_ *Evaluator, a domain.AnswerSet) domain.Check {
			return CheckInsurance(a.DamageHistory.Insured)
		},
	},
	{
		id: domain.RuleOwnerOccupancy, reason: domain.ReasonNotOwnerOccupant,
		inputs: []domain.Field{domain.FieldOwnerOccupant},
		check: func(_ *Evaluator, a domain.AnswerSet) domain.Check {
			return CheckOwnerOccupancy(a.Housing.OwnerOccupant)
		},
	},
	{
		id: domain.RuleIncome, reason: domain.ReasonIncomeTooHigh,
		inputs: []domain.Field{domain.FieldHouseholdSize, domain.FieldHouseholdIncome},
		check: func(e *Evaluator, a domain.AnswerSet) domain.Check {
			return CheckIncome(a.Household, e.isCapitalRegion(a), e.tiers)
		},
	},
}

// StepRules maps each wizard step to the rules its answers feed.
// Adding a step is a one-line change; a new rule also needs its ruleTable entry.
var StepRules = map[domain.Step][]domain.RuleID{
	domain.StepHousingType:  {domain.RuleHousingType},
	domain.StepAddress:      {domain.RuleDepartment, domain.RuleExposureZone, domain.RuleConstructionAge, domain.RuleFloorCount},
	domain.StepDamage:       {domain.RuleDamageState},
	domain.StepAdjacency:    {domain.RuleAdjacency},
	domain.StepCompensation: {domain.RulePriorCompensation},
	domain.StepInsurance:    {domain.RuleInsurance},
	domain.StepOccupancy:    {domain.RuleOwnerOccupancy},
	domain.StepHousehold:    {domain.RuleIncome},
}

// StepForRule returns the step whose answers feed the rule
func StepForRule(id domain.RuleID) domain.Step {
	for step, ids := range StepRules {
		for _, rid := range ids {
			if rid == id {
				return step
			}
		}
	}
	return ""
}

// ReasonForRule returns the reason code a rule reports when it fails
func ReasonForRule(id domain.RuleID) domain.Reason {
	for _, r := range ruleTable {
		if r.id == id {
			return r.reason
		}
	}
	return ""
}

// Evaluation is the outcome of one orchestrator pass
type Evaluation struct {
	Checks       domain.Checks
	ShouldExit   bool
	FailedAtStep domain.Step
}

// Assessment is a final determination over an answer set
type Assessment struct {
	Eligible     bool
	Reason       domain.Reason
	Checks       domain.Checks
	IsComplete   bool
	FailedAtStep domain.Step
	Tier         domain.IncomeTier
}

// Evaluator runs the rule predicates over answers in the fixed rule order
type Evaluator struct {
	rules *domain.ProgramRules
	tiers *IncomeTierCalculator
	now   func() time.Time
}

// Option configures an Evaluator
type Option func(*Evaluator)

// WithClock overrides the clock used for the construction-age rule
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEvaluator creates an evaluator for a program rule set
func NewEvaluator(rules *domain.ProgramRules, opts ...Option) *Evaluator {
	e := &Evaluator{
		rules: rules,
		tiers: NewIncomeTierCalculator(rules.Income),
		now:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Rules returns the program rules the evaluator was built with
func (e *Evaluator) Rules() *domain.ProgramRules {
	return e.rules
}

// TierCalculator returns the income tier calculator
func (e *Evaluator) TierCalculator() *IncomeTierCalculator {
	return e.tiers
}

// Evaluate walks the rules in order and evaluates every rule whose input is
// present. Rules with absent input stay pending and never cause an exit.
// Under StopAtFirstFailure the walk ends at the first failure, leaving every
// later rule pending.
func (e *Evaluator) Evaluate(a domain.AnswerSet, policy Policy) Evaluation {
	ev := Evaluation{Checks: domain.Checks{}}

	for _, r := range ruleTable {
		if !hasAll(a, r.inputs) {
			continue
		}
		chk := r.check(e, a)
		if chk.IsPending() {
			continue
		}
		ev.Checks[r.id] = chk

		if chk.IsFailed() && ev.FailedAtStep == "" {
			ev.FailedAtStep = StepForRule(r.id)
			if policy == StopAtFirstFailure {
				ev.ShouldExit = true
				return ev
			}
		}
	}

	return ev
}

// CheckRule evaluates a single rule, reporting pending when its input is absent
func (e *Evaluator) CheckRule(id domain.RuleID, a domain.AnswerSet) domain.Check {
	for _, r := range ruleTable {
		if r.id != id {
			continue
		}
		if !hasAll(a, r.inputs) {
			return domain.Pending()
		}
		return r.check(e, a)
	}
	return domain.Pending()
}

// IsComplete reports whether every field consumed by every rule is present.
// Compensation qualifiers are only required when the preceding answer makes
// them relevant.
func (e *Evaluator) IsComplete(a domain.AnswerSet) bool {
	return len(MissingFields(a)) == 0
}

// MissingFields lists the fields still needed for a complete answer set
func MissingFields(a domain.AnswerSet) []domain.Field {
	var missing []domain.Field
	for _, f := range requiredFields(a) {
		if !a.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

func requiredFields(a domain.AnswerSet) []domain.Field {
	fields := []domain.Field{domain.FieldRegionCode}
	for _, r := range ruleTable {
		fields = append(fields, r.inputs...)
	}

	d := a.DamageHistory
	if d.PriorCompensation != nil && *d.PriorCompensation {
		fields = append(fields, domain.FieldBeforeEligibilityCutoff)
		if d.BeforeEligibilityCutoff != nil && *d.BeforeEligibilityCutoff {
			fields = append(fields, domain.FieldBeforeCapCutoff)
			if d.BeforeCapCutoff != nil && !*d.BeforeCapCutoff {
				fields = append(fields, domain.FieldCompensationAmount)
			}
		}
	}
	return fields
}

// Tier returns the household income tier, false when it cannot be determined
func (e *Evaluator) Tier(a domain.AnswerSet) (domain.IncomeTier, bool) {
	return e.tiers.TierFor(a.Household, e.isCapitalRegion(a))
}

// Assess makes the citizen-mode determination: eligible only when the
// answers are complete and every rule passed
func (e *Evaluator) Assess(a domain.AnswerSet) Assessment {
	return e.Conclude(a, e.Evaluate(a, StopAtFirstFailure))
}

// Conclude turns an evaluation made under either policy into a strict
// determination over the same answers
func (e *Evaluator) Conclude(a domain.AnswerSet, ev Evaluation) Assessment {
	as := e.assessment(a, ev)
	as.Eligible = as.IsComplete && ev.Checks.AllPassed()
	as.Reason = e.reasonFor(as, ev)
	return as
}

// AssessForEdition makes the caseworker determination. Every rule is
// evaluated and only explicit failures block eligibility: pending rules are
// not blocking unless the program requires completeness in edit mode.
func (e *Evaluator) AssessForEdition(a domain.AnswerSet) Assessment {
	ev := e.Evaluate(a, EvaluateAll)
	as := e.assessment(a, ev)
	_, _, failed := ev.Checks.FirstFailure()
	as.Eligible = !failed
	if e.rules.Edit.RequireCompleteness && !as.IsComplete {
		as.Eligible = false
	}
	as.Reason = e.reasonFor(as, ev)
	return as
}

func (e *Evaluator) assessment(a domain.AnswerSet, ev Evaluation) Assessment {
	as := Assessment{
		Checks:       ev.Checks,
		IsComplete:   e.IsComplete(a),
		FailedAtStep: ev.FailedAtStep,
	}
	if tier, ok := e.Tier(a); ok {
		as.Tier = tier
	}
	return as
}

// reasonFor picks the first failing rule, or for an ineligible outcome with
// no failure the first rule still waiting for data
func (e *Evaluator) reasonFor(as Assessment, ev Evaluation) domain.Reason {
	if as.Eligible {
		return ""
	}
	if _, chk, ok := ev.Checks.FirstFailure(); ok {
		return chk.Reason
	}
	for _, r := range ruleTable {
		if ev.Checks.Get(r.id).IsPending() {
			return r.reason
		}
	}
	return ruleTable[len(ruleTable)-1].reason
}

func (e *Evaluator) isCapitalRegion(a domain.AnswerSet) bool {
	return a.Housing.RegionCode != nil && *a.Housing.RegionCode == e.rules.CapitalRegionCode
}

func hasAll(a domain.AnswerSet, fields []domain.Field) bool {
	for _, f := range fields {
		if !a.Has(f) {
			return false
		}
	}
	return true
}
