package tui

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/fundsim/internal/config"
	"github.com/rgehrsitz/fundsim/internal/domain"
	"github.com/rgehrsitz/fundsim/internal/tui/components"
)

// question is one prompt of a wizard step and the answer field it fills
type question struct {
	field domain.Field
	// prompt builds a fresh prompt for the question
	prompt func() *components.Prompt
	// when reports whether the question applies; nil means always
	when func(a domain.AnswerSet) bool
	// apply parses value into the update
	apply func(update *domain.AnswerSet, value string) error
	// current renders the stored answer for prefilling, "" when absent
	current func(a domain.AnswerSet) string
}

var stepTitles = map[domain.Step]string{
	domain.StepIntro:        "Welcome",
	domain.StepHousingType:  "Type of dwelling",
	domain.StepAddress:      "Location and building",
	domain.StepDamage:       "Condition of the building",
	domain.StepAdjacency:    "Adjacent buildings",
	domain.StepCompensation: "Past compensation",
	domain.StepInsurance:    "Insurance",
	domain.StepOccupancy:    "Occupancy",
	domain.StepHousehold:    "Household resources",
	domain.StepResult:       "Result",
}

var yesNo = []components.Choice{{Label: "Yes", Value: "yes"}, {Label: "No", Value: "no"}}

func parseYesNo(v string) (*bool, error) {
	switch v {
	case "yes":
		return domain.Ptr(true), nil
	case "no":
		return domain.Ptr(false), nil
	}
	return nil, fmt.Errorf("answer yes or no")
}

func showYesNo(b *bool) string {
	if b == nil {
		return ""
	}
	if *b {
		return "yes"
	}
	return "no"
}

func parseInt(v, what string) (*int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%s must be a whole number", what)
	}
	return &n, nil
}

func showInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func parseAmount(v, what string) (*decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, fmt.Errorf("%s must be an amount in euros", what)
	}
	return &d, nil
}

func showAmount(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func showString[T ~string](s *T) string {
	if s == nil {
		return ""
	}
	return string(*s)
}

// questionsFor returns the prompts of a step. Cutoff dates in the
// compensation questions come from the program rules.
func questionsFor(step domain.Step, rules *domain.ProgramRules) []question {
	switch step {
	case domain.StepHousingType:
		return []question{{
			field: domain.FieldHousingType,
			prompt: func() *components.Prompt {
				return components.NewChoicePrompt("What kind of dwelling is it?",
					components.Choice{Label: "An individual house", Value: string(domain.HousingHouse)},
					components.Choice{Label: "An apartment", Value: string(domain.HousingApartment)},
				)
			},
			apply: func(u *domain.AnswerSet, v string) error {
				u.Housing.Type = domain.Ptr(domain.HousingType(v))
				return nil
			},
			current: func(a domain.AnswerSet) string { return showString(a.Housing.Type) },
		}}

	case domain.StepAddress:
		return []question{
			{
				field: domain.FieldDepartmentCode,
				prompt: func() *components.Prompt {
					return components.NewTextPrompt("In which department is the house?", "47").
						WithHint("Two-digit department code, 2A/2B for Corsica")
				},
				apply: func(u *domain.AnswerSet, v string) error {
					u.Housing.DepartmentCode = domain.Ptr(v)
					return nil
				},
				current: func(a domain.AnswerSet) string { return showString(a.Housing.DepartmentCode) },
			},
			{
				field: domain.FieldRegionCode,
				prompt: func() *components.Prompt {
					return components.NewTextPrompt("What is the region code?", "75").
						WithHint(fmt.Sprintf("Region %s uses the capital-region income ceilings", rules.CapitalRegionCode))
				},
				apply: func(u *domain.AnswerSet, v string) error {
					if v == "" {
						return fmt.Errorf("region code is required")
					}
					u.Housing.RegionCode = domain.Ptr(v)
					return nil
				},
				current: func(a domain.AnswerSet) string { return showString(a.Housing.RegionCode) },
			},
			{
				field: domain.FieldExposureZone,
				prompt: func() *components.Prompt {
					return components.NewChoicePrompt("How exposed is the parcel to clay shrink-swell?",
						components.Choice{Label: "High exposure", Value: string(domain.ExposureHigh)},
						components.Choice{Label: "Medium exposure", Value: string(domain.ExposureMedium)},
						components.Choice{Label: "Low exposure", Value: string(domain.ExposureLow)},
					)
				},
				apply: func(u *domain.AnswerSet, v string) error {
					u.Housing.ExposureZone = domain.Ptr(domain.ExposureZone(v))
					return nil
				},
				current: func(a domain.AnswerSet) string { return showString(a.Housing.ExposureZone) },
			},
			{
				field: domain.FieldConstructionYear,
				prompt: func() *components.Prompt {
					return components.NewTextPrompt("In which year was the house built?", "1985")
				},
				apply: func(u *domain.AnswerSet, v string) error {
					n, err := parseInt(v, "construction year")
					u.Housing.ConstructionYear = n
					return err
				},
				current: func(a domain.AnswerSet) string { return showInt(a.Housing.ConstructionYear) },
			},
			{
				field: domain.FieldFloorCount,
				prompt: func() *components.Prompt {
					return components.NewTextPrompt("How many floors does the house have?", "1").
						WithHint("Ground floor included")
				},
				apply: func(u *domain.AnswerSet, v string) error {
					n, err := parseInt(v, "floor count")
					u.Housing.FloorCount = n
					return err
				},
				current: func(a domain.AnswerSet) string { return showInt(a.Housing.FloorCount) },
			},
		}

	case domain.StepDamage:
		return []question{{
			field: domain.FieldDamageState,
			prompt: func() *components.Prompt {
				return components.NewChoicePrompt("What is the current condition of the house?",
					components.Choice{Label: "Sound, no visible crack", Value: string(domain.DamageSound)},
					components.Choice{Label: "Very slightly damaged", Value: string(domain.DamageVerySlightlyDamaged)},
					components.Choice{Label: "Damaged", Value: string(domain.DamageDamaged)},
				)
			},
			apply: func(u *domain.AnswerSet, v string) error {
				u.DamageHistory.State = domain.Ptr(domain.DamageState(v))
				return nil
			},
			current: func(a domain.AnswerSet) string { return showString(a.DamageHistory.State) },
		}}

	case domain.StepAdjacency:
		return []question{yesNoQuestion(domain.FieldAdjacent,
			"Is the house semi-detached or terraced?",
			func(u *domain.AnswerSet, b *bool) { u.Housing.Adjacent = b },
			func(a domain.AnswerSet) *bool { return a.Housing.Adjacent },
		)}

	case domain.StepCompensation:
		eligibilityDate := rules.Compensation.EligibilityCutoff.Format("2 January 2006")
		capDate := rules.Compensation.CapCutoff.Format("2 January 2006")
		capAmount := rules.Compensation.AmountCap.StringFixed(0)

		prior := yesNoQuestion(domain.FieldPriorCompensation,
			"Has the house ever been compensated after a natural disaster?",
			func(u *domain.AnswerSet, b *bool) { u.DamageHistory.PriorCompensation = b },
			func(a domain.AnswerSet) *bool { return a.DamageHistory.PriorCompensation },
		)
		beforeEligibility := yesNoQuestion(domain.FieldBeforeEligibilityCutoff,
			fmt.Sprintf("Was the compensation paid before %s?", eligibilityDate),
			func(u *domain.AnswerSet, b *bool) { u.DamageHistory.BeforeEligibilityCutoff = b },
			func(a domain.AnswerSet) *bool { return a.DamageHistory.BeforeEligibilityCutoff },
		)
		beforeEligibility.when = func(a domain.AnswerSet) bool {
			return isTrue(a.DamageHistory.PriorCompensation)
		}
		beforeCap := yesNoQuestion(domain.FieldBeforeCapCutoff,
			fmt.Sprintf("Was it paid before %s?", capDate),
			func(u *domain.AnswerSet, b *bool) { u.DamageHistory.BeforeCapCutoff = b },
			func(a domain.AnswerSet) *bool { return a.DamageHistory.BeforeCapCutoff },
		)
		beforeCap.when = func(a domain.AnswerSet) bool {
			return isTrue(a.DamageHistory.PriorCompensation) && isTrue(a.DamageHistory.BeforeEligibilityCutoff)
		}
		amount := question{
			field: domain.FieldCompensationAmount,
			prompt: func() *components.Prompt {
				return components.NewTextPrompt("How much was paid, in euros?", "8000").
					WithHint(fmt.Sprintf("Payments above %s EUR exclude the house", capAmount))
			},
			when: func(a domain.AnswerSet) bool {
				return isTrue(a.DamageHistory.PriorCompensation) &&
					isTrue(a.DamageHistory.BeforeEligibilityCutoff) &&
					isFalse(a.DamageHistory.BeforeCapCutoff)
			},
			apply: func(u *domain.AnswerSet, v string) error {
				d, err := parseAmount(v, "compensation amount")
				u.DamageHistory.CompensationAmount = d
				return err
			},
			current: func(a domain.AnswerSet) string { return showAmount(a.DamageHistory.CompensationAmount) },
		}
		return []question{prior, beforeEligibility, beforeCap, amount}

	case domain.StepInsurance:
		return []question{yesNoQuestion(domain.FieldInsured,
			"Is the house covered by a home insurance policy?",
			func(u *domain.AnswerSet, b *bool) { u.DamageHistory.Insured = b },
			func(a domain.AnswerSet) *bool { return a.DamageHistory.Insured },
		)}

	case domain.StepOccupancy:
		return []question{yesNoQuestion(domain.FieldOwnerOccupant,
			"Do you own the house and live in it?",
			func(u *domain.AnswerSet, b *bool) { u.Housing.OwnerOccupant = b },
			func(a domain.AnswerSet) *bool { return a.Housing.OwnerOccupant },
		)}

	case domain.StepHousehold:
		return []question{
			{
				field: domain.FieldHouseholdSize,
				prompt: func() *components.Prompt {
					return components.NewTextPrompt("How many people live in the household?", "2")
				},
				apply: func(u *domain.AnswerSet, v string) error {
					n, err := parseInt(v, "household size")
					u.Household.Size = n
					return err
				},
				current: func(a domain.AnswerSet) string { return showInt(a.Household.Size) },
			},
			{
				field: domain.FieldHouseholdIncome,
				prompt: func() *components.Prompt {
					return components.NewTextPrompt("What is the household's reference tax income?", "25000").
						WithHint("Amount in euros from the latest tax notice")
				},
				apply: func(u *domain.AnswerSet, v string) error {
					d, err := parseAmount(v, "income")
					u.Household.Income = d
					return err
				},
				current: func(a domain.AnswerSet) string { return showAmount(a.Household.Income) },
			},
		}
	}
	return nil
}

func yesNoQuestion(field domain.Field, title string, set func(*domain.AnswerSet, *bool), get func(domain.AnswerSet) *bool) question {
	return question{
		field: field,
		prompt: func() *components.Prompt {
			return components.NewChoicePrompt(title, yesNo...)
		},
		apply: func(u *domain.AnswerSet, v string) error {
			b, err := parseYesNo(v)
			if err != nil {
				return err
			}
			set(u, b)
			return nil
		},
		current: func(a domain.AnswerSet) string { return showYesNo(get(a)) },
	}
}

func isTrue(b *bool) bool  { return b != nil && *b }
func isFalse(b *bool) bool { return b != nil && !*b }

// applyAnswer parses value into a copy of update and checks the result with
// the same validation used for answer files
func applyAnswer(q question, update domain.AnswerSet, value string) (domain.AnswerSet, error) {
	next := update.Clone()
	if err := q.apply(&next, value); err != nil {
		return update, err
	}
	if err := config.NewInputParser().ValidateAnswers(&next); err != nil {
		return update, err
	}
	return next, nil
}
