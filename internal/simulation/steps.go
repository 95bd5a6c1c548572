package simulation

import "github.com/rgehrsitz/fundsim/internal/domain"

// stepFields lists the answers each wizard step captures. Going back in
// citizen mode clears the fields of the step being left.
var stepFields = map[domain.Step][]domain.Field{
	domain.StepHousingType: {domain.FieldHousingType},
	domain.StepAddress: {
		domain.FieldDepartmentCode,
		domain.FieldRegionCode,
		domain.FieldExposureZone,
		domain.FieldConstructionYear,
		domain.FieldFloorCount,
	},
	domain.StepDamage:    {domain.FieldDamageState},
	domain.StepAdjacency: {domain.FieldAdjacent},
	domain.StepCompensation: {
		domain.FieldPriorCompensation,
		domain.FieldBeforeEligibilityCutoff,
		domain.FieldBeforeCapCutoff,
		domain.FieldCompensationAmount,
	},
	domain.StepInsurance: {domain.FieldInsured},
	domain.StepOccupancy: {domain.FieldOwnerOccupant},
	domain.StepHousehold: {domain.FieldHouseholdSize, domain.FieldHouseholdIncome},
}

// FieldsForStep returns the answers captured by a step
func FieldsForStep(step domain.Step) []domain.Field {
	return append([]domain.Field(nil), stepFields[step]...)
}

// QuestionSteps returns the steps between intro and result
func QuestionSteps() []domain.Step {
	return append([]domain.Step(nil), domain.StepOrder[1:len(domain.StepOrder)-1]...)
}

// lastQuestionStep is the step whose submission always ends the questionnaire
func lastQuestionStep() domain.Step {
	return domain.StepOrder[len(domain.StepOrder)-2]
}

func stepIndex(step domain.Step) int {
	for i, s := range domain.StepOrder {
		if s == step {
			return i
		}
	}
	return -1
}

func nextStep(step domain.Step) domain.Step {
	i := stepIndex(step)
	if i < 0 || i+1 >= len(domain.StepOrder) {
		return domain.StepResult
	}
	return domain.StepOrder[i+1]
}

// IsKnownStep reports whether step is part of the wizard
func IsKnownStep(step domain.Step) bool {
	return stepIndex(step) >= 0
}
