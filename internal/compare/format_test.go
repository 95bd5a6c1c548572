package compare

import (
	"strings"
	"testing"

	"github.com/rgehrsitz/fundsim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSet() *ModificationSet {
	return &ModificationSet{
		BaselinePath:     "baseline.yaml",
		CurrentPath:      "current.yaml",
		BaselineEligible: true,
		CurrentEligible:  false,
		CurrentReason:    domain.ReasonTooManyFloors,
		Modifications: []domain.Modification{
			{
				Field: domain.FieldFloorCount, Label: "Floors",
				BeforeDisplay: "1 floor", AfterDisplay: "3 floors",
				WasEligible: true, IsEligible: false,
			},
			{
				Field: domain.FieldHouseholdIncome, Label: "Income",
				BeforeDisplay: "Very modest", AfterDisplay: "Modest",
				WasEligible: true, IsEligible: true,
			},
		},
	}
}

func TestTableFormatter_Format(t *testing.T) {
	out := (&TableFormatter{}).Format(sampleSet())

	assert.Contains(t, out, "ANSWER MODIFICATIONS")
	assert.Contains(t, out, "Baseline: baseline.yaml")
	assert.Contains(t, out, "Eligibility: eligible -> ineligible")
	assert.Contains(t, out, "more floors than the fund allows")

	var floorsLine, incomeLine string
	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.Contains(line, "Floors"):
			floorsLine = line
		case strings.Contains(line, "Income"):
			incomeLine = line
		}
	}
	assert.True(t, strings.HasPrefix(floorsLine, "!"), "Flipped rows are marked: %q", floorsLine)
	assert.Contains(t, floorsLine, "3 floors (x)")
	assert.True(t, strings.HasPrefix(incomeLine, " "), "Unflipped rows are not marked: %q", incomeLine)
}

func TestTableFormatter_Empty(t *testing.T) {
	out := (&TableFormatter{}).Format(&ModificationSet{BaselineEligible: true, CurrentEligible: true})

	assert.Contains(t, out, "No modifications.")
	assert.Contains(t, out, "Eligibility: eligible -> eligible")
	assert.NotContains(t, out, "Reason:")
}

func TestCSVFormatter_Format(t *testing.T) {
	out, err := (&CSVFormatter{}).Format(sampleSet())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Field,Label,Before,After,Was Eligible,Is Eligible", lines[0])
	assert.Equal(t, "household.income,Income,Very modest,Modest,true,true", lines[2])
}
