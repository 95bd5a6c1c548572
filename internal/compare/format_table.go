package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/fundsim/internal/eligibility"
)

// TableFormatter formats modification sets as a console table
type TableFormatter struct{}

// Format generates a table of before/after values. Rows whose rule outcome
// changed are marked with "!".
func (tf *TableFormatter) Format(set *ModificationSet) string {
	var sb strings.Builder

	sb.WriteString("ANSWER MODIFICATIONS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	if set.BaselinePath != "" {
		sb.WriteString(fmt.Sprintf("Baseline: %s\n", set.BaselinePath))
	}
	if set.CurrentPath != "" {
		sb.WriteString(fmt.Sprintf("Current:  %s\n", set.CurrentPath))
	}
	sb.WriteString("\n")

	if len(set.Modifications) == 0 {
		sb.WriteString("No modifications.\n")
	} else {
		labelWidth := 20
		valueWidth := 26

		sb.WriteString(fmt.Sprintf("  %-*s %-*s %-*s\n",
			labelWidth, "Field",
			valueWidth, "Before",
			valueWidth, "After"))
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, m := range set.Modifications {
			marker := " "
			if m.FlipsEligibility() {
				marker = "!"
			}
			sb.WriteString(fmt.Sprintf("%s %-*s %-*s %-*s\n",
				marker,
				labelWidth, m.Label,
				valueWidth, tf.withOutcome(m.BeforeDisplay, m.WasEligible),
				valueWidth, tf.withOutcome(m.AfterDisplay, m.IsEligible)))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Eligibility: %s -> %s\n", outcome(set.BaselineEligible), outcome(set.CurrentEligible)))
	if !set.CurrentEligible && set.CurrentReason != "" {
		sb.WriteString(fmt.Sprintf("Reason: %s\n", eligibility.Message(set.CurrentReason)))
	}

	return sb.String()
}

func (tf *TableFormatter) withOutcome(display string, passed bool) string {
	if passed {
		return display + " (ok)"
	}
	return display + " (x)"
}

func outcome(eligible bool) string {
	if eligible {
		return "eligible"
	}
	return "ineligible"
}
