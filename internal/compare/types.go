package compare

import (
	"github.com/rgehrsitz/fundsim/internal/domain"
)

// ModificationSet is the diff between a finalized baseline and a
// caseworker's edited answers
type ModificationSet struct {
	BaselinePath     string                `json:"baselinePath,omitempty"`
	CurrentPath      string                `json:"currentPath,omitempty"`
	BaselineEligible bool                  `json:"baselineEligible"`
	CurrentEligible  bool                  `json:"currentEligible"`
	CurrentReason    domain.Reason         `json:"currentReason,omitempty"`
	Modifications    []domain.Modification `json:"modifications"`
}

// Flips returns the modifications that changed their rule outcome
func (ms *ModificationSet) Flips() []domain.Modification {
	var out []domain.Modification
	for _, m := range ms.Modifications {
		if m.FlipsEligibility() {
			out = append(out, m)
		}
	}
	return out
}

// OutcomeChanged reports whether the overall determination changed
func (ms *ModificationSet) OutcomeChanged() bool {
	return ms.BaselineEligible != ms.CurrentEligible
}
