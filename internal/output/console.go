package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/fundsim/internal/domain"
)

// ConsoleFormatter renders a plain-text report
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	out := r.Outcome

	fmt.Fprintf(&buf, "ELIGIBILITY (%s mode)\n", r.Mode)
	buf.WriteString(strings.Repeat("=", 40) + "\n")
	if out.Result.Eligible {
		buf.WriteString("Outcome: eligible\n")
	} else {
		buf.WriteString("Outcome: not eligible\n")
		fmt.Fprintf(&buf, "Reason:  %s\n", r.Message)
	}
	if out.Tier != "" {
		fmt.Fprintf(&buf, "Income tier: %s\n", out.Tier.Label())
	}
	if !out.IsComplete {
		fmt.Fprintf(&buf, "Incomplete, missing: %s\n", joinFields(r.Missing))
	}

	buf.WriteString("\nRules:\n")
	for _, id := range domain.RuleOrder {
		chk := out.Checks.Get(id)
		line := fmt.Sprintf("  %-20s %s", id, chk.Status)
		if chk.IsFailed() {
			line += fmt.Sprintf(" (%s)", chk.Reason)
		}
		buf.WriteString(line + "\n")
	}
	return buf.Bytes(), nil
}

func joinFields(fields []domain.Field) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = string(f)
	}
	return strings.Join(parts, ", ")
}
