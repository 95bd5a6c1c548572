package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats modification sets as CSV
type CSVFormatter struct{}

// Format generates CSV output, one row per modification
func (cf *CSVFormatter) Format(set *ModificationSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{"Field", "Label", "Before", "After", "Was Eligible", "Is Eligible"}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for _, m := range set.Modifications {
		row := []string{
			string(m.Field),
			m.Label,
			m.BeforeDisplay,
			m.AfterDisplay,
			strconv.FormatBool(m.WasEligible),
			strconv.FormatBool(m.IsEligible),
		}
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}
