package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rgehrsitz/fundsim/internal/domain"
)

// CSVSummarizer writes one row per rule in evaluation order
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(r *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Rule", "Status", "Reason"}); err != nil {
		return nil, err
	}
	for _, id := range domain.RuleOrder {
		chk := r.Outcome.Checks.Get(id)
		if err := w.Write([]string{string(id), chk.Status.String(), string(chk.Reason)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
