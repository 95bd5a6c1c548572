package output

import (
	"bytes"
	_ "embed"
	"html/template"
	"strings"

	"github.com/rgehrsitz/fundsim/internal/domain"
)

// HTMLFormatter produces a standalone HTML report
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"ruleName": func(id domain.RuleID) string { return strings.ReplaceAll(string(id), "_", " ") },
}).Parse(htmlTemplateSource))

type htmlRule struct {
	ID    domain.RuleID
	Check domain.Check
}

func (h HTMLFormatter) Format(r *Report) ([]byte, error) {
	rules := make([]htmlRule, 0, len(domain.RuleOrder))
	for _, id := range domain.RuleOrder {
		rules = append(rules, htmlRule{ID: id, Check: r.Outcome.Checks.Get(id)})
	}

	var buf bytes.Buffer
	data := struct {
		*Report
		TierLabel string
		Rules     []htmlRule
	}{r, r.Outcome.Tier.Label(), rules}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
