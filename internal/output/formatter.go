package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/fundsim/internal/domain"
	"github.com/rgehrsitz/fundsim/internal/eligibility"
	"github.com/rgehrsitz/fundsim/internal/simulation"
)

// Report is one evaluated answer set, ready for formatting
type Report struct {
	Mode        string             `json:"mode" yaml:"mode"`
	Outcome     simulation.Outcome `json:"outcome" yaml:"outcome"`
	Missing     []domain.Field     `json:"missing,omitempty" yaml:"missing,omitempty"`
	Message     string             `json:"message,omitempty" yaml:"message,omitempty"`
	GeneratedAt time.Time          `json:"generated_at" yaml:"generated_at"`
}

// NewReport builds a report from an outcome. editMode only changes the
// label; the outcome must already be computed in the matching mode.
func NewReport(out simulation.Outcome, answers domain.AnswerSet, editMode bool) *Report {
	r := &Report{
		Mode:        "citizen",
		Outcome:     out,
		Missing:     eligibility.MissingFields(answers),
		GeneratedAt: out.Result.DeterminedAt,
	}
	if editMode {
		r.Mode = "edit"
	}
	if !out.Result.Eligible {
		r.Message = eligibility.Message(out.Result.Reason)
	}
	return r
}

// Formatter renders a report in one output format
type Formatter interface {
	Name() string
	Format(r *Report) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(r *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string                     { return f.ID }
func (f FormatterFunc) Format(r *Report) ([]byte, error) { return f.F(r) }

var formatters = map[string]Formatter{}

var formatAliases = map[string]string{
	"text": "console",
	"yml":  "yaml",
	"htm":  "html",
}

func register(f Formatter) {
	formatters[f.Name()] = f
}

func init() {
	register(ConsoleFormatter{})
	register(JSONFormatter{})
	register(YAMLFormatter{})
	register(CSVSummarizer{})
	register(HTMLFormatter{})
}

// GetFormatterByName returns the formatter for a name or alias, nil when unknown
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := formatAliases[name]; ok {
		name = target
	}
	return formatters[name]
}

// AvailableFormatterNames lists the registered formatter names, sorted
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists the accepted aliases, sorted
func AvailableFormatAliases() []string {
	names := make([]string, 0, len(formatAliases))
	for alias := range formatAliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted formats the report into a timestamped file in the working
// directory and returns its name
func WriteFormatted(f Formatter, r *Report, ext string) (string, error) {
	data, err := f.Format(r)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("eligibility_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}
