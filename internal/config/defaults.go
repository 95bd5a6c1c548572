package config

import (
	_ "embed"
	"fmt"

	"github.com/rgehrsitz/fundsim/internal/domain"
)

//go:embed program.yaml
var defaultProgramYAML []byte

// DefaultProgramRules returns the rule set shipped with the binary
func DefaultProgramRules() (*domain.ProgramRules, error) {
	rules, err := NewInputParser().ParseProgramRules(defaultProgramYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded program rules: %w", err)
	}
	return rules, nil
}

// MustDefaultProgramRules is DefaultProgramRules for callers that cannot
// continue without rules
func MustDefaultProgramRules() *domain.ProgramRules {
	rules, err := DefaultProgramRules()
	if err != nil {
		panic(err)
	}
	return rules
}

// ResolveProgramRules loads rules from path, or the embedded defaults when
// path is empty
func ResolveProgramRules(path string) (*domain.ProgramRules, error) {
	if path == "" {
		return DefaultProgramRules()
	}
	return NewInputParser().LoadProgramRules(path)
}
