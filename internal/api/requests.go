package api

import (
	"fmt"

	"github.com/rgehrsitz/fundsim/internal/config"
	"github.com/rgehrsitz/fundsim/internal/domain"
)

// validatable is implemented by every request body
type validatable interface {
	Validate() error
}

// SubmitRequest is the body of POST /simulations/{id}/answers.
type SubmitRequest struct {
	Answers       domain.AnswerSet `json:"answers"`
	SkipEarlyExit bool             `json:"skip_early_exit"`
}

func (r *SubmitRequest) Validate() error {
	return config.NewInputParser().ValidateAnswers(&r.Answers)
}

// BackRequest is the body of POST /simulations/{id}/back.
type BackRequest struct {
	PreserveAnswers bool `json:"preserve_answers"`
}

func (r *BackRequest) Validate() error { return nil }

// EvaluateRequest is the body of the /eligibility endpoints.
type EvaluateRequest struct {
	Answers domain.AnswerSet `json:"answers"`
}

func (r *EvaluateRequest) Validate() error {
	return config.NewInputParser().ValidateAnswers(&r.Answers)
}

// ModificationsRequest is the body of POST /modifications. When both check
// sets are given they are used as-is; otherwise both sides are evaluated.
type ModificationsRequest struct {
	Baseline       domain.AnswerSet `json:"baseline"`
	Current        domain.AnswerSet `json:"current"`
	BaselineChecks domain.Checks    `json:"baseline_checks,omitempty"`
	CurrentChecks  domain.Checks    `json:"current_checks,omitempty"`
}

func (r *ModificationsRequest) Validate() error {
	parser := config.NewInputParser()
	if err := parser.ValidateAnswers(&r.Baseline); err != nil {
		return fmt.Errorf("baseline: %w", err)
	}
	if err := parser.ValidateAnswers(&r.Current); err != nil {
		return fmt.Errorf("current: %w", err)
	}
	if (r.BaselineChecks == nil) != (r.CurrentChecks == nil) {
		return fmt.Errorf("baseline_checks and current_checks must be given together")
	}
	return nil
}
