package api

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/fundsim/internal/domain"
	"github.com/rgehrsitz/fundsim/internal/eligibility"
	"github.com/rgehrsitz/fundsim/internal/simulation"
	"github.com/rgehrsitz/fundsim/internal/store"
)

// SessionResponse wraps a stored session.
type SessionResponse struct {
	ID        string                 `json:"id"`
	State     domain.SimulationState `json:"state"`
	CanGoBack bool                   `json:"can_go_back"`
	Message   string                 `json:"message,omitempty"`
	Recovery  string                 `json:"recovery,omitempty"`
}

func sessionResponse(id string, state domain.SimulationState, recovery simulation.Recovery) SessionResponse {
	resp := SessionResponse{ID: id, State: state, CanGoBack: state.CanGoBack()}
	if state.Result != nil && !state.Result.Eligible {
		resp.Message = eligibility.Message(state.Result.Reason)
	}
	if recovery != simulation.RecoveryNone && recovery != "" {
		resp.Recovery = string(recovery)
	}
	return resp
}

// OutcomeResponse is returned by the /eligibility endpoints.
type OutcomeResponse struct {
	simulation.Outcome
	Missing []domain.Field `json:"missing,omitempty"`
	Message string         `json:"message,omitempty"`
}

func outcomeResponse(out simulation.Outcome, answers domain.AnswerSet) OutcomeResponse {
	resp := OutcomeResponse{Outcome: out, Missing: eligibility.MissingFields(answers)}
	if !out.Result.Eligible {
		resp.Message = eligibility.Message(out.Result.Reason)
	}
	return resp
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps core and storage errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, simulation.ErrInvalidTransition),
		errors.Is(err, simulation.ErrIncomplete),
		errors.Is(err, store.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
