package tui

import (
	"github.com/rgehrsitz/fundsim/internal/domain"
	"github.com/rgehrsitz/fundsim/internal/simulation"
)

// Message types for the Bubble Tea update cycle

// SessionLoadedMsg carries a session read from the store. Fresh is set when
// no session existed under the id.
type SessionLoadedMsg struct {
	State    domain.SimulationState
	Recovery simulation.Recovery
	Fresh    bool
	Err      error
}

// SessionSavedMsg reports the outcome of persisting the session
type SessionSavedMsg struct {
	Err error
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}
