// Package store persists questionnaire sessions and finalized records.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/fundsim/internal/domain"
)

// DefaultSessionTTL is how long an unauthenticated session survives
const DefaultSessionTTL = 7 * 24 * time.Hour

var (
	// ErrNotFound is returned when a session or record does not exist
	ErrNotFound = errors.New("not found")
	// ErrExpired is returned for sessions older than the TTL. It matches
	// ErrNotFound so callers can treat expired sessions as absent.
	ErrExpired = fmt.Errorf("%w: session expired", ErrNotFound)
	// ErrAlreadyExists is returned when a record ID is reused
	ErrAlreadyExists = errors.New("already exists")
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// SessionStore saves and loads questionnaire sessions by ID
type SessionStore interface {
	Save(ctx context.Context, id string, state domain.SimulationState) error
	Load(ctx context.Context, id string) (domain.SimulationState, error)
	Delete(ctx context.Context, id string) error
}

// RecordSink receives finalized records
type RecordSink interface {
	Put(ctx context.Context, record domain.CompleteRecord) error
	Get(ctx context.Context, id string) (domain.CompleteRecord, error)
}

// ValidateSessionID rejects identifiers that are unsafe as keys or file names
func ValidateSessionID(id string) error {
	if !sessionIDPattern.MatchString(id) {
		return fmt.Errorf("invalid session id %q", id)
	}
	return nil
}

// envelope is the stored form of a session
type envelope struct {
	SavedAt time.Time              `json:"saved_at"`
	State   domain.SimulationState `json:"state"`
}

func encodeSession(state domain.SimulationState, savedAt time.Time) ([]byte, error) {
	data, err := json.Marshal(envelope{SavedAt: savedAt.UTC(), State: state})
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return data, nil
}

func decodeSession(data []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return envelope{}, fmt.Errorf("decode session: %w", err)
	}
	return env, nil
}

func expired(savedAt, now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(savedAt) > ttl
}

func clockOrNow(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
