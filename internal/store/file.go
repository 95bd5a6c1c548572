package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rgehrsitz/fundsim/internal/domain"
)

// FileStore keeps one JSON document per session in a directory. It backs
// the CLI wizard so a questionnaire can be resumed later.
type FileStore struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewFileStore creates the directory if needed. A nil clock uses time.Now.
func NewFileStore(dir string, ttl time.Duration, now func() time.Time) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("sessions directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir, ttl: ttl, now: clockOrNow(now)}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) Save(ctx context.Context, id string, state domain.SimulationState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateSessionID(id); err != nil {
		return err
	}
	data, err := encodeSession(state, s.now())
	if err != nil {
		return err
	}

	tmp := s.path(id) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session %s: %w", id, err)
	}
	if err := os.Rename(tmp, s.path(id)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write session %s: %w", id, err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, id string) (domain.SimulationState, error) {
	if err := ctx.Err(); err != nil {
		return domain.SimulationState{}, err
	}
	if err := ValidateSessionID(id); err != nil {
		return domain.SimulationState{}, err
	}

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.SimulationState{}, ErrNotFound
		}
		return domain.SimulationState{}, fmt.Errorf("failed to read session %s: %w", id, err)
	}

	env, err := decodeSession(data)
	if err != nil {
		return domain.SimulationState{}, err
	}
	if expired(env.SavedAt, s.now(), s.ttl) {
		_ = os.Remove(s.path(id))
		return domain.SimulationState{}, ErrExpired
	}
	return env.State, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateSessionID(id); err != nil {
		return err
	}
	if err := os.Remove(s.path(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}
