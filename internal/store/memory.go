package store

import (
	"context"
	"sync"
	"time"

	"github.com/rgehrsitz/fundsim/internal/domain"
)

// MemoryStore keeps sessions in process memory
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	savedAt time.Time
	state   domain.SimulationState
}

// NewMemoryStore creates an in-memory session store. A nil clock uses time.Now.
func NewMemoryStore(ttl time.Duration, now func() time.Time) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      clockOrNow(now),
		sessions: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Save(ctx context.Context, id string, state domain.SimulationState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateSessionID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = memoryEntry{savedAt: s.now(), state: state.Clone()}
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, id string) (domain.SimulationState, error) {
	if err := ctx.Err(); err != nil {
		return domain.SimulationState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return domain.SimulationState{}, ErrNotFound
	}
	if expired(entry.savedAt, s.now(), s.ttl) {
		delete(s.sessions, id)
		return domain.SimulationState{}, ErrExpired
	}
	return entry.state.Clone(), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// MemoryRecordSink keeps finalized records in process memory
type MemoryRecordSink struct {
	mu      sync.Mutex
	records map[string]domain.CompleteRecord
}

// NewMemoryRecordSink creates an empty in-memory sink
func NewMemoryRecordSink() *MemoryRecordSink {
	return &MemoryRecordSink{records: make(map[string]domain.CompleteRecord)}
}

func (s *MemoryRecordSink) Put(ctx context.Context, record domain.CompleteRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.ID]; ok {
		return ErrAlreadyExists
	}
	s.records[record.ID] = record
	return nil
}

func (s *MemoryRecordSink) Get(ctx context.Context, id string) (domain.CompleteRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.CompleteRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[id]
	if !ok {
		return domain.CompleteRecord{}, ErrNotFound
	}
	return record, nil
}

// Len returns the number of stored records
func (s *MemoryRecordSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
