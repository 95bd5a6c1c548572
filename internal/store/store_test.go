package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/rgehrsitz/fundsim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func sampleState() domain.SimulationState {
	return domain.SimulationState{
		CurrentStep: domain.StepResult,
		Answers: domain.AnswerSet{
			Housing: domain.Housing{
				Type:           domain.Ptr(domain.HousingHouse),
				DepartmentCode: domain.Ptr("75"),
			},
			Household: domain.Household{Income: domain.Money(35000)},
			Applicant: map[string]any{"email": "jane@example.org"},
		},
		History: []domain.Step{domain.StepIntro, domain.StepHousingType, domain.StepAddress},
		Result: &domain.EligibilityResult{
			Reason:           domain.ReasonDepartmentIneligible,
			DeterminedAtStep: domain.StepAddress,
			DeterminedAt:     baseTime,
			Checks: domain.Checks{
				domain.RuleHousingType: domain.Passed(),
				domain.RuleDepartment:  domain.Failed(domain.ReasonDepartmentIneligible),
			},
		},
		StartedAt: baseTime,
		UpdatedAt: baseTime,
	}
}

func assertSameState(t *testing.T, want, got domain.SimulationState) {
	t.Helper()
	assert.Equal(t, want.CurrentStep, got.CurrentStep)
	assert.Equal(t, want.History, got.History)
	assert.Equal(t, *want.Answers.Housing.DepartmentCode, *got.Answers.Housing.DepartmentCode)
	assert.True(t, want.Answers.Household.Income.Equal(*got.Answers.Household.Income))
	assert.Equal(t, want.Answers.Applicant["email"], got.Answers.Applicant["email"])
	require.NotNil(t, got.Result)
	assert.Equal(t, want.Result.Reason, got.Result.Reason)
	assert.Equal(t, want.Result.Checks, got.Result.Checks)
	assert.True(t, want.StartedAt.Equal(got.StartedAt))
}

// exerciseSessionStore runs the behaviour every SessionStore shares
func exerciseSessionStore(t *testing.T, s SessionStore, clock *fakeClock) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, "round-trip", sampleState()))
		got, err := s.Load(ctx, "round-trip")
		require.NoError(t, err)
		assertSameState(t, sampleState(), got)
	})

	t.Run("missing session", func(t *testing.T) {
		_, err := s.Load(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, "deleted", sampleState()))
		require.NoError(t, s.Delete(ctx, "deleted"))
		_, err := s.Load(ctx, "deleted")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, s.Delete(ctx, "deleted"), "Deleting twice is fine")
	})

	t.Run("invalid id", func(t *testing.T) {
		err := s.Save(ctx, "../escape", sampleState())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid session id")
	})

	if clock == nil {
		return
	}

	t.Run("expired session is absent", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, "old", sampleState()))
		clock.Advance(DefaultSessionTTL + time.Minute)

		_, err := s.Load(ctx, "old")
		assert.ErrorIs(t, err, ErrExpired)
		assert.ErrorIs(t, err, ErrNotFound, "Expired sessions read as absent")

		_, err = s.Load(ctx, "old")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("session within ttl survives", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, "fresh", sampleState()))
		clock.Advance(DefaultSessionTTL - time.Minute)

		_, err := s.Load(ctx, "fresh")
		assert.NoError(t, err)
	})
}

func TestMemoryStore(t *testing.T) {
	clock := &fakeClock{now: baseTime}
	exerciseSessionStore(t, NewMemoryStore(DefaultSessionTTL, clock.Now), clock)
}

func TestMemoryStore_IsolatesCallers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(DefaultSessionTTL, nil)
	state := sampleState()
	require.NoError(t, s.Save(ctx, "abc", state))

	state.History[0] = domain.StepResult
	got, err := s.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, domain.StepIntro, got.History[0], "Stored copy is not aliased")
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewMemoryStore(DefaultSessionTTL, nil)
	assert.ErrorIs(t, s.Save(ctx, "abc", sampleState()), context.Canceled)
}

func TestFileStore(t *testing.T) {
	clock := &fakeClock{now: baseTime}
	s, err := NewFileStore(t.TempDir(), DefaultSessionTTL, clock.Now)
	require.NoError(t, err)
	exerciseSessionStore(t, s, clock)
}

func TestFileStore_CorruptDocument(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, DefaultSessionTTL, nil)
	require.NoError(t, err)
	require.NoError(t, writeRaw(s.path("broken"), "{not json"))

	_, err = s.Load(context.Background(), "broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode session")
}

func TestMemoryRecordSink(t *testing.T) {
	ctx := context.Background()
	sink := NewMemoryRecordSink()
	record := domain.CompleteRecord{ID: "rec-1", CompletedAt: baseTime}

	require.NoError(t, sink.Put(ctx, record))
	assert.ErrorIs(t, sink.Put(ctx, record), ErrAlreadyExists)
	assert.Equal(t, 1, sink.Len())

	got, err := sink.Get(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, record, got)

	_, err = sink.Get(ctx, "rec-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidateSessionID(t *testing.T) {
	assert.NoError(t, ValidateSessionID("0b5f9a0e-3c1d-4c39-9d55-0f8a9d6f2b11"))
	assert.NoError(t, ValidateSessionID("kitchen_table"))
	assert.Error(t, ValidateSessionID(""))
	assert.Error(t, ValidateSessionID("a/b"))
	assert.Error(t, ValidateSessionID("with space"))
}

func writeRaw(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}
