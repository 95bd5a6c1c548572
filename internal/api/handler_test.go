package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/fundsim/internal/compare"
	"github.com/rgehrsitz/fundsim/internal/config"
	"github.com/rgehrsitz/fundsim/internal/domain"
	"github.com/rgehrsitz/fundsim/internal/metrics"
	"github.com/rgehrsitz/fundsim/internal/simulation"
	"github.com/rgehrsitz/fundsim/internal/store"
)

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type testServer struct {
	router   http.Handler
	sessions *store.MemoryStore
	records  *store.MemoryRecordSink
	machine  *simulation.Machine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	rules, err := config.DefaultProgramRules()
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	machine := simulation.NewMachine(rules,
		simulation.WithClock(func() time.Time { return fixedNow }),
		simulation.WithIDGenerator(func() string { return "record-1" }),
		simulation.WithObserver(metrics.New(reg)),
	)
	sessions := store.NewMemoryStore(store.DefaultSessionTTL, func() time.Time { return fixedNow })
	records := store.NewMemoryRecordSink()

	h := New(machine, sessions, records, nil)
	h.newID = func() string { return "session-1" }

	return &testServer{
		router:   NewRouter(h, reg),
		sessions: sessions,
		records:  records,
		machine:  machine,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func eligibleAnswers() domain.AnswerSet {
	return domain.AnswerSet{
		Housing: domain.Housing{
			Type:             domain.Ptr(domain.HousingHouse),
			DepartmentCode:   domain.Ptr("47"),
			RegionCode:       domain.Ptr("75"),
			ExposureZone:     domain.Ptr(domain.ExposureHigh),
			ConstructionYear: domain.Ptr(1985),
			FloorCount:       domain.Ptr(1),
			Adjacent:         domain.Ptr(false),
			OwnerOccupant:    domain.Ptr(true),
		},
		DamageHistory: domain.DamageHistory{
			State:             domain.Ptr(domain.DamageSound),
			Insured:           domain.Ptr(true),
			PriorCompensation: domain.Ptr(false),
		},
		Household: domain.Household{
			Size:   domain.Ptr(2),
			Income: domain.Money(15000),
		},
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)

	s.do(t, http.MethodPost, "/simulations", nil)
	s.do(t, http.MethodPost, "/simulations/session-1/start", nil)

	rec = s.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fundsim_")
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/simulations", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[SessionResponse](t, rec)
	assert.Equal(t, "session-1", created.ID)
	assert.Equal(t, domain.StepIntro, created.State.CurrentStep)
	assert.False(t, created.CanGoBack)

	rec = s.do(t, http.MethodPost, "/simulations/session-1/start", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.StepHousingType, decodeBody[SessionResponse](t, rec).State.CurrentStep)

	rec = s.do(t, http.MethodPost, "/simulations/session-1/answers", `{"answers":{"housing":{"type":"house"}}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	advanced := decodeBody[SessionResponse](t, rec)
	assert.Equal(t, domain.StepAddress, advanced.State.CurrentStep)
	assert.True(t, advanced.CanGoBack)

	rec = s.do(t, http.MethodPost, "/simulations/session-1/back", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	back := decodeBody[SessionResponse](t, rec)
	assert.Equal(t, domain.StepHousingType, back.State.CurrentStep)

	rec = s.do(t, http.MethodGet, "/simulations/session-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.StepHousingType, decodeBody[SessionResponse](t, rec).State.CurrentStep)

	rec = s.do(t, http.MethodDelete, "/simulations/session-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.StepIntro, decodeBody[SessionResponse](t, rec).State.CurrentStep)
}

func TestSubmitEarlyExit(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/simulations", nil)
	s.do(t, http.MethodPost, "/simulations/session-1/start", nil)

	rec := s.do(t, http.MethodPost, "/simulations/session-1/answers", `{"answers":{"housing":{"type":"apartment"}}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[SessionResponse](t, rec)
	assert.Equal(t, domain.StepResult, resp.State.CurrentStep)
	require.NotNil(t, resp.State.Result)
	assert.False(t, resp.State.Result.Eligible)
	assert.Equal(t, domain.ReasonApartment, resp.State.Result.Reason)
	assert.NotEmpty(t, resp.Message)
}

func TestSubmitSkipEarlyExit(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/simulations", nil)
	s.do(t, http.MethodPost, "/simulations/session-1/start", nil)

	rec := s.do(t, http.MethodPost, "/simulations/session-1/answers",
		`{"answers":{"housing":{"type":"apartment"}},"skip_early_exit":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.StepAddress, decodeBody[SessionResponse](t, rec).State.CurrentStep)
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/simulations", nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"unknown session", http.MethodGet, "/simulations/missing", nil, http.StatusNotFound},
		{"invalid session id", http.MethodGet, "/simulations/bad.id", nil, http.StatusBadRequest},
		{"submit at intro", http.MethodPost, "/simulations/session-1/answers", `{"answers":{}}`, http.StatusConflict},
		{"malformed body", http.MethodPost, "/simulations/session-1/answers", `{"answers":`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/simulations/session-1/answers", `{"answer":{}}`, http.StatusBadRequest},
		{"invalid department", http.MethodPost, "/eligibility/evaluate", `{"answers":{"housing":{"department_code":"4"}}}`, http.StatusBadRequest},
		{"complete with partial answers", http.MethodPost, "/simulations/session-1/complete", nil, http.StatusConflict},
		{"unknown record", http.MethodGet, "/records/missing", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decodeBody[errorResponse](t, rec).Error)
		})
	}
}

func TestCompleteStoresRecord(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/simulations", nil)
	s.do(t, http.MethodPost, "/simulations/session-1/start", nil)

	rec := s.do(t, http.MethodPost, "/simulations/session-1/answers", SubmitRequest{Answers: eligibleAnswers()})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/simulations/session-1/complete", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	record := decodeBody[domain.CompleteRecord](t, rec)
	assert.Equal(t, "record-1", record.ID)
	assert.True(t, record.Result.Eligible)
	assert.Equal(t, domain.TierVeryModest, record.IncomeTier)
	assert.Equal(t, 1, s.records.Len())

	rec = s.do(t, http.MethodGet, "/records/record-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[domain.CompleteRecord](t, rec).Result.Eligible)

	rec = s.do(t, http.MethodPost, "/simulations/session-1/complete", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetRepairsInconsistentSession(t *testing.T) {
	s := newTestServer(t)
	state := s.machine.Create()
	state.CurrentStep = domain.StepAddress
	state.History = []domain.Step{domain.StepHousingType}
	state.Result = &domain.EligibilityResult{Eligible: true, DeterminedAtStep: domain.StepResult}
	require.NoError(t, s.sessions.Save(context.Background(), "broken", state))

	rec := s.do(t, http.MethodGet, "/simulations/broken", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[SessionResponse](t, rec)
	assert.Equal(t, string(simulation.RecoveryClearedResult), resp.Recovery)
	assert.Nil(t, resp.State.Result)

	stored, err := s.sessions.Load(context.Background(), "broken")
	require.NoError(t, err)
	assert.Nil(t, stored.Result)
}

func TestEvaluateEndpoints(t *testing.T) {
	s := newTestServer(t)

	t.Run("citizen mode on complete answers", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/eligibility/evaluate", EvaluateRequest{Answers: eligibleAnswers()})
		require.Equal(t, http.StatusOK, rec.Code)
		out := decodeBody[OutcomeResponse](t, rec)
		assert.True(t, out.Result.Eligible)
		assert.True(t, out.IsComplete)
		assert.Equal(t, domain.TierVeryModest, out.Tier)
		assert.Empty(t, out.Missing)
		assert.Empty(t, out.Message)
	})

	partial := eligibleAnswers()
	partial.Household = domain.Household{}

	t.Run("citizen mode on partial answers", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/eligibility/evaluate", EvaluateRequest{Answers: partial})
		require.Equal(t, http.StatusOK, rec.Code)
		out := decodeBody[OutcomeResponse](t, rec)
		assert.False(t, out.Result.Eligible)
		assert.False(t, out.IsComplete)
		assert.Contains(t, out.Missing, domain.FieldHouseholdSize)
	})

	t.Run("edit mode tolerates pending rules", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/eligibility/evaluate-edition", EvaluateRequest{Answers: partial})
		require.Equal(t, http.StatusOK, rec.Code)
		out := decodeBody[OutcomeResponse](t, rec)
		assert.True(t, out.Result.Eligible)
		assert.False(t, out.IsComplete)
	})
}

func TestModificationsEndpoint(t *testing.T) {
	s := newTestServer(t)
	current := eligibleAnswers()
	current.DamageHistory.Insured = domain.Ptr(false)

	rec := s.do(t, http.MethodPost, "/modifications", ModificationsRequest{Baseline: eligibleAnswers(), Current: current})
	require.Equal(t, http.StatusOK, rec.Code)

	set := decodeBody[compare.ModificationSet](t, rec)
	assert.True(t, set.BaselineEligible)
	assert.False(t, set.CurrentEligible)
	assert.Equal(t, domain.ReasonNotInsured, set.CurrentReason)
	require.Len(t, set.Modifications, 1)
	assert.Equal(t, domain.FieldInsured, set.Modifications[0].Field)
	assert.True(t, set.Modifications[0].FlipsEligibility())
}

func TestModificationsEndpointPartialCurrent(t *testing.T) {
	s := newTestServer(t)
	current := domain.AnswerSet{Household: domain.Household{Income: domain.Money(35000)}}

	rec := s.do(t, http.MethodPost, "/modifications", ModificationsRequest{Baseline: eligibleAnswers(), Current: current})
	require.Equal(t, http.StatusOK, rec.Code)

	set := decodeBody[compare.ModificationSet](t, rec)
	assert.True(t, set.BaselineEligible)
	assert.True(t, set.CurrentEligible, "The edit is judged over the baseline answers")
	require.Len(t, set.Modifications, 1)
	assert.Equal(t, domain.FieldHouseholdIncome, set.Modifications[0].Field)
	assert.Equal(t, "Very modest", set.Modifications[0].BeforeDisplay)
	assert.Equal(t, "Modest", set.Modifications[0].AfterDisplay)
}

func TestModificationsRequiresBothCheckSets(t *testing.T) {
	s := newTestServer(t)
	body := `{"baseline":{},"current":{},"baseline_checks":{"insurance":{"status":"passed"}}}`

	rec := s.do(t, http.MethodPost, "/modifications", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.Contains(decodeBody[errorResponse](t, rec).Error, "together"))
}
