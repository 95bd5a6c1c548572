package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rgehrsitz/fundsim/internal/compare"
	"github.com/rgehrsitz/fundsim/internal/domain"
	"github.com/rgehrsitz/fundsim/internal/simulation"
	"github.com/rgehrsitz/fundsim/internal/store"
)

const maxBodyBytes = 1 << 20

// Handler serves the simulation, evaluation and modification endpoints.
type Handler struct {
	machine  *simulation.Machine
	sessions store.SessionStore
	records  store.RecordSink
	differ   *compare.Differ
	logger   *slog.Logger
	newID    func() string
}

// New creates a Handler. A nil logger discards output.
func New(machine *simulation.Machine, sessions store.SessionStore, records store.RecordSink, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		machine:  machine,
		sessions: sessions,
		records:  records,
		differ:   compare.NewDiffer(machine.Evaluator()),
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// Register mounts the endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/simulations", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/{id}", h.HandleGet)
		r.Delete("/{id}", h.HandleReset)
		r.Post("/{id}/start", h.HandleStart)
		r.Post("/{id}/answers", h.HandleSubmit)
		r.Post("/{id}/back", h.HandleBack)
		r.Post("/{id}/complete", h.HandleComplete)
	})
	r.Get("/records/{id}", h.HandleGetRecord)
	r.Post("/eligibility/evaluate", h.HandleEvaluate)
	r.Post("/eligibility/evaluate-edition", h.HandleEvaluateEdition)
	r.Post("/modifications", h.HandleModifications)
}

// NewRouter builds the HTTP router with health, metrics and API routes.
func NewRouter(h *Handler, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	h.Register(r)
	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.InfoContext(r.Context(), "request served",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// HandleCreate starts a new session at the intro step.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := h.newID()
	state := h.machine.Create()
	if err := h.sessions.Save(ctx, id, state); err != nil {
		h.fail(ctx, w, "session save failed", id, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse(id, state, simulation.RecoveryNone))
}

// HandleGet returns a session, repairing and re-saving it when it was
// stored in an inconsistent state.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	state, ok := h.load(w, r, id)
	if !ok {
		return
	}
	repaired, recovery := h.machine.Restore(state)
	if recovery != simulation.RecoveryNone {
		h.logger.WarnContext(ctx, "session repaired",
			"request_id", middleware.GetReqID(ctx),
			"session_id", id,
			"recovery", string(recovery),
		)
		if err := h.sessions.Save(ctx, id, repaired); err != nil {
			h.fail(ctx, w, "session save failed", id, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, sessionResponse(id, repaired, recovery))
}

// HandleStart moves a session from intro to the first question.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(state domain.SimulationState) (domain.SimulationState, error) {
		return h.machine.Start(state)
	})
}

// HandleSubmit merges the answers of the current step and advances.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if !decode(w, r, &req) {
		return
	}
	h.transition(w, r, func(state domain.SimulationState) (domain.SimulationState, error) {
		return h.machine.SubmitAnswer(state, req.Answers, simulation.SubmitOptions{SkipEarlyExit: req.SkipEarlyExit})
	})
}

// HandleBack navigates to the previous step.
func (h *Handler) HandleBack(w http.ResponseWriter, r *http.Request) {
	var req BackRequest
	if !decode(w, r, &req) {
		return
	}
	h.transition(w, r, func(state domain.SimulationState) (domain.SimulationState, error) {
		return h.machine.GoBack(state, simulation.BackOptions{PreserveAnswers: req.PreserveAnswers}), nil
	})
}

// HandleReset returns a session to a fresh intro state.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(domain.SimulationState) (domain.SimulationState, error) {
		return h.machine.Reset(), nil
	})
}

// HandleComplete finalizes a session's answers into a stored record.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	state, ok := h.load(w, r, id)
	if !ok {
		return
	}
	record, err := h.machine.ToCompleteRecord(state.Answers)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if err := h.records.Put(ctx, record); err != nil {
		h.fail(ctx, w, "record store failed", id, err)
		return
	}
	h.logger.InfoContext(ctx, "record completed",
		"request_id", middleware.GetReqID(ctx),
		"session_id", id,
		"record_id", record.ID,
		"eligible", record.Result.Eligible,
	)
	writeJSON(w, http.StatusCreated, record)
}

// HandleGetRecord returns a stored record.
func (h *Handler) HandleGetRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	record, err := h.records.Get(ctx, id)
	if err != nil {
		h.fail(ctx, w, "record load failed", id, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// HandleEvaluate runs the citizen-mode determination on a full answer set.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, outcomeResponse(h.machine.Evaluate(req.Answers), req.Answers))
}

// HandleEvaluateEdition runs the caseworker determination on an answer set.
func (h *Handler) HandleEvaluateEdition(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, outcomeResponse(h.machine.EvaluateForEdition(req.Answers), req.Answers))
}

// HandleModifications diffs a baseline answer set against an edited one.
func (h *Handler) HandleModifications(w http.ResponseWriter, r *http.Request) {
	var req ModificationsRequest
	if !decode(w, r, &req) {
		return
	}
	set := h.differ.Compare(req.Baseline, req.Current)
	if req.BaselineChecks != nil {
		set.Modifications = h.differ.ComputeModifications(req.Baseline, req.Current, req.BaselineChecks, req.CurrentChecks)
	}
	writeJSON(w, http.StatusOK, set)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, step func(domain.SimulationState) (domain.SimulationState, error)) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	state, ok := h.load(w, r, id)
	if !ok {
		return
	}
	next, err := step(state)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if err := h.sessions.Save(ctx, id, next); err != nil {
		h.fail(ctx, w, "session save failed", id, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(id, next, simulation.RecoveryNone))
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request, id string) (domain.SimulationState, bool) {
	if err := store.ValidateSessionID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return domain.SimulationState{}, false
	}
	state, err := h.sessions.Load(r.Context(), id)
	if err != nil {
		h.fail(r.Context(), w, "session load failed", id, err)
		return domain.SimulationState{}, false
	}
	return state, true
}

// fail writes the mapped status and logs server-side failures
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg, id string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg,
			"request_id", middleware.GetReqID(ctx),
			"id", id,
			"error", err,
		)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

// decode reads and validates a JSON body, writing a 400 on failure.
// An empty body decodes to the zero request.
func decode(w http.ResponseWriter, r *http.Request, dst validatable) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	if err := dst.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
