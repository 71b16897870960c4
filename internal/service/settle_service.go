package service

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitproof/splitproof/internal/auth"
	"github.com/splitproof/splitproof/internal/engine"
	"github.com/splitproof/splitproof/internal/middleware"
	"github.com/splitproof/splitproof/internal/models"
	"github.com/splitproof/splitproof/internal/render"
	"github.com/splitproof/splitproof/internal/storage"
)

// SettleService exposes settlement computation and stored-run management
// over HTTP. Computation itself is delegated to the engine; this layer
// only decodes, persists, and renders.
type SettleService struct {
	store   storage.Store
	metrics *SettlementMetrics
	logger  *slog.Logger
}

// NewSettleService creates a new settlement service. metrics may be nil.
func NewSettleService(store storage.Store, metrics *SettlementMetrics, logger *slog.Logger) *SettleService {
	return &SettleService{store: store, metrics: metrics, logger: logger}
}

// settle runs the engine and records the outcome metric.
func (s *SettleService) settle(receipt *models.Receipt, alloc *models.Allocation) (*engine.Result, error) {
	result, err := engine.Settle(receipt, alloc)
	if err != nil {
		s.metrics.observe("rejected", false)
		return nil, err
	}
	outcome := "valid"
	if !result.Validation.Valid {
		outcome = "invalid"
	}
	s.metrics.observe(outcome, result.Settlement.Residual != nil)
	return result, nil
}

// Settle handles POST /v1/settle: compute a settlement without storing it.
func (s *SettleService) Settle(w http.ResponseWriter, r *http.Request) {
	receipt, alloc, ok := s.decodeSettleRequest(w, r)
	if !ok {
		return
	}

	result, err := s.settle(receipt, alloc)
	if err != nil {
		s.logger.Warn("settlement failed", "error", err)
		writeError(w, err)
		return
	}

	s.logger.Info("settlement computed",
		"grand_total", receipt.GrandTotal.String(),
		"participants", len(alloc.Participants),
		"valid", result.Validation.Valid,
	)
	respondJSON(w, http.StatusOK, toSettleResponse("", result))
}

// CreateRun handles POST /v1/runs: compute a settlement and store the
// full run, trace included, under the authenticated user.
func (s *SettleService) CreateRun(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, auth.ErrMissingToken)
		return
	}

	receipt, alloc, ok := s.decodeSettleRequest(w, r)
	if !ok {
		return
	}

	result, err := s.settle(receipt, alloc)
	if err != nil {
		s.logger.Warn("settlement failed", "user_id", userID, "error", err)
		writeError(w, err)
		return
	}

	run := &models.Run{
		OwnerID:    userID,
		Receipt:    receipt,
		Allocation: alloc,
		Settlement: result.Settlement,
		Trace:      result.Trace,
		Verdict:    result.Validation,
		Warnings:   result.Warnings,
	}
	if err := s.store.CreateRun(r.Context(), run); err != nil {
		s.logger.Error("failed to store run", "user_id", userID, "error", err)
		writeError(w, err)
		return
	}

	s.logger.Info("run stored", "run_id", run.ID, "user_id", userID)
	respondJSON(w, http.StatusCreated, toSettleResponse(run.ID, result))
}

// ListRuns handles GET /v1/runs: summaries of the caller's stored runs,
// newest first.
func (s *SettleService) ListRuns(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, auth.ErrMissingToken)
		return
	}

	summaries, err := s.store.ListRunsByOwner(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if summaries == nil {
		summaries = []models.RunSummary{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"runs": summaries})
}

// GetRun handles GET /v1/runs/{runID}: the full stored run.
func (s *SettleService) GetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.ownedRun(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, run)
}

// GetRunSummary handles GET /v1/runs/{runID}/summary: the plain-text
// rendering of a stored run.
func (s *SettleService) GetRunSummary(w http.ResponseWriter, r *http.Request) {
	run, ok := s.ownedRun(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(render.Summary(run.Settlement, run.Trace)))
}

// DeleteRun handles DELETE /v1/runs/{runID}.
func (s *SettleService) DeleteRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.ownedRun(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteRun(r.Context(), run.ID); err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("run deleted", "run_id", run.ID, "user_id", run.OwnerID)
	w.WriteHeader(http.StatusNoContent)
}

// ownedRun loads the run named in the URL and enforces ownership. Foreign
// runs are reported as not found so run IDs cannot be probed.
func (s *SettleService) ownedRun(w http.ResponseWriter, r *http.Request) (*models.Run, bool) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, auth.ErrMissingToken)
		return nil, false
	}

	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	if run.OwnerID != userID {
		writeError(w, storage.ErrNotFound)
		return nil, false
	}
	return run, true
}

func (s *SettleService) decodeSettleRequest(w http.ResponseWriter, r *http.Request) (*models.Receipt, *models.Allocation, bool) {
	var req SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request payload", "")
		return nil, nil, false
	}
	if err := validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), "")
		return nil, nil, false
	}

	receipt, err := req.Receipt.ToReceipt()
	if err != nil {
		writeError(w, err)
		return nil, nil, false
	}
	return receipt, req.Allocation, true
}

func toSettleResponse(runID string, result *engine.Result) SettleResponse {
	return SettleResponse{
		RunID:      runID,
		Settlement: result.Settlement,
		Trace:      result.Trace,
		Verdict:    result.Validation,
		Warnings:   result.Warnings,
		Summary:    render.Summary(result.Settlement, result.Trace),
	}
}
