package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/wonny/roster/internal/contracts"
	"github.com/wonny/roster/pkg/logger"
)

// maxRunsLimit caps GET /runs?limit=
const maxRunsLimit = 200

// RunLister lists recorded ingestion runs (artifact.Repository satisfies it)
type RunLister interface {
	ListRuns(ctx context.Context, limit int) ([]contracts.RunRecord, error)
}

// RunsHandler serves the ingestion run history
type RunsHandler struct {
	runs   RunLister
	logger *logger.Logger
}

// NewRunsHandler creates a new runs handler; a nil lister means no database is configured
func NewRunsHandler(runs RunLister, log *logger.Logger) *RunsHandler {
	return &RunsHandler{runs: runs, logger: log}
}

// ListRuns returns the most recent runs, newest first
// GET /runs?limit=20
func (h *RunsHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		respondError(w, http.StatusServiceUnavailable, "Run history requires DATABASE_URL")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid 'limit' (expected a positive integer)")
			return
		}
		limit = min(n, maxRunsLimit)
	}

	runs, err := h.runs.ListRuns(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list ingestion runs")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve run history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}
