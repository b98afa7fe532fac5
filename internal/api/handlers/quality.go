package handlers

import (
	"context"
	"net/http"

	"github.com/wonny/roster/internal/contracts"
	"github.com/wonny/roster/pkg/logger"
)

// QualityReporter computes a fresh quality report (quality.Reporter satisfies it)
type QualityReporter interface {
	Generate(ctx context.Context) (*contracts.QualityReport, error)
}

// QualityHandler serves data quality reports
type QualityHandler struct {
	reporter QualityReporter
	logger   *logger.Logger
}

// NewQualityHandler creates a new quality handler
func NewQualityHandler(reporter QualityReporter, log *logger.Logger) *QualityHandler {
	return &QualityHandler{reporter: reporter, logger: log}
}

// GetQuality computes the report on every call; it is never cached
// GET /quality
func (h *QualityHandler) GetQuality(w http.ResponseWriter, r *http.Request) {
	report, err := h.reporter.Generate(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate quality report")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, report)
}
