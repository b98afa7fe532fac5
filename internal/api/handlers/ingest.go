package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/wonny/roster/internal/pipeline"
	"github.com/wonny/roster/internal/s0_ingest/fetcher"
	"github.com/wonny/roster/internal/s0_ingest/schema"
	"github.com/wonny/roster/pkg/logger"
)

// IngestRunner executes one ingestion run (pipeline.Orchestrator satisfies it).
// Implementations serialize concurrent runs.
type IngestRunner interface {
	Run(ctx context.Context, cfg pipeline.RunConfig) (*pipeline.RunResult, error)
}

// URLResolver picks the archive URL (fetcher.Source satisfies it)
type URLResolver interface {
	Resolve(ctx context.Context) (string, error)
}

// IngestRequest optionally overrides the archive URL for one run
type IngestRequest struct {
	URL string `json:"url"`
}

// IngestHandler triggers pipeline runs
type IngestHandler struct {
	runner IngestRunner
	source URLResolver
	logger *logger.Logger
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(runner IngestRunner, source URLResolver, log *logger.Logger) *IngestHandler {
	return &IngestHandler{runner: runner, source: source, logger: log}
}

// Ingest runs the pipeline synchronously and returns the run result
// POST /ingest
func (h *IngestHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	url := req.URL
	if url == "" {
		resolved, err := h.source.Resolve(ctx)
		if err != nil {
			h.logger.WithError(err).Error("Failed to resolve source archive")
			respondError(w, http.StatusBadGateway, err.Error())
			return
		}
		url = resolved
	}

	result, err := h.runner.Run(ctx, pipeline.RunConfig{URL: url})

	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// statusFor maps a run failure to its HTTP status
func statusFor(err error) int {
	var verr *schema.ValidationError
	var ferr *fetcher.FetchError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &ferr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
