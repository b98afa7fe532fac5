package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/wonny/roster/internal/artifact"
	"github.com/wonny/roster/internal/contracts"
	"github.com/wonny/roster/internal/s2_report/metrics"
	"github.com/wonny/roster/pkg/logger"
	"github.com/wonny/roster/pkg/redis"
)

// ArtifactReader reads the persisted metrics artifact (artifact.FileStore satisfies it)
type ArtifactReader interface {
	Load() (*contracts.MetricsSnapshot, error)
}

// MetricsGenerator computes and persists a fresh snapshot
type MetricsGenerator interface {
	Generate(ctx context.Context, ref time.Time) (*metrics.Result, error)
}

// MetricsHandler serves the metrics artifact
// ⭐ SSOT: 메트릭 API 핸들러는 이 구조체에서만
type MetricsHandler struct {
	store     ArtifactReader
	generator MetricsGenerator
	cache     *redis.Cache
	now       func() time.Time
	logger    *logger.Logger
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(store ArtifactReader, g MetricsGenerator, log *logger.Logger) *MetricsHandler {
	return &MetricsHandler{
		store:     store,
		generator: g,
		now:       time.Now,
		logger:    log,
	}
}

// WithCache serves the artifact through a Redis read-through cache
func (h *MetricsHandler) WithCache(c *redis.Cache) *MetricsHandler {
	h.cache = c
	return h
}

// GetMetrics returns the artifact, generating it first when none exists
// GET /metrics
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var snap *contracts.MetricsSnapshot
	var err error
	if h.cache != nil {
		snap = &contracts.MetricsSnapshot{}
		err = h.cache.GetOrSet(ctx, redis.MetricsKey(), snap, redis.TTLDaily, func() (interface{}, error) {
			return h.load(ctx)
		})
	} else {
		snap, err = h.load(ctx)
	}

	if err != nil {
		h.logger.WithError(err).Error("Failed to serve metrics")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

func (h *MetricsHandler) load(ctx context.Context) (*contracts.MetricsSnapshot, error) {
	snap, err := h.store.Load()
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, artifact.ErrArtifactNotFound) {
		return nil, err
	}

	h.logger.Info("Metrics artifact absent, generating")
	res, err := h.generator.Generate(ctx, h.now())
	if err != nil {
		return nil, err
	}
	if res.PersistErr != nil {
		h.logger.WithError(res.PersistErr).Warn("Serving metrics that were not fully persisted")
	}
	return res.Snapshot, nil
}
