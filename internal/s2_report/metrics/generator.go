package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/roster/internal/contracts"
	"github.com/wonny/roster/internal/dataset"
	"github.com/wonny/roster/internal/policy"
	"github.com/wonny/roster/pkg/logger"
	"github.com/wonny/roster/pkg/redis"
)

// ArtifactWriter persists the snapshot as the well-known metrics artifact
type ArtifactWriter interface {
	Save(snap *contracts.MetricsSnapshot) error
}

// CacheInvalidator drops a cached artifact
type CacheInvalidator interface {
	Delete(ctx context.Context, key string) error
}

// Result separates the computation from its persistence outcome.
// PersistErr never invalidates Snapshot.
type Result struct {
	Snapshot   *contracts.MetricsSnapshot
	PersistErr error
}

// Generator loads the canonical dataset, computes the snapshot and persists it
// ⭐ SSOT: 메트릭 생성 진입점
type Generator struct {
	datasetPath string
	policy      *policy.Policy
	artifact    ArtifactWriter
	history     contracts.SnapshotRecorder
	cache       CacheInvalidator
	publisher   contracts.EventPublisher
	logger      *logger.Logger
}

// NewGenerator creates a Generator over the dataset at datasetPath
func NewGenerator(datasetPath string, p *policy.Policy, artifact ArtifactWriter, log *logger.Logger) *Generator {
	return &Generator{
		datasetPath: datasetPath,
		policy:      p,
		artifact:    artifact,
		logger:      log.Stage("metrics"),
	}
}

// WithHistory also records every snapshot (Postgres history)
func (g *Generator) WithHistory(h contracts.SnapshotRecorder) *Generator {
	g.history = h
	return g
}

// WithCache invalidates the cached artifact after each write
func (g *Generator) WithCache(c CacheInvalidator) *Generator {
	g.cache = c
	return g
}

// WithPublisher announces each generated snapshot
func (g *Generator) WithPublisher(p contracts.EventPublisher) *Generator {
	g.publisher = p
	return g
}

// Generate computes the snapshot at ref. The error return covers loading and
// computing only; persistence failures land in Result.PersistErr.
func (g *Generator) Generate(ctx context.Context, ref time.Time) (*Result, error) {
	set, err := dataset.LoadCanonical(g.datasetPath, g.policy.DateFields())
	if err != nil {
		return nil, err
	}

	snap := Compute(set, ref, g.policy)
	res := &Result{Snapshot: snap, PersistErr: g.persist(ctx, snap)}

	log := g.logger.WithFields(map[string]interface{}{
		"total_employees": snap.TotalEmployees,
		"roles":           len(snap.Top5Roles),
		"email_domains":   len(snap.EmailDomains),
	})
	if res.PersistErr != nil {
		log.WithError(res.PersistErr).Error("Metrics computed but not fully persisted")
	} else {
		log.Info("Metrics generated")
	}

	if g.publisher != nil {
		g.publisher.Publish(contracts.Event{
			Type: contracts.EventMetricsGenerated,
			Time: time.Now(),
			Data: snap,
		})
	}
	return res, nil
}

func (g *Generator) persist(ctx context.Context, snap *contracts.MetricsSnapshot) error {
	var errs []error

	if err := g.artifact.Save(snap); err != nil {
		errs = append(errs, fmt.Errorf("write metrics artifact: %w", err))
	}
	if g.history != nil {
		if err := g.history.SaveSnapshot(ctx, snap); err != nil {
			errs = append(errs, fmt.Errorf("record snapshot history: %w", err))
		}
	}
	if g.cache != nil {
		if err := g.cache.Delete(ctx, redis.MetricsKey()); err != nil {
			errs = append(errs, fmt.Errorf("invalidate metrics cache: %w", err))
		}
	}
	return errors.Join(errs...)
}
