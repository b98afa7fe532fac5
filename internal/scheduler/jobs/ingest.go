package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/roster/internal/pipeline"
	"github.com/wonny/roster/pkg/logger"
)

// IngestRunner executes one ingestion run (pipeline.Orchestrator satisfies it)
type IngestRunner interface {
	Run(ctx context.Context, cfg pipeline.RunConfig) (*pipeline.RunResult, error)
}

// URLResolver picks the archive URL for a run (fetcher.Source satisfies it)
type URLResolver interface {
	Resolve(ctx context.Context) (string, error)
}

// IngestJob downloads, validates and cleans the roster on a schedule
type IngestJob struct {
	runner   IngestRunner
	source   URLResolver
	schedule string
	logger   *logger.Logger
}

// NewIngestJob creates a new ingestion job
func NewIngestJob(runner IngestRunner, source URLResolver, schedule string, log *logger.Logger) *IngestJob {
	return &IngestJob{
		runner:   runner,
		source:   source,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *IngestJob) Name() string {
	return "roster_ingest"
}

// Schedule returns the cron schedule (default daily at 02:00)
func (j *IngestJob) Schedule() string {
	return j.schedule
}

// Run executes one ingestion run
func (j *IngestJob) Run(ctx context.Context) error {
	url, err := j.source.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}

	result, err := j.runner.Run(ctx, pipeline.RunConfig{URL: url})
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id": result.RunID,
		"rows":   result.Rows,
	}).Info("Scheduled ingestion completed")
	return nil
}
