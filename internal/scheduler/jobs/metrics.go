package jobs

import (
	"context"
	"time"

	"github.com/wonny/roster/internal/s2_report/metrics"
	"github.com/wonny/roster/pkg/logger"
)

// MetricsGenerator computes and persists the metrics artifact
type MetricsGenerator interface {
	Generate(ctx context.Context, ref time.Time) (*metrics.Result, error)
}

// MetricsJob regenerates the metrics artifact after the daily ingestion
type MetricsJob struct {
	generator MetricsGenerator
	schedule  string
	now       func() time.Time
	logger    *logger.Logger
}

// NewMetricsJob creates a new metrics job
func NewMetricsJob(g MetricsGenerator, schedule string, log *logger.Logger) *MetricsJob {
	return &MetricsJob{
		generator: g,
		schedule:  schedule,
		now:       time.Now,
		logger:    log,
	}
}

// Name returns the job name
func (j *MetricsJob) Name() string {
	return "daily_metrics"
}

// Schedule returns the cron schedule (default daily at 02:30)
func (j *MetricsJob) Schedule() string {
	return j.schedule
}

// Run generates the snapshot for today. A persistence failure fails the job.
func (j *MetricsJob) Run(ctx context.Context) error {
	res, err := j.generator.Generate(ctx, j.now())
	if err != nil {
		return err
	}
	if res.PersistErr != nil {
		return res.PersistErr
	}

	j.logger.WithField("total_employees", res.Snapshot.TotalEmployees).Info("Scheduled metrics generated")
	return nil
}
