package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/roster/internal/contracts"
	"github.com/wonny/roster/internal/pipeline"
	"github.com/wonny/roster/internal/s2_report/metrics"
	"github.com/wonny/roster/pkg/logger"
)

type fakeRunner struct {
	got pipeline.RunConfig
	err error
}

func (f *fakeRunner) Run(ctx context.Context, cfg pipeline.RunConfig) (*pipeline.RunResult, error) {
	f.got = cfg
	return &pipeline.RunResult{RunID: "r1", Rows: 10, Success: f.err == nil}, f.err
}

type fixedURL struct {
	url string
	err error
}

func (f fixedURL) Resolve(ctx context.Context) (string, error) { return f.url, f.err }

type fakeGenerator struct {
	ref time.Time
	res *metrics.Result
	err error
}

func (f *fakeGenerator) Generate(ctx context.Context, ref time.Time) (*metrics.Result, error) {
	f.ref = ref
	return f.res, f.err
}

func TestIngestJob(t *testing.T) {
	runner := &fakeRunner{}
	job := NewIngestJob(runner, fixedURL{url: "http://source.test/a.zip"}, "0 0 2 * * *", logger.Nop())

	assert.Equal(t, "roster_ingest", job.Name())
	assert.Equal(t, "0 0 2 * * *", job.Schedule())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, "http://source.test/a.zip", runner.got.URL)
}

func TestIngestJob_Errors(t *testing.T) {
	job := NewIngestJob(&fakeRunner{}, fixedURL{err: errors.New("no link")}, "@daily", logger.Nop())
	assert.Error(t, job.Run(context.Background()))

	job = NewIngestJob(&fakeRunner{err: errors.New("fetch failed")}, fixedURL{url: "u"}, "@daily", logger.Nop())
	assert.EqualError(t, job.Run(context.Background()), "fetch failed")
}

func TestMetricsJob(t *testing.T) {
	ref := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	gen := &fakeGenerator{res: &metrics.Result{Snapshot: &contracts.MetricsSnapshot{TotalEmployees: 3}}}
	job := NewMetricsJob(gen, "0 30 2 * * *", logger.Nop())
	job.now = func() time.Time { return ref }

	assert.Equal(t, "daily_metrics", job.Name())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, ref, gen.ref)
}

func TestMetricsJob_PersistFailureFailsJob(t *testing.T) {
	gen := &fakeGenerator{res: &metrics.Result{
		Snapshot:   &contracts.MetricsSnapshot{},
		PersistErr: errors.New("disk full"),
	}}
	job := NewMetricsJob(gen, "@daily", logger.Nop())

	assert.EqualError(t, job.Run(context.Background()), "disk full")
}
