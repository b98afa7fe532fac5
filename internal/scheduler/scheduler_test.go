package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/roster/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	mu       sync.Mutex
	calls    int
	failN    int
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.calls++
	if j.calls <= j.failN {
		return errors.New("source unavailable")
	}
	return nil
}

func newScheduler() *Scheduler {
	return New(logger.Nop()).WithRetry(2, time.Millisecond)
}

func TestAddJob(t *testing.T) {
	s := newScheduler()

	require.NoError(t, s.AddJob(&fakeJob{name: "roster_ingest", schedule: "0 0 2 * * *"}))
	assert.Error(t, s.AddJob(&fakeJob{name: "roster_ingest", schedule: "0 0 2 * * *"}))
	assert.Error(t, s.AddJob(&fakeJob{name: "bad", schedule: "not a schedule"}))

	assert.Equal(t, []string{"roster_ingest"}, s.GetAllJobs())
}

func TestRemoveJob(t *testing.T) {
	s := newScheduler()
	require.NoError(t, s.AddJob(&fakeJob{name: "daily_metrics", schedule: "@daily"}))

	require.NoError(t, s.RemoveJob("daily_metrics"))
	assert.Empty(t, s.GetAllJobs())
	assert.Error(t, s.RemoveJob("daily_metrics"))
}

func TestRunJobNow_RetriesThenSucceeds(t *testing.T) {
	s := newScheduler()
	job := &fakeJob{name: "roster_ingest", schedule: "@daily", failN: 2}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJobNow(context.Background(), "roster_ingest")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)

	history, err := s.GetJobHistory("roster_ingest")
	require.NoError(t, err)
	assert.Len(t, history.Results, 1)
}

func TestRunJobNow_FailsAfterRetries(t *testing.T) {
	s := newScheduler()
	require.NoError(t, s.AddJob(&fakeJob{name: "roster_ingest", schedule: "@daily", failN: 10}))

	result, err := s.RunJobNow(context.Background(), "roster_ingest")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, "source unavailable", result.Error)

	stats := s.GetJobStats()["roster_ingest"]
	assert.Equal(t, 1, stats.FailureCount)
	assert.NotNil(t, stats.LastFailure)
	assert.Nil(t, stats.LastSuccess)
}

func TestRunJobNow_CancelledDuringRetryWait(t *testing.T) {
	s := New(logger.Nop()).WithRetry(3, time.Hour)
	require.NoError(t, s.AddJob(&fakeJob{name: "roster_ingest", schedule: "@daily", failN: 10}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.RunJobNow(ctx, "roster_ingest")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Attempts)
}

func TestRunJobNow_UnknownJob(t *testing.T) {
	_, err := newScheduler().RunJobNow(context.Background(), "missing")
	assert.Error(t, err)
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < historyLimit+5; i++ {
		h.AddResult(JobResult{Success: i%2 == 0})
	}

	assert.Len(t, h.Results, historyLimit)
	assert.Len(t, h.GetLatestResults(3), 3)
	assert.Empty(t, h.GetLatestResults(0))
	assert.InDelta(t, 0.5, h.GetSuccessRate(), 0.001)
	assert.Len(t, h.GetFailedResults(), historyLimit/2)
}
