package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/valuescan/pkg/logger"
)

type countingJob struct {
	name     string
	schedule string
	failFor  int32
	calls    int32
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return j.schedule }

func (j *countingJob) Run(ctx context.Context) error {
	n := atomic.AddInt32(&j.calls, 1)
	if n <= j.failFor {
		return errors.New("provider unavailable")
	}
	return nil
}

func TestAddJob(t *testing.T) {
	s := New(logger.Nop())

	require.NoError(t, s.AddJob(&countingJob{name: "scan", schedule: "0 30 16 * * 1-5"}))
	assert.Error(t, s.AddJob(&countingJob{name: "scan", schedule: "@daily"}), "duplicate name")
	assert.Error(t, s.AddJob(&countingJob{name: "bad", schedule: "not a cron"}))

	assert.Equal(t, []string{"scan"}, s.GetAllJobs())
}

func TestRemoveJob(t *testing.T) {
	s := New(logger.Nop())
	require.NoError(t, s.AddJob(&countingJob{name: "scan", schedule: "@daily"}))

	require.NoError(t, s.RemoveJob("scan"))
	assert.Empty(t, s.GetAllJobs())
	assert.Error(t, s.RemoveJob("scan"))
	_, err := s.NextRun("scan")
	assert.Error(t, err)
}

func TestRunNow_RetriesUntilSuccess(t *testing.T) {
	s := New(logger.Nop()).WithRetry(2, time.Millisecond)
	job := &countingJob{name: "scan", schedule: "@daily", failFor: 2}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunNow(context.Background(), "scan")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Empty(t, result.Error)
	assert.Equal(t, int32(3), atomic.LoadInt32(&job.calls))

	stats := s.GetJobStats()["scan"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1, stats.SuccessCount)
	require.NotNil(t, stats.LastSuccess)
	assert.Nil(t, stats.LastFailure)
}

func TestRunNow_GivesUp(t *testing.T) {
	s := New(logger.Nop()).WithRetry(1, time.Millisecond)
	job := &countingJob{name: "scan", schedule: "@daily", failFor: 10}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunNow(context.Background(), "scan")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "provider unavailable", result.Error)
	assert.Equal(t, int32(2), atomic.LoadInt32(&job.calls))

	history, err := s.GetJobHistory("scan")
	require.NoError(t, err)
	assert.Len(t, history.GetFailedResults(), 1)
	assert.Equal(t, 0.0, history.GetSuccessRate())
}

func TestGetJobHistory_ReturnsSnapshot(t *testing.T) {
	s := New(logger.Nop()).WithRetry(0, 0)
	require.NoError(t, s.AddJob(&countingJob{name: "scan", schedule: "@daily"}))

	_, err := s.RunNow(context.Background(), "scan")
	require.NoError(t, err)

	snapshot, err := s.GetJobHistory("scan")
	require.NoError(t, err)
	require.Len(t, snapshot.Results, 1)

	_, err = s.RunNow(context.Background(), "scan")
	require.NoError(t, err)
	assert.Len(t, snapshot.Results, 1, "earlier snapshot is not appended to")

	snapshot.Results[0].JobName = "changed"
	latest, err := s.GetJobHistory("scan")
	require.NoError(t, err)
	assert.Len(t, latest.Results, 2)
	assert.Equal(t, "scan", latest.Results[0].JobName)

	_, err = s.GetJobHistory("missing")
	assert.Error(t, err)
}

func TestRunNow_CancelStopsRetries(t *testing.T) {
	s := New(logger.Nop()).WithRetry(5, time.Hour)
	job := &countingJob{name: "scan", schedule: "@daily", failFor: 10}
	require.NoError(t, s.AddJob(job))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	result, err := s.RunNow(ctx, "scan")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, context.DeadlineExceeded.Error(), result.Error)
	assert.Equal(t, int32(1), atomic.LoadInt32(&job.calls))
}

func TestRunNow_UnknownJob(t *testing.T) {
	s := New(logger.Nop())
	_, err := s.RunNow(context.Background(), "missing")
	assert.Error(t, err)
	assert.Error(t, s.RunJob("missing"))
}

func TestNextRun_AfterStart(t *testing.T) {
	s := New(logger.Nop())
	require.NoError(t, s.AddJob(&countingJob{name: "scan", schedule: "@hourly"}))

	s.Start()
	defer s.Stop()

	next, err := s.NextRun("scan")
	require.NoError(t, err)
	assert.True(t, next.After(time.Now()))
}

func TestJobHistory_Bounded(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < maxHistory+10; i++ {
		h.AddResult(JobResult{JobName: "scan", Success: i%2 == 0})
	}

	assert.Len(t, h.Results, maxHistory)
	assert.Len(t, h.GetLatestResults(5), 5)
	assert.Empty(t, (&JobHistory{}).GetLatestResults(3))
	assert.InDelta(t, 0.5, h.GetSuccessRate(), 1e-9)
}
