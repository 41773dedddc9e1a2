package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunNowRecordsResult(t *testing.T) {
	svc := New()
	err := svc.RunNow(context.Background(), Job{Name: "ok", Run: func(context.Context) error { return nil }})
	require.NoError(t, err)

	res, ok := svc.Last("ok")
	require.True(t, ok)
	assert.Equal(t, "completed", res.Status)

	boom := errors.New("boom")
	err = svc.RunNow(context.Background(), Job{Name: "bad", Run: func(context.Context) error { return boom }})
	assert.ErrorIs(t, err, boom)
	res, _ = svc.Last("bad")
	assert.Equal(t, "failed", res.Status)
	assert.Equal(t, "boom", res.Error)
}

func TestScheduledJobRuns(t *testing.T) {
	var runs atomic.Int32
	svc := New(Job{Name: JobDepartmentStats, Interval: 5 * time.Millisecond, Run: func(context.Context) error {
		runs.Add(1)
		return nil
	}})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	_, ok := svc.Last(JobDepartmentStats)
	assert.True(t, ok)
}

func TestEnqueueRunsOnWorker(t *testing.T) {
	done := make(chan struct{})
	svc := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	svc.Enqueue(Job{Name: "once", Run: func(context.Context) error {
		close(done)
		return nil
	}})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueued job did not run")
	}
}
