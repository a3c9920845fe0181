package jobs_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bathcraft/washroom-api/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReconciler struct {
	mu        sync.Mutex
	calls     int
	batchSize int
	err       error
	done      chan struct{}
}

func (f *fakeReconciler) ReconcileMargins(ctx context.Context, batchSize int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.batchSize = batchSize
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("missing deadline")
	}
	if f.done != nil && f.calls == 1 {
		close(f.done)
	}
	return 3, f.err
}

func (f *fakeReconciler) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestScheduler_AddAndRemoveJob(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob("b", "0 30 2 * * *", func() {}))
	require.NoError(t, s.AddJob("a", "30 2 * * *", func() {}))
	assert.Equal(t, []string{"a", "b"}, s.GetJobNames())

	err := s.AddJob("a", "@hourly", func() {})
	assert.Error(t, err)

	err = s.AddJob("bad", "not a cron", func() {})
	assert.Error(t, err)

	require.NoError(t, s.RemoveJob("a"))
	assert.Equal(t, []string{"b"}, s.GetJobNames())
	assert.Error(t, s.RemoveJob("a"))
}

func TestMarginReconcileJob_Run(t *testing.T) {
	t.Run("passes batch size with a deadline", func(t *testing.T) {
		r := &fakeReconciler{}
		job := jobs.NewMarginReconcileJob(r, 50, 0, zap.NewNop())

		job.Run()

		assert.Equal(t, 1, r.Calls())
		assert.Equal(t, 50, r.batchSize)
	})

	t.Run("error is logged not raised", func(t *testing.T) {
		r := &fakeReconciler{err: errors.New("boom")}
		job := jobs.NewMarginReconcileJob(r, 10, time.Second, zap.NewNop())

		assert.NotPanics(t, job.Run)
		assert.Equal(t, 1, r.Calls())
	})
}

func TestRegisterMarginReconcileJob(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	r := &fakeReconciler{done: make(chan struct{})}

	require.NoError(t, jobs.RegisterMarginReconcileJob(s, r, zap.NewNop(), "0 0 3 * * *", 100, true))
	assert.Equal(t, []string{jobs.MarginReconcileJobName}, s.GetJobNames())

	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("startup reconciliation did not run")
	}
	assert.Equal(t, 100, r.batchSize)

	err := jobs.RegisterMarginReconcileJob(s, r, zap.NewNop(), "0 0 3 * * *", 100, false)
	assert.Error(t, err)
}

func TestScheduler_RunsJobs(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	ran := make(chan struct{}, 1)

	require.NoError(t, s.AddJob("tick", "@every 1s", func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	}))
	s.Start()
	defer func() { <-s.Stop().Done() }()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled job did not run")
	}
}
