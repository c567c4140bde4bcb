package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRejectsInvalidSpec(t *testing.T) {
	s := NewScheduler(time.Second, nil)
	err := s.Schedule("not a cron spec", "analyze", func(context.Context) error { return nil })
	assert.Error(t, err)
	assert.Empty(t, s.Entries())
}

func TestStartWithoutJobs(t *testing.T) {
	s := NewScheduler(time.Second, nil)
	assert.ErrorIs(t, s.Start(context.Background()), ErrNoJobs)
	assert.False(t, s.IsRunning())
}

func TestSchedulerRunsJobs(t *testing.T) {
	s := NewScheduler(time.Second, nil)

	var runs atomic.Int32
	require.NoError(t, s.Schedule("@every 1s", "analyze", func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("generator down")
	}))
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.True(t, s.IsRunning())
	assert.False(t, s.NextRun().IsZero())
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyRunning)
	assert.ErrorIs(t, s.Schedule("@every 1s", "other", func(context.Context) error { return nil }), ErrJobWhileActive)

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestStopCancelsRunningJob(t *testing.T) {
	s := NewScheduler(time.Minute, nil)

	started := make(chan struct{})
	cancelled := make(chan struct{})
	var once sync.Once
	require.NoError(t, s.Schedule("@every 1s", "slow", func(ctx context.Context) error {
		first := false
		once.Do(func() { first = true; close(started) })
		<-ctx.Done()
		if first {
			close(cancelled)
		}
		return ctx.Err()
	}))
	require.NoError(t, s.Start(context.Background()))

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not start")
	}

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.True(t, s.NextRun().IsZero())

	select {
	case <-cancelled:
	default:
		t.Fatal("job context was not cancelled")
	}
}
