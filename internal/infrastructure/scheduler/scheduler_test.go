package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsOnInterval(t *testing.T) {
	var runs atomic.Int32
	s := New("test", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, nil)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return runs.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestScheduler_StartTwice(t *testing.T) {
	s := New("test", time.Minute, func(ctx context.Context) error { return nil }, nil)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.ErrorIs(t, s.Start(), ErrAlreadyRunning)
}

func TestScheduler_InvalidInterval(t *testing.T) {
	s := New("test", 0, func(ctx context.Context) error { return nil }, nil)
	assert.ErrorIs(t, s.Start(), ErrInvalidInterval)
}

func TestScheduler_StopWaitsForRun(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	var finished atomic.Bool

	s := New("test", 5*time.Millisecond, func(ctx context.Context) error {
		started <- struct{}{}
		<-release
		finished.Store(true)
		return nil
	}, nil)

	require.NoError(t, s.Start())
	<-started
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()
	s.Stop()
	assert.True(t, finished.Load())
}

func TestScheduler_StopIdempotent(t *testing.T) {
	s := New("test", time.Minute, func(ctx context.Context) error { return nil }, nil)
	require.NoError(t, s.Start())
	s.Stop()
	s.Stop()
}
