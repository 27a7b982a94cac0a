// Package scheduler runs feed jobs on a fixed interval inside the
// server process, as an alternative to an external cron.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrAlreadyRunning is returned when Start is called twice
	ErrAlreadyRunning = errors.New("scheduler: already running")
	// ErrInvalidInterval is returned for a non-positive interval
	ErrInvalidInterval = errors.New("scheduler: interval must be positive")
)

// Job is one unit of scheduled work.
type Job func(ctx context.Context) error

// Scheduler triggers a job on a fixed interval. A tick is skipped when
// the previous run is still in flight.
type Scheduler struct {
	name     string
	interval time.Duration
	job      Job
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	inFlight  bool
}

// New creates a scheduler for the given job.
func New(name string, interval time.Duration, job Job, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		name:     name,
		interval: interval,
		job:      job,
		logger:   logger.With(zap.String("scheduler", name)),
	}
}

// Start launches the tick loop. The first run happens after one full
// interval.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		return ErrInvalidInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return ErrAlreadyRunning
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("scheduler started", zap.Duration("interval", s.interval))
	return nil
}

// Stop cancels the loop and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		s.logger.Warn("previous run still in flight, skipping tick")
		return
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	runID := uuid.NewString()
	logger := s.logger.With(zap.String("tick_id", runID))
	start := time.Now()

	if err := s.job(ctx); err != nil {
		logger.Error("scheduled run failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return
	}
	logger.Info("scheduled run finished", zap.Duration("elapsed", time.Since(start)))
}
