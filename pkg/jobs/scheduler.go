package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler enqueues jobs on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler builds a scheduler using standard five-field cron expressions.
func NewScheduler(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{cron: cron.New(), logger: logger}
}

// Every registers a job factory that is pushed onto queue each time spec fires.
// Ticks that find the queue saturated are dropped.
func (s *Scheduler) Every(spec string, queue *Queue, build func() Job) error {
	if queue == nil || build == nil {
		return fmt.Errorf("schedule %q: queue and job builder are required", spec)
	}
	_, err := s.cron.AddFunc(spec, func() {
		job := build()
		if err := queue.TryEnqueue(job); err != nil {
			s.logger.Warn("scheduled job skipped", zap.String("spec", spec), zap.String("type", job.Type), zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}
	return nil
}

// Start runs the scheduler until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("entries", len(s.cron.Entries())))
	go func() {
		<-ctx.Done()
		s.Stop()
	}()
}

// Stop halts the scheduler and waits for running callbacks to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
