// Package scheduler runs the daily content generation jobs on cron
// schedules: the news curator and the poker puzzle generator.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a named unit of scheduled work.
type Job struct {
	Name     string
	Schedule string // standard 5-field cron spec
	Run      func(context.Context) error
}

// Scheduler wraps a cron runner over the content jobs.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration
}

// New creates a scheduler. Each job run gets its own context bounded by
// timeout.
func New(logger *slog.Logger, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Scheduler{
		cron:    cron.New(),
		logger:  logger,
		timeout: timeout,
	}
}

// Add registers a job. Invalid cron specs are reported immediately so a
// bad config fails at startup, not at first trigger.
func (s *Scheduler) Add(job Job) error {
	if job.Schedule == "" {
		return fmt.Errorf("scheduler: job %s has no schedule", job.Name)
	}
	_, err := s.cron.AddFunc(job.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		started := time.Now()
		s.logger.Info("scheduler: job started", slog.String("job", job.Name))
		if err := job.Run(ctx); err != nil {
			s.logger.Error("scheduler: job failed",
				slog.String("job", job.Name),
				slog.String("error", err.Error()),
				slog.Duration("elapsed", time.Since(started)))
			return
		}
		s.logger.Info("scheduler: job finished",
			slog.String("job", job.Name),
			slog.Duration("elapsed", time.Since(started)))
	})
	if err != nil {
		return fmt.Errorf("scheduler: add %s: %w", job.Name, err)
	}
	return nil
}

// Run starts the cron loop and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	<-ctx.Done()
	stopCtx := s.cron.Stop()
	// Let in-flight jobs finish before returning.
	select {
	case <-stopCtx.Done():
	case <-time.After(s.timeout):
	}
	return nil
}
