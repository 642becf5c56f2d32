// Package scheduler runs the periodic background jobs of the engine.
// Currently that is one job: pulling the remote snapshot and folding it
// through the merge engine, so a long-lived process converges even when no
// sessions are being played.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/parlons/parlons-api/internal/service/revision"
)

// Scheduler manages scheduled tasks for the application.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   revision.Service
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a scheduler that reconciles against the remote store every
// interval. A zero interval disables the job entirely.
func New(service revision.Service, interval time.Duration, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		interval:  interval,
		logger:    log.With(slog.String("component", "scheduler")),
	}
}

// Start begins running all scheduled tasks in a non-blocking manner.
func (s *Scheduler) Start() {
	if s.interval <= 0 {
		s.logger.Info("periodic remote reconcile disabled")
		return
	}

	if _, err := s.scheduler.Every(s.interval).Do(s.reconcile); err != nil {
		s.logger.Error("failed to schedule remote reconcile", "error", err)
		return
	}

	s.scheduler.StartAsync()
	s.logger.Info("periodic remote reconcile started", "interval", s.interval)
}

// Stop terminates all scheduled tasks.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := s.service.ReconcileRemote(ctx)
	if err != nil {
		// Non-fatal: local operation continues, the next cycle retries.
		s.logger.Warn("remote reconcile failed", "error", err)
		return
	}

	s.logger.Info("remote reconcile completed",
		"merged", result.Merged,
		"rejected", result.Rejected)
}
