package scheduler

import (
	"time"

	"mobile-detailing-backend/internal/jobs"
	"mobile-detailing-backend/internal/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	// Idle flows only exist inside the API process
	if s.jobs.HasFlows() {
		if _, err := s.cron.AddFunc(cfg.ExpireIdleFlows, s.jobs.ExpireIdleFlows); err != nil {
			logger.Error("Failed to register ExpireIdleFlows job", "error", err, "schedule", cfg.ExpireIdleFlows)
		}
	}

	if _, err := s.cron.AddFunc(cfg.SendBookingReminders, s.jobs.SendBookingReminders); err != nil {
		logger.Error("Failed to register SendBookingReminders job", "error", err, "schedule", cfg.SendBookingReminders)
	}

	if _, err := s.cron.AddFunc(cfg.MarkCompletedBookings, s.jobs.MarkCompletedBookings); err != nil {
		logger.Error("Failed to register MarkCompletedBookings job", "error", err, "schedule", cfg.MarkCompletedBookings)
	}

	logger.Info("Cron jobs registered", "count", len(s.cron.Entries()))
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// JobCount returns the number of registered jobs
func (s *Scheduler) JobCount() int {
	return len(s.cron.Entries())
}
