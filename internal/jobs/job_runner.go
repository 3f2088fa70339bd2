package jobs

import (
	"context"
	"time"

	"mobile-detailing-backend/internal/config"
	"mobile-detailing-backend/internal/flow"
	"mobile-detailing-backend/internal/logger"
	"mobile-detailing-backend/internal/service"
)

const jobTimeout = 10 * time.Minute

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
	now      func() time.Time
}

// Services holds all service dependencies needed by jobs.
// Flows is nil when jobs run outside the API process.
type Services struct {
	Booking service.BookingService
	Flows   *flow.Manager
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		services: services,
		config:   cfg,
		now:      time.Now,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// HasFlows reports whether this runner can expire booking flows.
func (jr *JobRunner) HasFlows() bool {
	return jr.services.Flows != nil
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	logger.Info("Starting job", "job", jobName)
	jobFunc(ctx)
	logger.Info("Job completed", "job", jobName, "duration_ms", time.Since(start).Milliseconds())
}

// ExpireIdleFlows drops booking flows nobody has touched within the idle timeout
func (jr *JobRunner) ExpireIdleFlows() {
	jr.runWithRecovery("ExpireIdleFlows", func(ctx context.Context) {
		if jr.services.Flows == nil {
			logger.Warn("No booking flows in this process, skipping")
			return
		}
		removed := jr.services.Flows.ExpireIdle(ctx)
		logger.Info("Idle booking flows expired", "removed", removed, "remaining", jr.services.Flows.Count())
	})
}

// SendBookingReminders emails customers with a confirmed booking tomorrow
func (jr *JobRunner) SendBookingReminders() {
	jr.runWithRecovery("SendBookingReminders", func(ctx context.Context) {
		tomorrow := jr.now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
		sent, err := jr.services.Booking.SendReminders(ctx, tomorrow)
		if err != nil {
			logger.Error("Failed to send booking reminders", "date", tomorrow, "error", err)
			return
		}
		logger.Info("Booking reminders sent", "date", tomorrow, "count", sent)
	})
}

// MarkCompletedBookings marks confirmed bookings dated before today as COMPLETED
func (jr *JobRunner) MarkCompletedBookings() {
	jr.runWithRecovery("MarkCompletedBookings", func(ctx context.Context) {
		today := jr.now().UTC().Format("2006-01-02")
		count, err := jr.services.Booking.MarkCompleted(ctx, today)
		if err != nil {
			logger.Error("Failed to mark completed bookings", "before", today, "error", err)
			return
		}
		logger.Info("Marked bookings as completed", "before", today, "count", count)
	})
}

// RunAllDailyJobs runs all daily booking jobs (for manual execution)
func (jr *JobRunner) RunAllDailyJobs() {
	jr.MarkCompletedBookings()
	jr.SendBookingReminders()
}
