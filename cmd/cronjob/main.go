package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mobile-detailing-backend/internal/config"
	"mobile-detailing-backend/internal/geo"
	"mobile-detailing-backend/internal/jobs"
	"mobile-detailing-backend/internal/logger"
	"mobile-detailing-backend/internal/pricing"
	"mobile-detailing-backend/internal/repository/postgres"
	"mobile-detailing-backend/internal/scheduler"
	"mobile-detailing-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'send-booking-reminders', 'all-daily')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Mobile Detailing Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := postgres.Open(context.Background(), cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName, cfg.Email.AdminEmail)
	calculator := pricing.NewCalculator(pricing.Config{
		FreeRadiusMiles: cfg.Pricing.FreeRadiusMiles,
		PerMilePence:    cfg.Pricing.PerMilePence,
	})
	distance := geo.NewDistanceService(
		geo.NewPostcodesIOClient(cfg.Geocoding.BaseURL, time.Duration(cfg.Geocoding.TimeoutSeconds)*time.Second),
		cfg.Pricing.BasePostcode,
	)
	pricingSvc := service.NewPricingService(store.ServiceRepository, store.VehicleSizeRepository, distance, calculator)
	bookingSvc := service.NewBookingService(store.BookingRepository, store.CustomerRepository, store.TimeSlotRepository, pricingSvc, emailSvc)

	// Initialize Job Runner. Booking flows live in the API process, not here.
	jobRunner := jobs.NewJobRunner(&jobs.Services{Booking: bookingSvc}, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "send-booking-reminders":
		jobRunner.SendBookingReminders()
	case "mark-completed-bookings":
		jobRunner.MarkCompletedBookings()
	case "all-daily":
		jobRunner.RunAllDailyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - send-booking-reminders\n")
		fmt.Printf("  - mark-completed-bookings\n")
		fmt.Printf("  - all-daily\n")
		os.Exit(1)
	}
}
