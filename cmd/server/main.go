package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "mobile-detailing-backend/internal/api/http"
	"mobile-detailing-backend/internal/config"
	"mobile-detailing-backend/internal/flow"
	"mobile-detailing-backend/internal/geo"
	"mobile-detailing-backend/internal/jobs"
	"mobile-detailing-backend/internal/logger"
	"mobile-detailing-backend/internal/pricing"
	"mobile-detailing-backend/internal/repository"
	"mobile-detailing-backend/internal/repository/postgres"
	redisstore "mobile-detailing-backend/internal/repository/redis"
	"mobile-detailing-backend/internal/scheduler"
	"mobile-detailing-backend/internal/security"
	"mobile-detailing-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Mobile Detailing Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Pricing configuration", "base_postcode", cfg.Pricing.BasePostcode, "free_radius_miles", cfg.Pricing.FreeRadiusMiles, "per_mile_pence", cfg.Pricing.PerMilePence)

	ctx := context.Background()

	// Initialize Database
	db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Booking flow snapshots, optional
	var snapshots repository.FlowSnapshotRepository
	if cfg.Redis.Enabled {
		client, err := redisstore.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Error("Failed to connect to redis", "error", err, "addr", cfg.Redis.Addr)
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer client.Close()
		snapshots = redisstore.NewFlowSnapshotStore(client)
		logger.Info("Booking flow snapshots stored in redis", "addr", cfg.Redis.Addr)
	} else {
		logger.Info("Booking flows kept in memory only")
	}

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())

	// Pricing and distance
	calculator := pricing.NewCalculator(pricing.Config{
		FreeRadiusMiles: cfg.Pricing.FreeRadiusMiles,
		PerMilePence:    cfg.Pricing.PerMilePence,
	})
	postcodes := geo.NewPostcodesIOClient(cfg.Geocoding.BaseURL, time.Duration(cfg.Geocoding.TimeoutSeconds)*time.Second)
	distance := geo.NewDistanceService(postcodes, cfg.Pricing.BasePostcode)

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName, cfg.Email.AdminEmail)
	catalogSvc := service.NewCatalogService(store.ServiceRepository, store.VehicleSizeRepository, store.TimeSlotRepository)
	pricingSvc := service.NewPricingService(store.ServiceRepository, store.VehicleSizeRepository, distance, calculator)
	bookingSvc := service.NewBookingService(store.BookingRepository, store.CustomerRepository, store.TimeSlotRepository, pricingSvc, emailSvc)
	customerSvc := service.NewCustomerService(store.CustomerRepository)
	authSvc := service.NewAuthService(store.CustomerRepository, tokenManager)

	// The flow prices and books through the same services the API uses
	flows := flow.NewManager(pricingSvc, bookingSvc, snapshots, cfg.FlowIdleTimeout())

	trustedProxies, err := cfg.RateLimit.TrustedProxyPrefixes()
	if err != nil {
		log.Fatalf("Invalid rate limit config: %v", err)
	}

	router := httpapi.NewRouter(httpapi.Dependencies{
		Catalog:           catalogSvc,
		Pricing:           pricingSvc,
		Bookings:          bookingSvc,
		Customers:         customerSvc,
		Auth:              authSvc,
		Flows:             flows,
		Tokens:            tokenManager,
		BookingsPerMinute: cfg.RateLimit.BookingsPerMinute,
		BookingBurst:      cfg.RateLimit.Burst,
		TrustedProxies:    trustedProxies,
	})

	// Scheduled jobs run in-process alongside the API
	var cronScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobRunner := jobs.NewJobRunner(&jobs.Services{Booking: bookingSvc, Flows: flows}, cfg)
		cronScheduler = scheduler.NewScheduler(jobRunner)
		cronScheduler.Start()
	}

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if cronScheduler != nil {
		cronScheduler.Stop()
	}
	logger.Info("Server stopped. Goodbye!")
}
