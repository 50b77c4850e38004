package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flesk/internal/config"
	"flesk/internal/database"
	"flesk/internal/logger"
	"flesk/internal/notify"
	"flesk/internal/server"

	_ "flesk/internal/docs" // Import swagger docs
)

// @title           Flesk Wallet API
// @version         1.0
// @description     Flesk Wallet tracks transactions, budgets, subscriptions and savings goals, and notifies users when budgets run low or renewals approach.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

const shutdownTimeout = 15 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	db := dbManager.DB()

	publishers, closePublishers, err := server.NewPublishers(appConfig, db)
	if err != nil {
		return err
	}
	defer closePublishers()
	emitter := notify.NewEmitter(db, publishers...)

	sched, err := server.NewScheduler(appConfig, db, emitter)
	if err != nil {
		return fmt.Errorf("failed to build scheduler: %w", err)
	}
	if appConfig.SchedulerEnabled {
		sched.Start()
		defer func() { <-sched.Stop().Done() }()
	} else {
		log.Info("In-process scheduler disabled; jobs run only via the worker or /api/jobs")
	}

	router := server.NewRouter(server.Deps{
		DB:             db,
		Location:       appConfig.SchedulerTimezone,
		Emitter:        emitter,
		Jobs:           sched,
		OpsAPIKey:      appConfig.PipelineAPIKey,
		RequestLogging: true,
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting Flesk Wallet API on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
