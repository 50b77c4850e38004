// Command worker runs the scheduled batch jobs without serving HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"flesk/internal/config"
	"flesk/internal/database"
	"flesk/internal/logger"
	"flesk/internal/notify"
	"flesk/internal/server"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Worker error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	db := dbManager.DB()

	publishers, closePublishers, err := server.NewPublishers(appConfig, db)
	if err != nil {
		return err
	}
	defer closePublishers()

	sched, err := server.NewScheduler(appConfig, db, notify.NewEmitter(db, publishers...))
	if err != nil {
		return fmt.Errorf("failed to build scheduler: %w", err)
	}

	// One-shot mode: worker run <job>
	if len(os.Args) > 2 && os.Args[1] == "run" {
		res, err := sched.RunNow(context.Background(), os.Args[2])
		if err != nil {
			return err
		}
		log.Infow("job finished", "job", res.Job, "processed", res.Processed, "emitted", res.Emitted, "errors", len(res.Errors))
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched.Start()
	for _, e := range sched.Entries() {
		log.Infow("job scheduled", "job", e.Name, "spec", e.Spec, "next", e.Next)
	}

	<-ctx.Done()
	log.Info("Shutting down worker, waiting for running jobs...")
	<-sched.Stop().Done()
	return nil
}
