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

	"advisoriq/internal/config"
	"advisoriq/internal/database"
	"advisoriq/internal/logger"
	"advisoriq/internal/scheduler"
	"advisoriq/internal/server"
	"advisoriq/internal/validator"
)

// @title           AdvisorIQ API
// @version         1.0
// @description     Advisor performance analytics: roster, recommendations, metrics, trends, leaderboards and the operations dashboard.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.InitWithFile(appConfig.Env, logger.FileOptions{Path: appConfig.LogFile})
	defer logger.Sync()
	log := logger.Get()

	validator.Register()

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	svc := server.NewServices(dbManager.DB())
	router := server.NewRouter(appConfig, svc)

	if appConfig.SnapshotSchedule != "" {
		sched := scheduler.New(log)
		if err := sched.AddJob(appConfig.SnapshotSchedule, scheduler.NewSnapshotJob(svc.Snapshots, log)); err != nil {
			return fmt.Errorf("failed to schedule snapshots: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting AdvisorIQ server on port %s", appConfig.Port)
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
