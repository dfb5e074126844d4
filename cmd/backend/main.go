// Package main provides the entry point for the LinkPulse tracking service.
//
//	@title			LinkPulse Tracking API
//	@version		1.0.0
//	@description	Tracking-link redirect and click-analytics backend.
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Scope token issued by the auth service. Format: "Bearer {token}"
package main

import (
	"LinkPulse-Backend/internal/analytics"
	"LinkPulse-Backend/internal/auth"
	"LinkPulse-Backend/internal/clicks"
	"LinkPulse-Backend/internal/config"
	"LinkPulse-Backend/internal/database"
	httpHandler "LinkPulse-Backend/internal/handler/http"
	"LinkPulse-Backend/internal/repository/postgres"
	"LinkPulse-Backend/internal/service"
	"LinkPulse-Backend/pkg/logger"
	"LinkPulse-Backend/pkg/useragent"
	"context"
	"fmt"
	lg "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "LinkPulse-Backend/docs" // swagger docs
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)
	defer func() {
		if err := log.Sync(); err != nil {
			lg.Printf("ERROR: failed to sync zap logger: %v\n", err)
		}
	}()

	log.Info("starting LinkPulse tracking service", zap.String("env", cfg.Env))

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, log); err != nil {
			log.Error("failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations if enabled
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db, log); err != nil {
			log.Fatal("failed to run database migrations", zap.Error(err))
		}
	} else {
		log.Info("skipping database migrations (auto_migrate: false)")
	}

	// Initialize storage and services
	storage := postgres.New(db, log)
	linkService := service.NewLinkService(storage, &cfg.Tracking)
	aggregator := analytics.NewAggregator(storage, log)
	tokenService := auth.NewTokenService(&cfg.Auth)
	uaParser := useragent.NewParser(log)

	// Click write pipeline: workers persist clicks off the redirect path.
	processorConfig := clicks.DefaultProcessorConfig()
	processorConfig.WorkerCount = cfg.Clicks.Workers
	processorConfig.BufferSize = cfg.Clicks.BufferSize
	processorConfig.RetryAttempts = cfg.Clicks.RetryAttempts
	processorConfig.RetryDelay = cfg.Clicks.RetryDelay
	processorConfig.WriteTimeout = cfg.Clicks.WriteTimeout
	processor := clicks.NewProcessor(storage, uaParser, log, processorConfig)
	if err := processor.Start(); err != nil {
		log.Fatal("failed to start click processor", zap.Error(err))
	}

	dedup := clicks.NewDeduper(cfg.Clicks.DedupWindow)
	recorder := clicks.NewRecorder(storage, dedup, processor, log)

	// Create HTTP server
	server := httpHandler.NewServer(
		linkService,
		aggregator,
		recorder,
		tokenService,
		dbPinger{db: db},
		processor,
		log,
		cfg.HTTPServer.BaseURL,
		cfg.HTTPServer.FallbackURL,
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPServer.Port),
		Handler:      server.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("starting HTTP server", zap.Int("port", cfg.HTTPServer.Port))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down LinkPulse tracking service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown HTTP server", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	// Drain queued click writes before closing the database.
	if err := processor.Stop(); err != nil {
		log.Error("failed to stop click processor", zap.Error(err))
	}
}

// dbPinger adapts the GORM connection to the health handler.
type dbPinger struct {
	db *gorm.DB
}

func (p dbPinger) Ping() error {
	return database.HealthCheck(p.db)
}
