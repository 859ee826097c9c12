package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abuabhi/note-genius/internal/api"
	"github.com/abuabhi/note-genius/internal/config"
	"github.com/abuabhi/note-genius/internal/db"
	"github.com/abuabhi/note-genius/internal/logger"
	"github.com/abuabhi/note-genius/internal/repository/sqlite"
	"github.com/abuabhi/note-genius/internal/services"
	"github.com/abuabhi/note-genius/internal/session"
	"github.com/abuabhi/note-genius/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("NoteGenius Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("heartbeat_interval=%s", cfg.HeartbeatInterval)
	log.Debug("warning_after=%s", cfg.WarningAfter)
	log.Debug("timeout_after=%s", cfg.TimeoutAfter)
	log.Debug("sweep_interval=%s", cfg.SweepInterval)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	sessionRepo := sqlite.NewSessionRepository(database.DB)
	reviewRepo := sqlite.NewReviewRepository(database.DB)
	cardRepo := sqlite.NewCardRepository(database.DB)
	userRepo := sqlite.NewUserRepository(database.DB)

	// Services
	userService := services.NewUserService(userRepo)
	cardService := services.NewCardService(cardRepo)
	reviewService := services.NewReviewService(reviewRepo, cardRepo)
	sessionService := services.NewSessionService(sessionRepo)

	// Session trackers
	registry := session.NewRegistry(sessionRepo, session.Options{
		HeartbeatInterval: cfg.HeartbeatInterval,
		WarningAfter:      cfg.WarningAfter,
		TimeoutAfter:      cfg.TimeoutAfter,
		Routes:            session.RoutesFromConfig(cfg.StudyRoutes),
	})

	// Maintenance pool: sweep sessions a crashed tracker left active.
	pool := worker.NewPool(cfg.MaintenanceWorkerCount, cfg.MaintenanceQueueSize)
	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)
	sweep := &worker.SweepSessionsJob{Sessions: sessionRepo, StaleWindow: cfg.TimeoutAfter}
	pool.Submit(sweep)
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pool.Submit(sweep)
			}
		}
	}()

	srv := &api.Server{
		UserService:    userService,
		CardService:    cardService,
		ReviewService:  reviewService,
		SessionService: sessionService,
		Registry:       registry,
		DB:             database,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("closing session trackers")
	registry.Close()

	log.Debug("stopping maintenance pool")
	cancel()
	pool.Stop()

	log.Info("===========================================")
	log.Info("NoteGenius Server Stopped")
	log.Info("===========================================")
}
