// Package main provides the entrypoint for the kidwatch telemetry ingest worker.
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

	"github.com/rs/zerolog"

	"github.com/kidwatch/kidwatch/internal/config"
	"github.com/kidwatch/kidwatch/internal/database"
	"github.com/kidwatch/kidwatch/internal/ingest"
	"github.com/kidwatch/kidwatch/internal/observability"
	"github.com/kidwatch/kidwatch/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "kidwatch-worker"

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	log := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting kidwatch worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider, err := observability.Init(ctx, observability.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.Observability.OTLPEndpoint,
		Enabled:        cfg.Observability.Enabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize observability")
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if shutdownErr := provider.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown observability")
		}
	}()

	var repo telemetry.Repository
	if cfg.Postgres.DSN != "" {
		pool, err := database.Connect(ctx, database.Config{
			DSN:             cfg.Postgres.DSN,
			MaxConns:        cfg.Postgres.MaxConns,
			MinConns:        cfg.Postgres.MinConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		repo = telemetry.NewPostgresRepository(pool)
		log.Info().Msg("database connected")
	} else {
		log.Warn().Msg("no database configured, using in-memory storage")
		repo = telemetry.NewMemoryRepository()
	}

	applier := ingest.NewApplier(ingest.ApplierConfig{
		Repository: repo,
		Logger:     log,
	})

	subscriber, err := ingest.NewSubscriber(ctx, ingest.SubscriberConfig{
		ProjectID:        cfg.PubSub.ProjectID,
		SubscriptionName: cfg.PubSub.SubscriptionName,
		Applier:          applier,
		Logger:           log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create subscriber")
	}
	defer func() {
		if closeErr := subscriber.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close subscriber")
		}
	}()

	// Health endpoint for the container platform.
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	healthServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", healthServer.Addr).Msg("health server listening")
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- subscriber.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info().Msg("shutting down worker")
		cancel()
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("subscriber stopped with error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Fatal().Err(err).Msg("subscriber error")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
