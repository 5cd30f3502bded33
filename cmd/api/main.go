// Package main provides the entrypoint for the kidwatch API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/kidwatch/kidwatch/internal/api"
	"github.com/kidwatch/kidwatch/internal/api/middleware"
	"github.com/kidwatch/kidwatch/internal/auth"
	"github.com/kidwatch/kidwatch/internal/config"
	"github.com/kidwatch/kidwatch/internal/database"
	"github.com/kidwatch/kidwatch/internal/observability"
	"github.com/kidwatch/kidwatch/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "kidwatch-api"

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
		Str("environment", cfg.Environment).
		Msg("starting kidwatch API")

	ctx := context.Background()

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
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := provider.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown observability")
		}
	}()

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, provider cleanup is best-effort
	}

	// Storage: Postgres when a DSN is configured, in-memory otherwise.
	var (
		authRepo      auth.Repository
		telemetryRepo telemetry.Repository
	)
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
		log.Info().Msg("database connected")

		authRepo = auth.NewPostgresRepository(pool)
		telemetryRepo = telemetry.NewPostgresRepository(pool)
	} else {
		log.Warn().Msg("no database configured, using in-memory storage")
		authMem := auth.NewMemoryRepository()
		telemetryMem := telemetry.NewMemoryRepository()
		if err := seedDevData(ctx, authMem, telemetryMem); err != nil {
			log.Fatal().Err(err).Msg("failed to seed development data")
		}
		authRepo = authMem
		telemetryRepo = telemetryMem
	}

	jwtSigningKey := cfg.Auth.JWTSecret
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key, not secure for production")
	}

	authService := auth.NewService(auth.ServiceConfig{
		Repo:       authRepo,
		JWTService: auth.NewJWTService(auth.JWTConfig{SigningKey: jwtSigningKey}),
		Logger:     log,
	})
	log.Info().Msg("auth service initialized")

	telemetryService := telemetry.NewService(telemetryRepo)
	log.Info().Msg("telemetry service initialized")

	// Reset emails are logged until a mail provider is wired up.
	resetSender := func(email, token string) {
		log.Info().
			Str("email", email).
			Str("reset_token", token).
			Msg("password reset requested")
	}

	router := api.NewRouter(api.RouterConfig{
		Version:          Version,
		Logger:           log,
		Metrics:          metrics,
		AuthService:      authService,
		TelemetryService: telemetryService,
		ResetSender:      resetSender,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
