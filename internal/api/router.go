// Package api assembles the HTTP API for the kidwatch backend.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/kidwatch/kidwatch/internal/api/handler"
	"github.com/kidwatch/kidwatch/internal/api/middleware"
	"github.com/kidwatch/kidwatch/internal/auth"
	"github.com/kidwatch/kidwatch/internal/telemetry"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version          string
	Logger           zerolog.Logger
	Metrics          *middleware.Metrics
	AuthService      *auth.Service
	TelemetryService *telemetry.Service
	ResetSender      handler.ResetSender
}

// NewRouter creates the chi router with all API routes configured under
// the /api base path the dashboard expects.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware, order matters.
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing())
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)

	opsHandler := handler.NewOpsHandler(cfg.Version)
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.ResetSender, cfg.Logger)
	deviceHandler := handler.NewDeviceHandler(cfg.TelemetryService, cfg.Logger)
	telemetryHandler := handler.NewTelemetryHandler(cfg.TelemetryService, cfg.Logger)

	authMiddleware := middleware.Auth(cfg.AuthService)
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)
	standardRateLimit := middleware.RateLimitByUser(middleware.StandardRateLimit)

	r.Get("/healthz", opsHandler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit)
			r.Post("/signin", authHandler.SignIn)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)
		})

		// Everything else requires a bearer token.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)

			r.Get("/devices", deviceHandler.List)
			r.Get("/devices/{deviceId}", deviceHandler.Get)

			r.Get("/contacts/device/{deviceId}", telemetryHandler.Contacts)
			r.Get("/calls/device/{deviceId}", telemetryHandler.Calls)
			r.Get("/sms/device/{deviceId}", telemetryHandler.SMS)
			r.Get("/locations/device/{deviceId}", telemetryHandler.Locations)
			r.Get("/applications/device/{deviceId}/active", telemetryHandler.ActiveApplications)
			r.Get("/process-activities/device/{deviceId}/active", telemetryHandler.ActiveProcesses)
			r.Get("/notifications/device/{deviceId}/unread", telemetryHandler.UnreadNotifications)
		})
	})

	return r
}
