package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/kidwatch/kidwatch/internal/api/middleware"
	"github.com/kidwatch/kidwatch/internal/api/response"
	"github.com/kidwatch/kidwatch/internal/telemetry"
)

// TelemetryHandler serves the device-scoped telemetry collections.
type TelemetryHandler struct {
	service *telemetry.Service
	logger  zerolog.Logger
}

// NewTelemetryHandler creates a new telemetry handler.
func NewTelemetryHandler(service *telemetry.Service, logger zerolog.Logger) *TelemetryHandler {
	return &TelemetryHandler{service: service, logger: logger}
}

// Contacts handles GET /contacts/device/{deviceId}.
func (h *TelemetryHandler) Contacts(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromContext(r.Context())
	deviceID := chi.URLParam(r, "deviceId")

	contacts, err := h.service.Contacts(r.Context(), viewer, deviceID)
	if err != nil {
		h.writeError(w, r, err, "could not list contacts")
		return
	}
	if contacts == nil {
		contacts = []*telemetry.Contact{}
	}
	response.JSON(w, r, http.StatusOK, contacts)
}

// Calls handles GET /calls/device/{deviceId}?page=N.
func (h *TelemetryHandler) Calls(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromContext(r.Context())
	deviceID := chi.URLParam(r, "deviceId")

	paged, err := h.service.Calls(r.Context(), viewer, deviceID, pageParam(r))
	if err != nil {
		h.writeError(w, r, err, "could not list calls")
		return
	}
	response.JSON(w, r, http.StatusOK, paged)
}

// SMS handles GET /sms/device/{deviceId}?page=N.
func (h *TelemetryHandler) SMS(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromContext(r.Context())
	deviceID := chi.URLParam(r, "deviceId")

	paged, err := h.service.SMS(r.Context(), viewer, deviceID, pageParam(r))
	if err != nil {
		h.writeError(w, r, err, "could not list sms")
		return
	}
	response.JSON(w, r, http.StatusOK, paged)
}

// Locations handles GET /locations/device/{deviceId}.
func (h *TelemetryHandler) Locations(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromContext(r.Context())
	deviceID := chi.URLParam(r, "deviceId")

	locations, err := h.service.Locations(r.Context(), viewer, deviceID)
	if err != nil {
		h.writeError(w, r, err, "could not list locations")
		return
	}
	if locations == nil {
		locations = []*telemetry.Location{}
	}
	response.JSON(w, r, http.StatusOK, locations)
}

// ActiveApplications handles GET /applications/device/{deviceId}/active.
func (h *TelemetryHandler) ActiveApplications(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromContext(r.Context())
	deviceID := chi.URLParam(r, "deviceId")

	apps, err := h.service.ActiveApplications(r.Context(), viewer, deviceID)
	if err != nil {
		h.writeError(w, r, err, "could not list applications")
		return
	}
	if apps == nil {
		apps = []*telemetry.Application{}
	}
	response.JSON(w, r, http.StatusOK, apps)
}

// ActiveProcesses handles GET /process-activities/device/{deviceId}/active.
func (h *TelemetryHandler) ActiveProcesses(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromContext(r.Context())
	deviceID := chi.URLParam(r, "deviceId")

	procs, err := h.service.ActiveProcesses(r.Context(), viewer, deviceID)
	if err != nil {
		h.writeError(w, r, err, "could not list processes")
		return
	}
	if procs == nil {
		procs = []*telemetry.ProcessActivity{}
	}
	response.JSON(w, r, http.StatusOK, procs)
}

// UnreadNotifications handles GET /notifications/device/{deviceId}/unread.
func (h *TelemetryHandler) UnreadNotifications(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromContext(r.Context())
	deviceID := chi.URLParam(r, "deviceId")

	notes, err := h.service.UnreadNotifications(r.Context(), viewer, deviceID)
	if err != nil {
		h.writeError(w, r, err, "could not list notifications")
		return
	}
	if notes == nil {
		notes = []*telemetry.Notification{}
	}
	response.JSON(w, r, http.StatusOK, notes)
}

func (h *TelemetryHandler) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if errors.Is(err, telemetry.ErrDeviceNotFound) {
		response.NotFound(w, r, "Device not found")
		return
	}
	h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("telemetry query failed")
	response.InternalError(w, r, fallback)
}

// pageParam parses the 1-based page query parameter; absent or malformed
// values read as page 1.
func pageParam(r *http.Request) int {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
