package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/kidwatch/kidwatch/internal/api/middleware"
	"github.com/kidwatch/kidwatch/internal/api/response"
	"github.com/kidwatch/kidwatch/internal/telemetry"
)

// DeviceHandler serves the device list and single-device lookups.
type DeviceHandler struct {
	service *telemetry.Service
	logger  zerolog.Logger
}

// NewDeviceHandler creates a new device handler.
func NewDeviceHandler(service *telemetry.Service, logger zerolog.Logger) *DeviceHandler {
	return &DeviceHandler{service: service, logger: logger}
}

// List handles GET /devices. Admins get every device; other roles get
// their allowed subset.
func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromContext(r.Context())

	devices, err := h.service.ListDevices(r.Context(), viewer)
	if err != nil {
		h.logger.Error().Err(err).Msg("listing devices")
		response.InternalError(w, r, "could not list devices")
		return
	}
	if devices == nil {
		devices = []*telemetry.Device{}
	}

	response.JSON(w, r, http.StatusOK, devices)
}

// Get handles GET /devices/{deviceId}.
func (h *DeviceHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromContext(r.Context())
	deviceID := chi.URLParam(r, "deviceId")

	device, err := h.service.GetDevice(r.Context(), viewer, deviceID)
	if err != nil {
		if errors.Is(err, telemetry.ErrDeviceNotFound) {
			response.NotFound(w, r, "Device not found")
			return
		}
		h.logger.Error().Err(err).Str("device_id", deviceID).Msg("getting device")
		response.InternalError(w, r, "could not get device")
		return
	}

	response.JSON(w, r, http.StatusOK, device)
}
