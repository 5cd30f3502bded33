package handler

import (
	"net/http"

	"github.com/kidwatch/kidwatch/internal/api/response"
)

// OpsHandler serves operational probes.
type OpsHandler struct {
	version string
}

// NewOpsHandler creates a new ops handler.
func NewOpsHandler(version string) *OpsHandler {
	return &OpsHandler{version: version}
}

// Health handles GET /healthz.
func (h *OpsHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}
