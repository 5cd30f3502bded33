// Package response writes the API's JSON response and error bodies. Error
// bodies carry a single message field, which is what the dashboard client
// surfaces to the user.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/kidwatch/kidwatch/internal/api/middleware"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	if requestID := middleware.GetRequestID(r.Context()); requestID != "" {
		w.Header().Set("X-Request-Id", requestID)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Message writes a `{"message": ...}` body with the given status.
func Message(w http.ResponseWriter, r *http.Request, status int, message string) {
	JSON(w, r, status, map[string]string{"message": message})
}

// BadRequest writes a 400 error.
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	Message(w, r, http.StatusBadRequest, message)
}

// Unauthorized writes a 401 error.
func Unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	Message(w, r, http.StatusUnauthorized, message)
}

// NotFound writes a 404 error.
func NotFound(w http.ResponseWriter, r *http.Request, message string) {
	Message(w, r, http.StatusNotFound, message)
}

// InternalError writes a 500 error.
func InternalError(w http.ResponseWriter, r *http.Request, message string) {
	Message(w, r, http.StatusInternalServerError, message)
}
