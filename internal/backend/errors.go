package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// Predefined client errors.
var (
	// ErrNoToken is returned when a request is attempted without a stored
	// bearer token. The session is torn down before this is returned.
	ErrNoToken = errors.New("no authentication token")

	// ErrUnauthorized is returned when the backend answers 401. The session
	// is torn down before this is returned.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrBadResponse is returned when a 2xx body does not decode into, or
	// fails the structural check of, the expected payload type.
	ErrBadResponse = errors.New("bad response from backend")
)

// StatusError is returned for non-2xx responses other than 401. The session
// is left intact; the caller may simply retry the operation.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed: %d %s", e.Status, http.StatusText(e.Status))
}

// apiError is the error body the backend sends with non-2xx statuses.
type apiError struct {
	Message string `json:"message"`
}
