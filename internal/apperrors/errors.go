// Package apperrors defines the failure taxonomy shared by repositories and
// handlers. Repositories wrap these sentinels with context via %w; handlers
// match them with errors.Is and translate to HTTP status codes.
package apperrors

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound means an entity id did not resolve.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the actor lacks permission for the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput means the request payload failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict means a concurrent mutation was detected and the
	// operation gave up after retrying.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable means the backing store could not be reached.
	ErrUnavailable = errors.New("store unavailable")
)

// HTTPStatus maps a core failure to its response code. Unrecognized errors
// map to 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
