// Package apperr defines the error kinds shared by the circle engine and
// their mapping onto HTTP status codes.
package apperr

import (
	"context"
	"errors"
	"net/http"
)

var (
	// ErrNotFound marks an unknown owner or edge reference. Read paths turn
	// this into an empty result instead of failing.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized marks a missing or invalid caller token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden marks an authenticated caller lacking the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict is returned when the store cannot linearize a tier mutation.
	ErrConflict = errors.New("conflict")
	// ErrUpstreamUnavailable marks an unreachable edge store or collaborator.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrInvalidArgument marks a malformed request value.
	ErrInvalidArgument = errors.New("invalid argument")
)

// HTTPStatus maps an error onto the status code the API responds with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUpstreamUnavailable), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
