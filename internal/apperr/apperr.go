// Package apperr defines the error taxonomy shared by the services and
// the HTTP layer. Services wrap these sentinels with context; handlers
// translate them into status codes with Status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthenticated is returned when no valid identity is present.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden is returned when the caller is authenticated but not
	// allowed to act on the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when a room, message or user is absent.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned for malformed input (empty message body,
	// missing required field, self-chat attempt).
	ErrValidation = errors.New("validation failed")

	// ErrTransient is returned when the store or the realtime bus is
	// temporarily unavailable.
	ErrTransient = errors.New("temporarily unavailable")
)

// Validation wraps ErrValidation with a caller-facing message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound wraps ErrNotFound with the missing resource's name.
func NotFound(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// Forbidden wraps ErrForbidden with a caller-facing message.
func Forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

// Status maps an error to the HTTP status code it should surface as.
// Unrecognized errors map to 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTransient):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
