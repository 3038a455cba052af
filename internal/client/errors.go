package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable wraps transport-level failures: the request never
	// produced a usable response. Local optimistic state is kept; the
	// caller decides whether to retry or revert.
	ErrUnavailable = errors.New("habit service unreachable")

	// ErrConflict is returned when the server rejects a write that raced
	// with a concurrent change elsewhere.
	ErrConflict = errors.New("habit was changed concurrently")

	// ErrNotFound is returned for habits or activities the server does
	// not know.
	ErrNotFound = errors.New("not found on habit service")

	// ErrDenied is returned when the current user may not touch the
	// habit, e.g. toggling a habit merely shared with them.
	ErrDenied = errors.New("habit service denied the operation")
)

func statusError(op string, code int) error {
	switch code {
	case http.StatusConflict:
		return fmt.Errorf("%s: %w", op, ErrConflict)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case http.StatusForbidden, http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", op, ErrDenied)
	default:
		return fmt.Errorf("%s: unexpected status %d", op, code)
	}
}
