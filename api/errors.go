// ABOUTME: Error taxonomy for remote API calls
// ABOUTME: Distinguishes auth expiry, server rejections, and network failures
package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired means the server rejected our credentials and a refresh
// did not help. The caller must re-authenticate; this never falls back to
// the local cache.
var ErrSessionExpired = errors.New("session expired")

// StatusError is a non-2xx response from the server, carrying the message
// from the response body when one was present.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Code)
}

// IsValidation reports whether the server rejected the request itself.
// Validation failures are surfaced to the caller instead of being queued,
// since replaying them later would fail the same way.
func IsValidation(err error) bool {
	var serr *StatusError
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusConflict:
		return true
	}
	return false
}

// IsNetwork reports whether the request never produced a server verdict:
// connection refused, DNS failure, timeout. These are the errors that make
// the client fall back to the local cache.
func IsNetwork(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrSessionExpired) {
		return false
	}
	var serr *StatusError
	return !errors.As(err, &serr)
}
