package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// maxBodyInError bounds how much of a response body an error message repeats.
const maxBodyInError = 200

// TransportError reports a failed request: a non-2xx response (Status set)
// or a network failure (Status 0, Err set).
type TransportError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Body    string
	Err     error
}

func (e *TransportError) Error() string {
	prefix := e.Method + " " + e.Path
	if e.Status == 0 {
		if errors.Is(e.Err, context.DeadlineExceeded) {
			return prefix + ": request timed out"
		}
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	}

	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Sprintf("%s: HTTP %d: token expired or revoked (run: taskdash login)", prefix, e.Status)
	case http.StatusNotFound:
		return fmt.Sprintf("%s: HTTP %d: not found", prefix, e.Status)
	}

	detail := e.Message
	if detail == "" {
		detail = strings.TrimSpace(e.Body)
	}
	if len(detail) > maxBodyInError {
		detail = detail[:maxBodyInError] + "..."
	}
	if detail == "" {
		return fmt.Sprintf("%s: HTTP %d", prefix, e.Status)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", prefix, e.Status, detail)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status, or 0 for network failures.
func (e *TransportError) StatusCode() int {
	return e.Status
}

// IsStatus reports whether err is a TransportError with the given status.
func IsStatus(err error, status int) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Status == status
}

// IsNotFound reports whether err is a 404 TransportError.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}
