package session

import (
	"errors"
	"fmt"
	"net/http"
)

// AuthErrorKind classifies a failed login.
type AuthErrorKind int

const (
	// InvalidCredentials means the server rejected the email/password pair.
	InvalidCredentials AuthErrorKind = iota + 1

	// Unavailable means the auth endpoint could not be reached or failed.
	Unavailable

	// MalformedToken means the server answered with a token that does not decode.
	MalformedToken
)

// AuthError is returned by Login. The token store is never modified when it occurs.
type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func (e *AuthError) Error() string {
	switch e.Kind {
	case InvalidCredentials:
		return "invalid email or password"
	case MalformedToken:
		return fmt.Sprintf("server returned a malformed token: %v", e.Err)
	default:
		if e.Err != nil {
			return fmt.Sprintf("auth service unavailable: %v", e.Err)
		}
		return "auth service unavailable"
	}
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// statusCoder is implemented by transport errors carrying an HTTP status.
type statusCoder interface {
	StatusCode() int
}

// classifyAuthError maps an authenticator failure onto an AuthError.
func classifyAuthError(err error) *AuthError {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		switch sc.StatusCode() {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
			return &AuthError{Kind: InvalidCredentials, Err: err}
		}
	}
	return &AuthError{Kind: Unavailable, Err: err}
}
