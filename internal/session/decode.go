package session

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a session token.
// Only sub, role and exp are read; other registered claims are tolerated.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// Session is the identity derived from the current token.
type Session struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// ValidAt reports whether the session has not expired at now.
func (s Session) ValidAt(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// Session projects the claims onto a Session.
func (c Claims) Session() Session {
	s := Session{Subject: c.Subject, Role: c.Role}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s
}

// DecodeError reports a token that is not a parseable claims set.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "malformed token: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

var (
	errMissingExp = errors.New("missing exp claim")
	errMissingSub = errors.New("missing sub claim")
)

// Decode reads the claims of a JWT without verifying its signature.
// A token must carry sub and exp. An exp in the past is not an error; callers
// compare it against their clock.
func Decode(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, &DecodeError{Err: errors.New("empty token")}
	}

	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Claims{}, &DecodeError{Err: err}
	}
	if claims.ExpiresAt == nil {
		return Claims{}, &DecodeError{Err: errMissingExp}
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Claims{}, &DecodeError{Err: errMissingSub}
	}
	return claims, nil
}
