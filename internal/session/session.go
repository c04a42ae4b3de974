package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// Authenticator exchanges credentials for a bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (string, error)
}

// Service answers identity and role queries from the token store
// and performs the login/logout side effects.
type Service struct {
	store TokenStore
	auth  Authenticator
	now   func() time.Time
	log   zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// NewService creates a Service over store. auth may be nil when Login is never called.
func NewService(store TokenStore, auth Authenticator, opts ...Option) *Service {
	s := &Service{
		store: store,
		auth:  auth,
		now:   time.Now,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurrentSession decodes the stored token on every call.
// It returns false when no token is stored, the store cannot be read,
// the token does not decode, or the token has expired.
func (s *Service) CurrentSession(ctx context.Context) (Session, bool) {
	token, err := s.store.Get(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoToken) {
			s.log.Debug().Err(err).Msg("token store read failed")
		}
		return Session{}, false
	}

	claims, err := Decode(token)
	if err != nil {
		s.log.Debug().Err(err).Msg("stored token does not decode")
		return Session{}, false
	}

	sess := claims.Session()
	if !sess.ValidAt(s.now()) {
		return Session{}, false
	}
	return sess, true
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// CurrentRole returns the role of the current session.
func (s *Service) CurrentRole(ctx context.Context) (string, bool) {
	sess, ok := s.CurrentSession(ctx)
	if !ok {
		return "", false
	}
	return sess.Role, true
}

// CurrentSubject returns the subject (email) of the current session.
func (s *Service) CurrentSubject(ctx context.Context) (string, bool) {
	sess, ok := s.CurrentSession(ctx)
	if !ok {
		return "", false
	}
	return sess.Subject, true
}

// HasRole reports whether a current session exists with the given role.
func (s *Service) HasRole(ctx context.Context, role string) bool {
	got, ok := s.CurrentRole(ctx)
	return ok && strings.EqualFold(got, role)
}

// Login authenticates and stores the returned token.
// Failures are *AuthError and leave the store untouched.
func (s *Service) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return &AuthError{Kind: InvalidCredentials, Err: errors.New("email and password required")}
	}
	if s.auth == nil {
		return &AuthError{Kind: Unavailable, Err: errors.New("no authenticator configured")}
	}

	token, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		return classifyAuthError(err)
	}

	claims, err := Decode(token)
	if err != nil {
		return &AuthError{Kind: MalformedToken, Err: err}
	}

	if err := s.store.Set(ctx, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	s.log.Debug().
		Str("subject", claims.Subject).
		Str("role", claims.Role).
		Time("expires", claims.Session().ExpiresAt).
		Msg("logged in")
	return nil
}

// Logout clears all session state. Calling it while logged out is not an error.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.log.Debug().Msg("logged out")
	return nil
}

// NewTokenSource returns an oauth2.TokenSource that reads store on every call,
// so a login or logout elsewhere is picked up by the next request.
func NewTokenSource(store TokenStore) oauth2.TokenSource {
	return &storeTokenSource{store: store}
}

type storeTokenSource struct {
	store TokenStore
}

func (ts *storeTokenSource) Token() (*oauth2.Token, error) {
	raw, err := ts.store.Get(context.Background())
	if err != nil {
		return nil, err
	}

	tok := &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}
	if claims, err := Decode(raw); err == nil {
		tok.Expiry = claims.Session().ExpiresAt
	}
	return tok, nil
}
