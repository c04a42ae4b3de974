// Package session derives identity and role from the locally stored bearer token.
//
// The token is decoded without signature verification: the claims gate what the
// client shows, while the server stays the authority on every request.
package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNoToken is returned by a TokenStore whose slot is empty.
var ErrNoToken = errors.New("no token stored")

// TokenStore is a slot holding a single opaque bearer token.
// It has no expiry logic of its own. Clear removes all session state and is idempotent.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// MemoryStore is an in-process TokenStore.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}

func (s *MemoryStore) Set(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
