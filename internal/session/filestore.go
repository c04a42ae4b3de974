package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"taskdash/internal/config"
)

// FileStore keeps the token in <dir>/token. Clear removes dir entirely.
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore rooted at the session directory dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path() string {
	return filepath.Join(s.dir, config.TokenFile)
}

func (s *FileStore) Get(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Set writes the token atomically with mode 0600.
func (s *FileStore) Set(ctx context.Context, token string) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmpPath := s.path() + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	if err := os.Rename(tmpPath, s.path()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename token: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
