package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	feedapp "github.com/sellercentric/backend/internal/application/feed"
)

// Ensure LocalObjectStorage implements ObjectStorageService
var _ feedapp.ObjectStorageService = (*LocalObjectStorage)(nil)

// LocalObjectStorage archives feed payloads on the local filesystem.
// Intended for development and single-node deployments.
type LocalObjectStorage struct {
	baseDir string
}

// NewLocalObjectStorage creates a LocalObjectStorage rooted at baseDir
func NewLocalObjectStorage(baseDir string) (*LocalObjectStorage, error) {
	if baseDir == "" {
		return nil, errors.New("storage base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalObjectStorage{baseDir: baseDir}, nil
}

// resolve maps a storage key onto a path under the base directory,
// rejecting keys that escape it
func (s *LocalObjectStorage) resolve(storageKey string) (string, error) {
	if storageKey == "" {
		return "", errors.New("storage key is required")
	}
	cleaned := filepath.Clean(filepath.FromSlash(storageKey))
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid storage key %q", storageKey)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}

// PutObject stores a payload under the given key
func (s *LocalObjectStorage) PutObject(ctx context.Context, storageKey string, payload []byte, contentType string) error {
	path, err := s.resolve(storageKey)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write object: %w", err)
	}
	return nil
}

// GenerateDownloadURL returns a file URL for the stored object. Local
// URLs do not expire; the returned deadline mirrors the S3 contract.
func (s *LocalObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	path, err := s.resolve(storageKey)
	if err != nil {
		return "", time.Time{}, err
	}
	if _, err := os.Stat(path); err != nil {
		return "", time.Time{}, fmt.Errorf("object not found: %w", err)
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}
	return "file://" + filepath.ToSlash(path), time.Now().Add(expiresIn), nil
}

// ObjectExists checks if an object exists in storage
func (s *LocalObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	path, err := s.resolve(storageKey)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
