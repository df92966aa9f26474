package storage

import (
	"context"
	"errors"
	"time"
)

// ErrArchivalDisabled is returned when an archived file is requested but
// archival is switched off in configuration.
var ErrArchivalDisabled = errors.New("file archival is disabled")

// Ensure NoopArchiver implements Archiver
var _ Archiver = (*NoopArchiver)(nil)

// NoopArchiver discards archived files. Used when storage is disabled in
// configuration; imports still run, they just leave no raw-file copy behind.
type NoopArchiver struct{}

// NewNoopArchiver creates a new NoopArchiver
func NewNoopArchiver() *NoopArchiver {
	return &NoopArchiver{}
}

// Archive discards the file and succeeds
func (n *NoopArchiver) Archive(ctx context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	return nil
}

// DownloadURL always fails since nothing was stored
func (n *NoopArchiver) DownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return "", time.Time{}, ErrArchivalDisabled
}

// Exists always reports false
func (n *NoopArchiver) Exists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	return false, nil
}

// Delete is a no-op
func (n *NoopArchiver) Delete(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	return nil
}
