// Package storage provides object storage implementations for archiving
// raw import files.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Archiver stores the raw bytes of uploaded import files so a failed or
// disputed import can be re-examined later.
type Archiver interface {
	// Archive stores the file under the given key.
	Archive(ctx context.Context, storageKey string, data []byte, contentType string) error
	// DownloadURL returns a presigned URL for retrieving an archived file.
	DownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	// Exists reports whether an archived file is present.
	Exists(ctx context.Context, storageKey string) (bool, error)
	// Delete removes an archived file.
	Delete(ctx context.Context, storageKey string) error
}

// ArchiveKey builds the storage key for an uploaded file. Keys group files
// by account so retention policies can be applied per seller account.
func ArchiveKey(accountID, uploadID uuid.UUID, fileName string) string {
	return fmt.Sprintf("imports/%s/%s/%s", accountID, uploadID, sanitizeFileName(fileName))
}

// sanitizeFileName strips any path components and characters that are not
// safe in an object key
func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
