package bulk

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/shared"
)

// ImportKind represents the kind of marketplace export being imported
type ImportKind string

const (
	ImportKindOrders   ImportKind = "orders"
	ImportKindListings ImportKind = "listings"
)

// IsValid checks if the kind is valid
func (k ImportKind) IsValid() bool {
	switch k {
	case ImportKindOrders, ImportKindListings:
		return true
	}
	return false
}

// ImportStatus represents the status of an import run
type ImportStatus string

const (
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusCompleted  ImportStatus = "completed"
	ImportStatusFailed     ImportStatus = "failed"
)

// IsTerminal returns true if this is a terminal state
func (s ImportStatus) IsTerminal() bool {
	return s == ImportStatusCompleted || s == ImportStatusFailed
}

// ImportErrorDetail records one skipped or rejected row
type ImportErrorDetail struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportHistory is the persisted record of one import run: which account and
// file it covered and how the rows broke down. It outlives the in-memory
// upload session and is the durable audit trail for imports.
type ImportHistory struct {
	shared.BaseEntity
	AccountID     uuid.UUID           `json:"account_id"`
	Kind          ImportKind          `json:"kind"`
	FileName      string              `json:"file_name"`
	FileSize      int64               `json:"file_size"`
	TotalRows     int                 `json:"total_rows"`
	ImportedRows  int                 `json:"imported_rows"`
	DuplicateRows int                 `json:"duplicate_rows"`
	SkippedRows   int                 `json:"skipped_rows"`
	Status        ImportStatus        `json:"status"`
	ErrorDetails  []ImportErrorDetail `json:"error_details,omitempty"`
	StartedAt     time.Time           `json:"started_at"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty"`
}

// NewImportHistory creates a history record for an import that just started
func NewImportHistory(accountID uuid.UUID, kind ImportKind, fileName string, fileSize int64) (*ImportHistory, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_IMPORT_KIND", fmt.Sprintf("Invalid import kind: %s", kind))
	}
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if fileSize < 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size cannot be negative")
	}

	return &ImportHistory{
		BaseEntity:   shared.NewBaseEntity(),
		AccountID:    accountID,
		Kind:         kind,
		FileName:     fileName,
		FileSize:     fileSize,
		Status:       ImportStatusProcessing,
		ErrorDetails: make([]ImportErrorDetail, 0),
		StartedAt:    time.Now(),
	}, nil
}

// Complete marks the run finished with its row breakdown
func (h *ImportHistory) Complete(total, imported, duplicate, skipped int, errors []ImportErrorDetail) error {
	if h.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete from terminal state: %s", h.Status))
	}

	h.Status = ImportStatusCompleted
	h.TotalRows = total
	h.ImportedRows = imported
	h.DuplicateRows = duplicate
	h.SkippedRows = skipped
	h.ErrorDetails = errors
	now := time.Now()
	h.CompletedAt = &now
	h.UpdatedAt = now
	return nil
}

// Fail marks the run failed
func (h *ImportHistory) Fail(errors []ImportErrorDetail) error {
	if h.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail from terminal state: %s", h.Status))
	}

	h.Status = ImportStatusFailed
	h.ErrorDetails = errors
	now := time.Now()
	h.CompletedAt = &now
	h.UpdatedAt = now
	return nil
}

// ErrorDetailsJSON returns the error details as a JSON string
func (h *ImportHistory) ErrorDetailsJSON() (string, error) {
	if len(h.ErrorDetails) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(h.ErrorDetails)
	if err != nil {
		return "", fmt.Errorf("failed to marshal error details: %w", err)
	}
	return string(data), nil
}

// ImportHistoryFilter defines the filters for querying import histories
type ImportHistoryFilter struct {
	AccountID *uuid.UUID
	Kind      *ImportKind
	Status    *ImportStatus
}

// ImportHistoryRepository defines persistence for import history records
type ImportHistoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ImportHistory, error)
	FindAll(ctx context.Context, filter ImportHistoryFilter, page, pageSize int) ([]*ImportHistory, int64, error)
	Save(ctx context.Context, history *ImportHistory) error
}
