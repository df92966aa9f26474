package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/bulk"
)

// ImportHistoryModel is the persistence model for the ImportHistory domain entity.
type ImportHistoryModel struct {
	BaseModel
	AccountID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	Kind          bulk.ImportKind   `gorm:"type:varchar(20);not null"`
	FileName      string            `gorm:"type:varchar(255);not null"`
	FileSize      int64             `gorm:"not null;default:0"`
	TotalRows     int               `gorm:"not null;default:0"`
	ImportedRows  int               `gorm:"not null;default:0"`
	DuplicateRows int               `gorm:"not null;default:0"`
	SkippedRows   int               `gorm:"not null;default:0"`
	Status        bulk.ImportStatus `gorm:"type:varchar(20);not null;default:'processing';index"`
	ErrorDetails  string            `gorm:"type:jsonb;default:'[]'"`
	StartedAt     time.Time         `gorm:"not null;index"`
	CompletedAt   *time.Time
}

// TableName returns the table name for GORM
func (ImportHistoryModel) TableName() string {
	return "import_histories"
}

// ToDomain converts the persistence model to a domain ImportHistory entity.
func (m *ImportHistoryModel) ToDomain() *bulk.ImportHistory {
	history := &bulk.ImportHistory{
		BaseEntity:    m.BaseModel.ToDomain(),
		AccountID:     m.AccountID,
		Kind:          m.Kind,
		FileName:      m.FileName,
		FileSize:      m.FileSize,
		TotalRows:     m.TotalRows,
		ImportedRows:  m.ImportedRows,
		DuplicateRows: m.DuplicateRows,
		SkippedRows:   m.SkippedRows,
		Status:        m.Status,
		ErrorDetails:  make([]bulk.ImportErrorDetail, 0),
		StartedAt:     m.StartedAt,
		CompletedAt:   m.CompletedAt,
	}

	if m.ErrorDetails != "" {
		var details []bulk.ImportErrorDetail
		if err := json.Unmarshal([]byte(m.ErrorDetails), &details); err == nil && details != nil {
			history.ErrorDetails = details
		}
	}
	return history
}

// FromDomain populates the persistence model from a domain ImportHistory entity.
func (m *ImportHistoryModel) FromDomain(h *bulk.ImportHistory) {
	m.FromDomainBaseEntity(h.BaseEntity)
	m.AccountID = h.AccountID
	m.Kind = h.Kind
	m.FileName = h.FileName
	m.FileSize = h.FileSize
	m.TotalRows = h.TotalRows
	m.ImportedRows = h.ImportedRows
	m.DuplicateRows = h.DuplicateRows
	m.SkippedRows = h.SkippedRows
	m.Status = h.Status
	m.StartedAt = h.StartedAt
	m.CompletedAt = h.CompletedAt

	if detailsJSON, err := h.ErrorDetailsJSON(); err == nil {
		m.ErrorDetails = detailsJSON
	} else {
		m.ErrorDetails = "[]"
	}
}

// ImportHistoryModelFromDomain creates a new persistence model from a domain ImportHistory entity.
func ImportHistoryModelFromDomain(h *bulk.ImportHistory) *ImportHistoryModel {
	m := &ImportHistoryModel{}
	m.FromDomain(h)
	return m
}
