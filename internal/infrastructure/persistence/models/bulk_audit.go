package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/bulk"
	"github.com/sellerdesk/backend/internal/domain/order"
)

// BulkAuditModel is the persistence model for the bulk operation AuditRecord.
// The requested/succeeded/failed partition is stored as a jsonb payload.
type BulkAuditModel struct {
	BaseModel
	Actor          string           `gorm:"type:varchar(100);not null;index"`
	Action         bulk.AuditAction `gorm:"type:varchar(40);not null"`
	TargetStatus   order.Status     `gorm:"type:varchar(20);not null"`
	RequestedCount int              `gorm:"not null;default:0"`
	Payload        string           `gorm:"type:jsonb;default:'{}'"`
	RecordedAt     time.Time        `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (BulkAuditModel) TableName() string {
	return "bulk_audits"
}

type bulkAuditPayload struct {
	RequestedIDs []uuid.UUID        `json:"requested_ids"`
	SucceededIDs []uuid.UUID        `json:"succeeded_ids"`
	Failed       []bulk.ItemFailure `json:"failed"`
}

// ToDomain converts the persistence model to a domain AuditRecord.
func (m *BulkAuditModel) ToDomain() *bulk.AuditRecord {
	record := &bulk.AuditRecord{
		BaseEntity:     m.BaseModel.ToDomain(),
		Actor:          m.Actor,
		Action:         m.Action,
		TargetStatus:   m.TargetStatus,
		RequestedCount: m.RequestedCount,
		RecordedAt:     m.RecordedAt,
	}

	var payload bulkAuditPayload
	if m.Payload != "" {
		if err := json.Unmarshal([]byte(m.Payload), &payload); err == nil {
			record.RequestedIDs = payload.RequestedIDs
			record.SucceededIDs = payload.SucceededIDs
			record.Failed = payload.Failed
		}
	}
	return record
}

// FromDomain populates the persistence model from a domain AuditRecord.
func (m *BulkAuditModel) FromDomain(a *bulk.AuditRecord) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Actor = a.Actor
	m.Action = a.Action
	m.TargetStatus = a.TargetStatus
	m.RequestedCount = a.RequestedCount
	m.RecordedAt = a.RecordedAt

	if payload, err := a.PayloadJSON(); err == nil {
		m.Payload = payload
	} else {
		m.Payload = "{}"
	}
}

// BulkAuditModelFromDomain creates a new persistence model from a domain AuditRecord.
func BulkAuditModelFromDomain(a *bulk.AuditRecord) *BulkAuditModel {
	m := &BulkAuditModel{}
	m.FromDomain(a)
	return m
}
