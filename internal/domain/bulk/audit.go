package bulk

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/order"
	"github.com/sellerdesk/backend/internal/domain/shared"
)

// AuditAction identifies the kind of bulk operation an audit record covers
type AuditAction string

const (
	AuditActionStatusChange AuditAction = "bulk_status_change"
)

// AuditRecord captures one invocation of a bulk operation: who ran it, what
// was requested and the complete succeeded/failed partition. Exactly one
// record exists per invocation, whether or not any item succeeded.
type AuditRecord struct {
	shared.BaseEntity
	Actor          string
	Action         AuditAction
	TargetStatus   order.Status
	RequestedIDs   []uuid.UUID
	SucceededIDs   []uuid.UUID
	Failed         []ItemFailure
	RequestedCount int
	RecordedAt     time.Time
}

// NewAuditRecord builds the audit record for one bulk status change
func NewAuditRecord(actor string, target order.Status, requested []uuid.UUID, result *OperationResult) (*AuditRecord, error) {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Audit actor cannot be empty")
	}
	if result == nil {
		return nil, shared.NewDomainError("INVALID_RESULT", "Audit result cannot be nil")
	}

	return &AuditRecord{
		BaseEntity:     shared.NewBaseEntity(),
		Actor:          actor,
		Action:         AuditActionStatusChange,
		TargetStatus:   target,
		RequestedIDs:   requested,
		SucceededIDs:   result.SucceededIDs,
		Failed:         result.Failed,
		RequestedCount: len(requested),
		RecordedAt:     time.Now(),
	}, nil
}

// PayloadJSON serializes the partition for persistence
func (a *AuditRecord) PayloadJSON() (string, error) {
	payload := struct {
		RequestedIDs []uuid.UUID   `json:"requested_ids"`
		SucceededIDs []uuid.UUID   `json:"succeeded_ids"`
		Failed       []ItemFailure `json:"failed"`
	}{a.RequestedIDs, a.SucceededIDs, a.Failed}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal audit payload: %w", err)
	}
	return string(data), nil
}

// AuditRepository defines persistence for bulk operation audit records
type AuditRepository interface {
	Save(ctx context.Context, record *AuditRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*AuditRecord, error)
}
