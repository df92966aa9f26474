// Package bulkapp implements bulk operations over selected orders.
package bulkapp

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/bulk"
	"github.com/sellerdesk/backend/internal/domain/order"
	"github.com/sellerdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultMaxSelection caps a single bulk request when no limit is configured
const DefaultMaxSelection = 100

// StatusService applies a status transition to a batch of orders. The batch
// is best-effort per item; a batch over the selection cap is rejected whole,
// with nothing persisted and nothing audited.
type StatusService struct {
	orderRepo    order.Repository
	auditRepo    bulk.AuditRepository
	logger       *zap.Logger
	maxSelection int
}

// NewStatusService creates a new StatusService
func NewStatusService(
	orderRepo order.Repository,
	auditRepo bulk.AuditRepository,
	logger *zap.Logger,
	maxSelection int,
) *StatusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxSelection <= 0 {
		maxSelection = DefaultMaxSelection
	}
	return &StatusService{
		orderRepo:    orderRepo,
		auditRepo:    auditRepo,
		logger:       logger,
		maxSelection: maxSelection,
	}
}

// MaxSelection returns the configured batch cap
func (s *StatusService) MaxSelection() int {
	return s.maxSelection
}

// ItemEligibility reports whether one order in a batch could take the target
// status, without changing anything
type ItemEligibility struct {
	OrderID       uuid.UUID    `json:"order_id"`
	CurrentStatus order.Status `json:"current_status,omitempty"`
	Eligible      bool         `json:"eligible"`
	Reason        string       `json:"reason,omitempty"`
}

// Preview checks each order's current status against the transition table
// without persisting anything. It shares Apply's cap so the preview cannot
// promise more than Apply would accept.
func (s *StatusService) Preview(ctx context.Context, orderIDs []uuid.UUID, target order.Status) ([]ItemEligibility, error) {
	if err := s.validateBatch(orderIDs, target); err != nil {
		return nil, err
	}

	out := make([]ItemEligibility, 0, len(orderIDs))
	for _, id := range orderIDs {
		current, err := s.orderRepo.GetStatus(ctx, id)
		if errors.Is(err, shared.ErrNotFound) {
			out = append(out, ItemEligibility{OrderID: id, Eligible: false, Reason: "order not found"})
			continue
		}
		if err != nil {
			return nil, err
		}
		item := ItemEligibility{OrderID: id, CurrentStatus: current}
		if current.CanTransitionTo(target) {
			item.Eligible = true
		} else {
			item.Reason = "cannot transition from " + current.String() + " to " + target.String()
		}
		out = append(out, item)
	}
	return out, nil
}

// Apply transitions every order in the batch to the target status. Items
// fail independently; the returned result partitions the batch completely.
// Exactly one audit record is written per accepted invocation.
func (s *StatusService) Apply(ctx context.Context, actor string, orderIDs []uuid.UUID, target order.Status) (*bulk.OperationResult, error) {
	if strings.TrimSpace(actor) == "" {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Audit actor cannot be empty")
	}
	if err := s.validateBatch(orderIDs, target); err != nil {
		return nil, err
	}

	result := bulk.NewOperationResult(len(orderIDs), target)
	for _, id := range orderIDs {
		s.applyOne(ctx, id, target, result)
	}

	record, err := bulk.NewAuditRecord(actor, target, orderIDs, result)
	if err != nil {
		return nil, err
	}
	if err := s.auditRepo.Save(ctx, record); err != nil {
		// The transitions are already committed; losing the audit row is
		// worth a loud log line, not a misleading failure to the caller
		s.logger.Error("failed to save bulk audit record",
			zap.String("actor", actor),
			zap.String("target_status", target.String()),
			zap.Int("requested", len(orderIDs)),
			zap.Error(err),
		)
	} else {
		result.AuditID = record.ID
	}

	s.logger.Info("bulk status change applied",
		zap.String("actor", actor),
		zap.String("target_status", target.String()),
		zap.Int("requested", len(orderIDs)),
		zap.Int("succeeded", result.SucceededCount()),
		zap.Int("failed", result.FailedCount()),
	)
	return result, nil
}

// GetAudit retrieves the audit record for a past bulk invocation
func (s *StatusService) GetAudit(ctx context.Context, id uuid.UUID) (*bulk.AuditRecord, error) {
	return s.auditRepo.FindByID(ctx, id)
}

// applyOne transitions a single order, recording the outcome on the result
func (s *StatusService) applyOne(ctx context.Context, id uuid.UUID, target order.Status, result *bulk.OperationResult) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		result.AddFailure(bulk.NotFoundFailure(id))
		return
	}
	if err != nil {
		result.AddFailure(bulk.StorageFailure(id, err))
		return
	}

	current := o.Status
	if err := o.Transition(target); err != nil {
		result.AddFailure(bulk.InvalidTransitionFailure(id, current, target))
		return
	}

	if err := s.orderRepo.UpdateStatus(ctx, o); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			result.AddFailure(bulk.NotFoundFailure(id))
		} else {
			result.AddFailure(bulk.StorageFailure(id, err))
		}
		return
	}
	result.AddSuccess(id)
}

// validateBatch enforces the whole-call preconditions shared by Preview and
// Apply. Over-cap batches are rejected atomically.
func (s *StatusService) validateBatch(orderIDs []uuid.UUID, target order.Status) error {
	if len(orderIDs) == 0 {
		return shared.NewDomainError("EMPTY_SELECTION", "No orders selected")
	}
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+target.String())
	}
	if len(orderIDs) > s.maxSelection {
		return shared.ErrSelectionLimit
	}
	return nil
}
