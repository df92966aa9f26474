package bulk

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/order"
)

// FailureCode classifies why a single order in a batch could not be updated
type FailureCode string

const (
	FailureInvalidTransition FailureCode = "INVALID_TRANSITION"
	FailureNotFound          FailureCode = "NOT_FOUND"
	FailureStorage           FailureCode = "STORAGE_ERROR"
)

// ItemFailure records the outcome for one order id that could not be updated
type ItemFailure struct {
	OrderID uuid.UUID   `json:"order_id"`
	Code    FailureCode `json:"code"`
	Reason  string      `json:"reason"`
}

// InvalidTransitionFailure builds the failure entry for a disallowed status change
func InvalidTransitionFailure(orderID uuid.UUID, current, target order.Status) ItemFailure {
	return ItemFailure{
		OrderID: orderID,
		Code:    FailureInvalidTransition,
		Reason:  fmt.Sprintf("cannot transition from %s to %s", current, target),
	}
}

// NotFoundFailure builds the failure entry for an unknown order id
func NotFoundFailure(orderID uuid.UUID) ItemFailure {
	return ItemFailure{
		OrderID: orderID,
		Code:    FailureNotFound,
		Reason:  "order not found",
	}
}

// StorageFailure builds the failure entry for a persistence error on one item
func StorageFailure(orderID uuid.UUID, err error) ItemFailure {
	return ItemFailure{
		OrderID: orderID,
		Code:    FailureStorage,
		Reason:  err.Error(),
	}
}

// OperationResult summarizes one bulk status change request. The batch is
// best-effort per item; the succeeded/failed partition is always total and
// disjoint over the requested ids.
type OperationResult struct {
	RequestedCount int           `json:"requested_count"`
	TargetStatus   order.Status  `json:"target_status"`
	SucceededIDs   []uuid.UUID   `json:"succeeded_ids"`
	Failed         []ItemFailure `json:"failed"`
	AuditID        uuid.UUID     `json:"audit_id"`
}

// NewOperationResult creates an empty result for a batch of the given size
func NewOperationResult(requested int, target order.Status) *OperationResult {
	return &OperationResult{
		RequestedCount: requested,
		TargetStatus:   target,
		SucceededIDs:   make([]uuid.UUID, 0, requested),
		Failed:         make([]ItemFailure, 0),
	}
}

// AddSuccess records a successfully transitioned order
func (r *OperationResult) AddSuccess(orderID uuid.UUID) {
	r.SucceededIDs = append(r.SucceededIDs, orderID)
}

// AddFailure records a per-item failure
func (r *OperationResult) AddFailure(f ItemFailure) {
	r.Failed = append(r.Failed, f)
}

// SucceededCount returns the number of updated orders
func (r *OperationResult) SucceededCount() int {
	return len(r.SucceededIDs)
}

// FailedCount returns the number of orders that could not be updated
func (r *OperationResult) FailedCount() int {
	return len(r.Failed)
}
