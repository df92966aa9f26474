package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/shared"
)

// Repository defines persistence operations for orders
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]Order, int64, error)
	// ExistingNumbers returns the subset of the given order numbers that are
	// already stored for the account, in a single batched query.
	ExistingNumbers(ctx context.Context, accountID uuid.UUID, numbers []string) (map[string]struct{}, error)
	// InsertBatch persists new orders. Rows violating the per-account order
	// number uniqueness constraint are skipped and counted, not failed: the
	// constraint is the backstop for concurrent imports of overlapping data.
	InsertBatch(ctx context.Context, orders []*Order) (inserted int, conflicts int, err error)
	GetStatus(ctx context.Context, id uuid.UUID) (Status, error)
	UpdateStatus(ctx context.Context, o *Order) error
}
