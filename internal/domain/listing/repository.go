package listing

import (
	"context"

	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/shared"
)

// Repository defines persistence operations for listings
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]Listing, int64, error)
	// ExistingItemIDs returns the subset of the given item ids that are
	// already stored for the account, in a single batched query.
	ExistingItemIDs(ctx context.Context, accountID uuid.UUID, itemIDs []string) (map[string]struct{}, error)
	// InsertBatch persists new listings, skipping rows that hit the
	// per-account item id uniqueness constraint.
	InsertBatch(ctx context.Context, listings []*Listing) (inserted int, conflicts int, err error)
}
