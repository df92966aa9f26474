package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/shared"
)

// Repository defines persistence operations for seller accounts
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	FindByPlatformUsername(ctx context.Context, username string) (*Account, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Account, error)
	Save(ctx context.Context, account *Account) error
	Count(ctx context.Context) (int64, error)
}
