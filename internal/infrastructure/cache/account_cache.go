package cache

import (
	"context"

	"github.com/sellerdesk/backend/internal/domain/account"
)

// AccountCache caches the active seller account set used for filename match
// suggestions. Suggestions run on every upload, the account set changes
// rarely; a short TTL keeps the two in step.
type AccountCache interface {
	// GetActiveAccounts returns the cached account set. The second return is
	// false on a miss or expired entry.
	GetActiveAccounts(ctx context.Context) ([]account.Account, bool, error)
	SetActiveAccounts(ctx context.Context, accounts []account.Account) error
	// Invalidate drops the cached set. Called after any account mutation.
	Invalidate(ctx context.Context) error
}
