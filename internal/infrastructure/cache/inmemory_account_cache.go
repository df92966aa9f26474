package cache

import (
	"context"
	"sync"
	"time"

	"github.com/sellerdesk/backend/internal/domain/account"
)

const defaultAccountCacheTTL = 5 * time.Minute

// InMemoryAccountCache implements AccountCache with process-local storage.
// Suitable for single-instance deployments and tests; a multi-instance
// deployment should use the Redis cache so invalidation is shared.
type InMemoryAccountCache struct {
	mu        sync.RWMutex
	accounts  []account.Account
	expiresAt time.Time
	ttl       time.Duration
}

// InMemoryAccountCacheOption is a functional option for the cache
type InMemoryAccountCacheOption func(*InMemoryAccountCache)

// WithInMemoryTTL sets the entry TTL
func WithInMemoryTTL(ttl time.Duration) InMemoryAccountCacheOption {
	return func(c *InMemoryAccountCache) {
		c.ttl = ttl
	}
}

// NewInMemoryAccountCache creates a new in-memory account cache
func NewInMemoryAccountCache(opts ...InMemoryAccountCacheOption) *InMemoryAccountCache {
	c := &InMemoryAccountCache{ttl: defaultAccountCacheTTL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetActiveAccounts returns the cached account set
func (c *InMemoryAccountCache) GetActiveAccounts(ctx context.Context) ([]account.Account, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.accounts == nil || time.Now().After(c.expiresAt) {
		return nil, false, nil
	}

	accounts := make([]account.Account, len(c.accounts))
	copy(accounts, c.accounts)
	return accounts, true, nil
}

// SetActiveAccounts stores the account set
func (c *InMemoryAccountCache) SetActiveAccounts(ctx context.Context, accounts []account.Account) error {
	stored := make([]account.Account, len(accounts))
	copy(stored, accounts)

	c.mu.Lock()
	c.accounts = stored
	c.expiresAt = time.Now().Add(c.ttl)
	c.mu.Unlock()
	return nil
}

// Invalidate drops the cached set
func (c *InMemoryAccountCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	c.accounts = nil
	c.mu.Unlock()
	return nil
}
