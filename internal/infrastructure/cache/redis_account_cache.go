package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sellerdesk/backend/internal/domain/account"
)

const accountCacheKey = "sellerdesk:accounts:active"

// RedisAccountCache implements AccountCache using Redis. The account set is
// stored as one JSON blob; it is small (hundreds of accounts at most) and
// always read whole.
type RedisAccountCache struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisAccountCache creates a Redis-backed account cache and verifies the
// connection
func NewRedisAccountCache(cfg RedisConfig, ttl time.Duration) (*RedisAccountCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if ttl <= 0 {
		ttl = defaultAccountCacheTTL
	}
	return &RedisAccountCache{client: client, ttl: ttl}, nil
}

// NewRedisAccountCacheWithClient creates a cache with an existing client.
// Useful for testing or sharing a client across components.
func NewRedisAccountCacheWithClient(client *redis.Client, ttl time.Duration) *RedisAccountCache {
	if ttl <= 0 {
		ttl = defaultAccountCacheTTL
	}
	return &RedisAccountCache{client: client, ttl: ttl}
}

// GetActiveAccounts returns the cached account set
func (c *RedisAccountCache) GetActiveAccounts(ctx context.Context) ([]account.Account, bool, error) {
	data, err := c.client.Get(ctx, accountCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read account cache: %w", err)
	}

	var accounts []account.Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		// A corrupt entry behaves like a miss; the next Set overwrites it
		return nil, false, nil
	}
	return accounts, true, nil
}

// SetActiveAccounts stores the account set with the configured TTL
func (c *RedisAccountCache) SetActiveAccounts(ctx context.Context, accounts []account.Account) error {
	data, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("failed to marshal account cache: %w", err)
	}
	if err := c.client.Set(ctx, accountCacheKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write account cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached set
func (c *RedisAccountCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, accountCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate account cache: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client
func (c *RedisAccountCache) Close() error {
	return c.client.Close()
}
