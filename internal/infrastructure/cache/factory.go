package cache

import (
	"fmt"
	"time"

	"github.com/sellerdesk/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// AccountCacheFactory creates account caches based on configuration
type AccountCacheFactory struct {
	redisConfig           config.RedisConfig
	ttl                   time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// AccountCacheFactoryOption is a functional option for configuring the factory
type AccountCacheFactoryOption func(*AccountCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) AccountCacheFactoryOption {
	return func(f *AccountCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory cache
// when Redis is unavailable. Default is true (allow fallback).
func WithInMemoryFallback(allow bool) AccountCacheFactoryOption {
	return func(f *AccountCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// WithTTL sets the cache entry lifetime
func WithTTL(ttl time.Duration) AccountCacheFactoryOption {
	return func(f *AccountCacheFactory) {
		f.ttl = ttl
	}
}

// NewAccountCacheFactory creates a new factory
func NewAccountCacheFactory(cfg config.RedisConfig, opts ...AccountCacheFactoryOption) *AccountCacheFactory {
	f := &AccountCacheFactory{
		redisConfig:           cfg,
		ttl:                   defaultAccountCacheTTL,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache creates a Redis-backed account cache
func (f *AccountCacheFactory) CreateRedisCache() (AccountCache, error) {
	redisCfg := RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}

	cache, err := NewRedisAccountCache(redisCfg, f.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis account cache: %w", err)
	}

	return cache, nil
}

// CreateInMemoryCache creates an in-memory account cache.
// Suitable for single-instance deployments and testing.
func (f *AccountCacheFactory) CreateInMemoryCache() AccountCache {
	return NewInMemoryAccountCache(WithInMemoryTTL(f.ttl))
}

// CreateCache creates an account cache. When Redis is disabled in config the
// in-memory cache is used directly; otherwise it tries Redis first and falls
// back to in-memory if Redis is unavailable and fallback is allowed.
func (f *AccountCacheFactory) CreateCache() (AccountCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory account cache")
		return f.CreateInMemoryCache(), nil
	}

	cache, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis account cache")
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for account cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory account cache. "+
		"Cached account sets will not be shared across process instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryCache(), nil
}
