package cache

import (
	"fmt"

	appcatalog "github.com/ecommerce/product-service/internal/application/catalog"
	"github.com/ecommerce/product-service/internal/infrastructure/config"
	"go.uber.org/zap"
)

// CategoryNameCache is a category name cache that owns resources
type CategoryNameCache interface {
	appcatalog.CategoryNameCache
	Close() error
}

// CategoryNameCacheFactory creates category name caches based on configuration
type CategoryNameCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*CategoryNameCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *CategoryNameCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *CategoryNameCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewCategoryNameCacheFactory creates a new factory
func NewCategoryNameCacheFactory(cfg config.RedisConfig, opts ...FactoryOption) *CategoryNameCacheFactory {
	f := &CategoryNameCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache creates a Redis-backed cache
func (f *CategoryNameCacheFactory) CreateRedisCache() (CategoryNameCache, error) {
	c, err := NewRedisCategoryNameCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
		TTL:      f.redisConfig.CategoryTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis category name cache: %w", err)
	}
	return c, nil
}

// CreateInMemoryCache creates a process-local cache.
// Process-local caches are not invalidated by renames in other instances;
// the TTL bounds how long a stale name can be served.
func (f *CategoryNameCacheFactory) CreateInMemoryCache() CategoryNameCache {
	return NewInMemoryCategoryNameCache(f.redisConfig.CategoryTTL)
}

// CreateCache uses Redis when it is enabled and reachable, falling back to
// the in-memory cache otherwise
func (f *CategoryNameCacheFactory) CreateCache() (CategoryNameCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory category name cache")
		return f.CreateInMemoryCache(), nil
	}

	c, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("Using Redis category name cache", zap.String("addr", f.redisConfig.Addr()))
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for category name cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory category name cache",
		zap.String("addr", f.redisConfig.Addr()),
		zap.Error(err),
	)
	return f.CreateInMemoryCache(), nil
}
