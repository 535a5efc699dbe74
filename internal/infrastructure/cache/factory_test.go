package cache

import (
	"context"
	"testing"
	"time"

	"github.com/ecommerce/product-service/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// unreachableRedis points at a port nothing listens on
func unreachableRedis() config.RedisConfig {
	return config.RedisConfig{
		Enabled:     true,
		Host:        "127.0.0.1",
		Port:        1,
		CategoryTTL: time.Minute,
	}
}

func TestFactory_RedisDisabled(t *testing.T) {
	f := NewCategoryNameCacheFactory(config.RedisConfig{Enabled: false, CategoryTTL: time.Minute})

	c, err := f.CreateCache()
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &InMemoryCategoryNameCache{}, c)
}

func TestFactory_FallsBackToInMemory(t *testing.T) {
	f := NewCategoryNameCacheFactory(unreachableRedis(), WithLogger(zap.NewNop()))

	c, err := f.CreateCache()
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &InMemoryCategoryNameCache{}, c)
}

func TestFactory_FallbackDisabled(t *testing.T) {
	f := NewCategoryNameCacheFactory(unreachableRedis(), WithInMemoryFallback(false))

	c, err := f.CreateCache()

	assert.Nil(t, c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Redis required")
}

func TestRedisCategoryNameCache_ConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisCategoryNameCacheWithClient(client, "", time.Minute)
	defer c.Close()
	ctx := context.Background()

	assert.Equal(t, defaultKeyPrefix+"7", c.key(7))

	_, found, err := c.Get(ctx, 7)
	assert.False(t, found)
	assert.ErrorContains(t, err, "failed to read category name")

	assert.ErrorContains(t, c.Set(ctx, 7, "Tools"), "failed to write category name")
	assert.ErrorContains(t, c.Invalidate(ctx, 7), "failed to invalidate category name")
	assert.Error(t, c.Ping(ctx))
}
