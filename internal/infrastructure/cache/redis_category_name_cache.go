package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	appcatalog "github.com/ecommerce/product-service/internal/application/catalog"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "catalog:category:name:"

// RedisCategoryNameCache implements CategoryNameCache using Redis.
// Instances of the service share one cache, so a rename invalidates the
// name for all of them.
type RedisCategoryNameCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisCategoryNameCache connects to Redis and verifies the connection
func NewRedisCategoryNameCache(cfg RedisConfig) (*RedisCategoryNameCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCategoryNameCacheWithClient(client, "", cfg.TTL), nil
}

// NewRedisCategoryNameCacheWithClient creates a cache with an existing Redis client
func NewRedisCategoryNameCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisCategoryNameCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisCategoryNameCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (c *RedisCategoryNameCache) key(id int) string {
	return c.keyPrefix + strconv.Itoa(id)
}

// Get returns the cached name and whether it was found
func (c *RedisCategoryNameCache) Get(ctx context.Context, id int) (string, bool, error) {
	name, err := c.client.Get(ctx, c.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read category name: %w", err)
	}
	return name, true, nil
}

// Set stores the name of a category. A zero TTL keeps it until invalidated.
func (c *RedisCategoryNameCache) Set(ctx context.Context, id int, name string) error {
	if err := c.client.Set(ctx, c.key(id), name, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write category name: %w", err)
	}
	return nil
}

// Invalidate drops the entry of a renamed or deleted category
func (c *RedisCategoryNameCache) Invalidate(ctx context.Context, id int) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate category name: %w", err)
	}
	return nil
}

// Ping checks the Redis connection
func (c *RedisCategoryNameCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (c *RedisCategoryNameCache) Close() error {
	return c.client.Close()
}

// Ensure RedisCategoryNameCache implements CategoryNameCache
var _ appcatalog.CategoryNameCache = (*RedisCategoryNameCache)(nil)
