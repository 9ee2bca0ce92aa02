package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores computed needs-water lists per user.
type Cache interface {
	Get(ctx context.Context, userID string) ([]PlantNeedingWater, bool, error)
	Set(ctx context.Context, userID string, list []PlantNeedingWater) error
	Invalidate(ctx context.Context, userID string) error
}

const (
	cacheKeyPrefix = "lazypig:needs-water:"

	// DefaultCacheTTL replaces non-positive TTLs; redis keeps keys without an
	// expiration forever.
	DefaultCacheTTL = time.Minute
)

// RedisCache keeps lists as JSON strings with a short TTL. The TTL bounds how
// stale the day counts can get between invalidations.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

// DialRedis parses redisURL and verifies the connection.
func DialRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed connecting to redis: %w", err)
	}

	return client, nil
}

func cacheKey(userID string) string {
	return cacheKeyPrefix + userID
}

func (c *RedisCache) Get(ctx context.Context, userID string) ([]PlantNeedingWater, bool, error) {
	val, err := c.client.Get(ctx, cacheKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var list []PlantNeedingWater
	if err := json.Unmarshal([]byte(val), &list); err != nil {
		return nil, false, fmt.Errorf("decode cached list: %w", err)
	}
	if list == nil {
		list = []PlantNeedingWater{}
	}
	return list, true, nil
}

func (c *RedisCache) Set(ctx context.Context, userID string, list []PlantNeedingWater) error {
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(userID), data, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, cacheKey(userID)).Err()
}
