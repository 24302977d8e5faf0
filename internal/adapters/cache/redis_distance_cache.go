package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	distanceKeyPrefix = "distance:estimate:"
	distanceTTL       = 24 * time.Hour
)

// RedisDistanceCache keeps fallback lane-distance estimates stable across
// calls and across processes.
type RedisDistanceCache struct {
	client *redis.Client
}

func NewRedisDistanceCache(client *redis.Client) *RedisDistanceCache {
	return &RedisDistanceCache{client: client}
}

func (c *RedisDistanceCache) Get(ctx context.Context, lane string) (float64, bool, error) {
	if c.client == nil {
		return 0, false, errors.New("distance cache: redis client is nil")
	}
	if lane == "" {
		return 0, false, errors.New("get distance estimate: lane must not be empty")
	}

	v, err := c.client.Get(ctx, distanceKeyPrefix+lane).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get distance estimate: %w", err)
	}

	km, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false, fmt.Errorf("get distance estimate: parse %q: %w", v, err)
	}
	return km, true, nil
}

func (c *RedisDistanceCache) Put(ctx context.Context, lane string, km float64) error {
	if c.client == nil {
		return errors.New("distance cache: redis client is nil")
	}
	if lane == "" {
		return errors.New("put distance estimate: lane must not be empty")
	}
	if km <= 0 {
		return fmt.Errorf("put distance estimate: invalid km %v", km)
	}

	v := strconv.FormatFloat(km, 'f', 3, 64)
	if err := c.client.Set(ctx, distanceKeyPrefix+lane, v, distanceTTL).Err(); err != nil {
		return fmt.Errorf("put distance estimate: %w", err)
	}
	return nil
}
