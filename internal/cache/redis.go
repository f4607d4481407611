package cache

import (
	"context"
	"errors"
	"github.com/redis/go-redis/v9"
	"strconv"
	"time"
)

const trackingKeyPrefix = "tracking:"

type RedisTrackingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTrackingCache(addr, password string, db int, ttl time.Duration) *RedisTrackingCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisTrackingCache{client: client, ttl: ttl}
}

func (c *RedisTrackingCache) Get(ctx context.Context, trackingNumber string) (int64, bool, error) {
	v, err := c.client.Get(ctx, trackingKeyPrefix+trackingNumber).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		// unreadable entry; drop it and report a miss
		_ = c.client.Del(ctx, trackingKeyPrefix+trackingNumber).Err()
		return 0, false, nil
	}
	return id, true, nil
}

func (c *RedisTrackingCache) Set(ctx context.Context, trackingNumber string, orderID int64) error {
	return c.client.Set(ctx, trackingKeyPrefix+trackingNumber, orderID, c.ttl).Err()
}

func (c *RedisTrackingCache) Delete(ctx context.Context, trackingNumber string) error {
	return c.client.Del(ctx, trackingKeyPrefix+trackingNumber).Err()
}

func (c *RedisTrackingCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisTrackingCache) Close() error {
	return c.client.Close()
}
