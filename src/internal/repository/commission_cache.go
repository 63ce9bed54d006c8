package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"carpool-service/src/pkg/commission"

	"github.com/redis/go-redis/v9"
)

const CommissionRateKey = "COMMISSION:RATE"

type RedisCommissionCache struct {
	Redis redis.UniversalClient
	TTL   time.Duration
}

func NewRedisCommissionCache(client redis.UniversalClient, ttl time.Duration) *RedisCommissionCache {
	return &RedisCommissionCache{
		Redis: client,
		TTL:   ttl,
	}
}

func (c *RedisCommissionCache) Get(ctx context.Context) (commission.Rate, bool, error) {
	value, err := c.Redis.Get(ctx, CommissionRateKey).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get cached commission rate: %w", err)
	}
	ppm, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse cached commission rate: %w", err)
	}
	return commission.Rate(ppm), true, nil
}

func (c *RedisCommissionCache) Set(ctx context.Context, rate commission.Rate) error {
	if err := c.Redis.Set(ctx, CommissionRateKey, strconv.FormatInt(int64(rate), 10), c.TTL).Err(); err != nil {
		return fmt.Errorf("cache commission rate: %w", err)
	}
	return nil
}

// Fill caches a rate read from MySQL unless a value is already cached, so a
// slow reader cannot replace a rate written by an update that finished after
// its query.
func (c *RedisCommissionCache) Fill(ctx context.Context, rate commission.Rate) error {
	if err := c.Redis.SetNX(ctx, CommissionRateKey, strconv.FormatInt(int64(rate), 10), c.TTL).Err(); err != nil {
		return fmt.Errorf("fill commission rate: %w", err)
	}
	return nil
}

func (c *RedisCommissionCache) Invalidate(ctx context.Context) error {
	if err := c.Redis.Del(ctx, CommissionRateKey).Err(); err != nil {
		return fmt.Errorf("invalidate commission rate: %w", err)
	}
	return nil
}
