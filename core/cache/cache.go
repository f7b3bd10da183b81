package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RahulGiri5677/nookly-sub000/core/config"
	"github.com/RahulGiri5677/nookly-sub000/core/constants"
	"github.com/RahulGiri5677/nookly-sub000/core/logger"

	"github.com/redis/go-redis/v9"
)

// Cache is the redis-backed shared cache: auth token blacklist, readiness
// count snapshots, and scan attempt throttling.
type Cache interface {
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error

	GetReadiness(ctx context.Context, key string, dest any) (bool, error)
	SetReadiness(ctx context.Context, key string, value any) error
	InvalidateReadiness(ctx context.Context, key string) error

	IncrementScanAttempts(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error

	Close() error
}

type redisCache struct {
	client *redis.Client
}

func NewCache(cfg config.RedisConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis cache initialized", "addr", cfg.Addr, "db", cfg.DB)
	return &redisCache{client: client}, nil
}

func blacklistKey(token string) string {
	return "auth:blacklist:" + token
}

// ReadinessKey is the cache key for a nook's readiness rollup. Shared by the
// writers that invalidate it and the reader that fills it.
func ReadinessKey(nookID string) string {
	return "readiness:" + nookID
}

// ScanAttemptsKey throttles verification attempts per participant per nook.
func ScanAttemptsKey(nookID, userID string) string {
	return "scan:attempts:" + nookID + ":" + userID
}

func (c *redisCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *redisCache) AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	return c.client.Set(ctx, blacklistKey(token), "1", ttl).Err()
}

func (c *redisCache) GetReadiness(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *redisCache) SetReadiness(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, constants.ReadinessCacheTTL).Err()
}

func (c *redisCache) InvalidateReadiness(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *redisCache) IncrementScanAttempts(ctx context.Context, key string) (int64, error) {
	return c.client.Incr(ctx, key).Result()
}

func (c *redisCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.Expire(ctx, key, ttl).Err()
}

func (c *redisCache) Close() error {
	return c.client.Close()
}
