package signedurl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"careerhub-utils/internal/config"
)

// RedisCache stores entries as JSON with a Redis TTL matching the entry's
// remaining lifetime, so Redis expires them on its own.
type RedisCache struct {
	client    *redis.Client
	namespace string
	now       func() time.Time
}

// NewRedisCache connects using the redis section of cfg
func NewRedisCache(cfg *config.Config) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	if cfg.Redis.Timeout > 0 {
		opts.DialTimeout = cfg.Redis.Timeout
		opts.ReadTimeout = cfg.Redis.Timeout
		opts.WriteTimeout = cfg.Redis.Timeout
	}
	return NewRedisCacheWithClient(redis.NewClient(opts), "careerhub:"), nil
}

// NewRedisCacheWithClient wraps an existing client. namespace is prepended
// to every key.
func NewRedisCacheWithClient(client *redis.Client, namespace string) *RedisCache {
	return &RedisCache{client: client, namespace: namespace, now: time.Now}
}

// UseClock sets the clock TTLs are measured against. A Resolver hands the
// cache its own clock so entry expiry and Redis TTL agree.
func (r *RedisCache) UseClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *RedisCache) Get(ctx context.Context, key string) (Entry, bool, error) {
	raw, err := r.client.Get(ctx, r.namespace+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		// unreadable entries count as misses; the caller overwrites them
		return Entry{}, false, nil
	}
	return e, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, e Entry) error {
	ttl := time.UnixMilli(e.Expiry).Sub(r.now())
	if ttl <= 0 {
		return r.Delete(ctx, key)
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	if err := r.client.Set(ctx, r.namespace+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.namespace+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Ping checks connectivity
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
