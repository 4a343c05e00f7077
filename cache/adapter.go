package cache

import (
	"context"
	"time"

	"github.com/emberquest/server/cache/local"
	cacheredis "github.com/emberquest/server/cache/redis"
)

// Cache defines the KV and sorted-set operations the server uses
// (session tokens and the gold-earned ranking).
type Cache interface {
	// KV
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// ZSet
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ZScore(ctx context.Context, key, member string) (float64, error)
}

// Config holds configuration for both Redis and LocalCache.
type Config struct {
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	LocalGCInterval time.Duration
}

// New returns a Cache backed by Redis if RedisAddr is set,
// otherwise an in-process LocalCache.
func New(cfg Config) (Cache, error) {
	if cfg.RedisAddr != "" {
		return cacheredis.NewCache(cacheredis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	return local.NewCache(local.Config{
		GCInterval: cfg.LocalGCInterval,
	})
}
