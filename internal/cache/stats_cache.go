// Package cache keeps computed site statistics in Redis so the stats page
// does not rescan every review on each request.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"moviehub/internal/microservices/http-api/models"
)

const (
	keyPrefix     = "moviehub:stats"
	generationKey = keyPrefix + ":gen"
)

// StatsCache stores SiteStats per genre limit. Entries are keyed by a
// generation number; Invalidate bumps the generation so every older entry
// becomes unreachable and expires on its own TTL.
// A nil *StatsCache is valid and behaves as an always-empty cache.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache connects to the Redis instance at redisURL
// (redis://[:password@]host:port/db).
func NewStatsCache(redisURL string, ttl time.Duration) (*StatsCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewStatsCacheWithClient(rdb, ttl), nil
}

func NewStatsCacheWithClient(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

func (c *StatsCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func statsKey(gen int64, genreLimit int) string {
	return fmt.Sprintf("%s:v%d:genres:%d", keyPrefix, gen, genreLimit)
}

// Get returns the cached stats for genreLimit, or nil on a miss, together
// with the generation that was current. Pass that generation to Set so stats
// computed before a concurrent write are never stored under the new one.
func (c *StatsCache) Get(ctx context.Context, genreLimit int) (*models.SiteStats, int64, error) {
	if c == nil || c.client == nil {
		return nil, 0, nil
	}
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, err
	}

	raw, err := c.client.Get(ctx, statsKey(gen, genreLimit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, nil
	}
	if err != nil {
		return nil, gen, err
	}

	var stats models.SiteStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, gen, fmt.Errorf("decode cached stats: %w", err)
	}
	return &stats, gen, nil
}

func (c *StatsCache) Set(ctx context.Context, gen int64, genreLimit int, stats *models.SiteStats) error {
	if c == nil || c.client == nil || stats == nil {
		return nil
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	return c.client.Set(ctx, statsKey(gen, genreLimit), raw, c.ttl).Err()
}

// Invalidate drops every cached entry by moving to the next generation.
func (c *StatsCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, generationKey).Err()
}

func (c *StatsCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
