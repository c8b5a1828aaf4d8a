package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/stepwise/stepwise-api/internal/api/metrics"
	"github.com/stepwise/stepwise-api/internal/core/domain"
)

const cacheTTL = 5 * time.Minute

// DemoCache is a cache-aside store for public demo lookups, keyed by both id
// and slug so either resolution path hits. Only public demos are ever stored;
// private reads always go to postgres.
type DemoCache struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewDemoCache creates a DemoCache wrapping the given Redis client.
func NewDemoCache(client *redis.Client, log zerolog.Logger) *DemoCache {
	return &DemoCache{client: client, log: log}
}

// Get returns the cached demo for an id or slug, if present. Cache errors are
// treated as misses; the store is the source of truth.
func (c *DemoCache) Get(ctx context.Context, idOrSlug string) (*domain.Demo, bool) {
	raw, err := c.client.Get(ctx, key(idOrSlug)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("demo cache read failed")
		}
		metrics.DemoCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var d domain.Demo
	if err := json.Unmarshal(raw, &d); err != nil {
		c.log.Warn().Err(err).Msg("demo cache entry corrupt")
		metrics.DemoCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.DemoCacheTotal.WithLabelValues("hit").Inc()
	return &d, true
}

// Set stores a public demo under both its id and its slug.
func (c *DemoCache) Set(ctx context.Context, d *domain.Demo) {
	if !d.IsPublic {
		return
	}

	raw, err := json.Marshal(d)
	if err != nil {
		return
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, key(d.ID), raw, cacheTTL)
	pipe.Set(ctx, key(d.Slug), raw, cacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn().Err(err).Str("demo_id", d.ID).Msg("demo cache write failed")
	}
}

// Invalidate drops both keys of a demo after any mutation.
func (c *DemoCache) Invalidate(ctx context.Context, d *domain.Demo) {
	if err := c.client.Del(ctx, key(d.ID), key(d.Slug)).Err(); err != nil {
		c.log.Warn().Err(err).Str("demo_id", d.ID).Msg("demo cache invalidation failed")
	}
}

func key(idOrSlug string) string {
	return "demo:" + idOrSlug
}
