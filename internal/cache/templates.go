package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/traincore/dashboard-bff/internal/domain"
)

var ErrMiss = errors.New("cache_miss")

// TemplateCache keeps course templates in Redis so assembling a waitlist
// view does not re-fetch the same template once per record. It is strictly
// an optimization: every Redis failure is treated as a miss and the caller
// falls through to the core API.
type TemplateCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTemplateCache returns a cache over rdb; a nil client yields a cache
// that always misses.
func NewTemplateCache(rdb *redis.Client, ttl time.Duration) *TemplateCache {
	return &TemplateCache{rdb: rdb, ttl: ttl}
}

func key(id uuid.UUID) string {
	return "tpl:" + id.String()
}

func (c *TemplateCache) Get(ctx context.Context, id uuid.UUID) (*domain.CourseTemplate, error) {
	if c.rdb == nil {
		return nil, ErrMiss
	}
	raw, err := c.rdb.Get(ctx, key(id)).Bytes()
	if err != nil {
		// redis.Nil and transport errors alike: fall through to the source
		return nil, ErrMiss
	}
	var tpl domain.CourseTemplate
	if err := json.Unmarshal(raw, &tpl); err != nil {
		return nil, ErrMiss
	}
	return &tpl, nil
}

func (c *TemplateCache) Set(ctx context.Context, tpl domain.CourseTemplate) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(tpl)
	if err != nil {
		return
	}
	// best effort; a failed SET only costs a future lookup
	c.rdb.Set(ctx, key(tpl.ID), raw, c.ttl)
}

// Invalidate drops a template after it was updated or deleted.
func (c *TemplateCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, key(id))
}
