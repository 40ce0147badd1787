package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/seatpredictor-backend/internal/config"
	"github.com/stemsi/seatpredictor-backend/internal/model"
)

// TaxonomyCache keeps the grouped dropdown listing in Redis.
type TaxonomyCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaxonomyCache creates a TaxonomyCache whose entries expire after ttl.
func NewTaxonomyCache(rdb *redis.Client, ttl time.Duration) *TaxonomyCache {
	return &TaxonomyCache{rdb: rdb, ttl: ttl}
}

// GetGroups returns the cached listing. ok is false on a cache miss.
func (c *TaxonomyCache) GetGroups(ctx context.Context) (groups []model.GroupedCategories, ok bool, err error) {
	raw, err := c.rdb.Get(ctx, config.CacheKey.TaxonomyGroupsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get taxonomy: %w", err)
	}
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, false, fmt.Errorf("decode taxonomy: %w", err)
	}
	return groups, true, nil
}

// SetGroups stores the listing.
func (c *TaxonomyCache) SetGroups(ctx context.Context, groups []model.GroupedCategories) error {
	raw, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("encode taxonomy: %w", err)
	}
	return c.rdb.Set(ctx, config.CacheKey.TaxonomyGroupsKey(), raw, c.ttl).Err()
}

// Invalidate drops the cached listing so the next read rebuilds it.
func (c *TaxonomyCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, config.CacheKey.TaxonomyGroupsKey()).Err()
}
