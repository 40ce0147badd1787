package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/seatpredictor-backend/internal/config"
)

// RefreshTokenStore is a Redis allowlist of refresh token IDs. A refresh
// token is only redeemable while its JTI is present.
type RefreshTokenStore struct {
	rdb *redis.Client
}

// NewRefreshTokenStore creates a RefreshTokenStore.
func NewRefreshTokenStore(rdb *redis.Client) *RefreshTokenStore {
	return &RefreshTokenStore{rdb: rdb}
}

// Register allowlists jti for adminID until ttl elapses.
func (s *RefreshTokenStore) Register(ctx context.Context, jti string, adminID int, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, config.CacheKey.RefreshTokenKey(jti), strconv.Itoa(adminID), ttl).Err(); err != nil {
		return fmt.Errorf("register refresh token: %w", err)
	}
	return nil
}

// Active reports whether jti is still allowlisted.
func (s *RefreshTokenStore) Active(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, config.CacheKey.RefreshTokenKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check refresh token: %w", err)
	}
	return n == 1, nil
}

// Revoke removes jti from the allowlist.
func (s *RefreshTokenStore) Revoke(ctx context.Context, jti string) error {
	return s.rdb.Del(ctx, config.CacheKey.RefreshTokenKey(jti)).Err()
}
