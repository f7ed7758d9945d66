package blacklist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	tokenKeyPrefix = "blacklist:token:"
	userKeyPrefix  = "blacklist:user:"
)

// TokenBlacklist manages revoked JWTs in Redis. Tokens are keyed by their jti.
type TokenBlacklist struct {
	redis *redis.Client
	now   func() time.Time
}

// NewTokenBlacklist creates a new token blacklist service
func NewTokenBlacklist(redisClient *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{
		redis: redisClient,
		now:   time.Now,
	}
}

// WithClock replaces the time source used for TTLs and user invalidation markers
func (b *TokenBlacklist) WithClock(now func() time.Time) *TokenBlacklist {
	b.now = now
	return b
}

// Add blacklists a token id for ttl
func (b *TokenBlacklist) Add(ctx context.Context, tokenID string, ttl time.Duration) error {
	err := b.redis.Set(ctx, tokenKeyPrefix+tokenID, "1", ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}

	return nil
}

// AddUntil blacklists a token id for its remaining lifetime. Expired tokens are skipped.
func (b *TokenBlacklist) AddUntil(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(b.now())
	if ttl <= 0 {
		return nil
	}

	return b.Add(ctx, tokenID, ttl)
}

// IsBlacklisted checks if a token id is in the blacklist
func (b *TokenBlacklist) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	exists, err := b.redis.Exists(ctx, tokenKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}

	return exists > 0, nil
}

// BlacklistUser invalidates every token of the user issued before now. The
// marker is stored in Unix milliseconds and expires after ttl, which should
// cover the longest token lifetime.
func (b *TokenBlacklist) BlacklistUser(ctx context.Context, userID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	err := b.redis.Set(ctx, userKeyPrefix+userID, b.now().UnixMilli(), ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to blacklist user: %w", err)
	}
	return nil
}

// IsUserBlacklisted reports whether a token issued at issuedAt predates the
// user's invalidation marker. A token issued in the marker's millisecond is
// still valid, so a login right after a password change keeps working.
func (b *TokenBlacklist) IsUserBlacklisted(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	marker, err := b.redis.Get(ctx, userKeyPrefix+userID).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user blacklist: %w", err)
	}

	return issuedAt.UnixMilli() < marker, nil
}
