package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const consumedPrefix = "consumed:verify_token:"

// Verification tokens without an expiry still age out of the marker set so
// redis does not grow forever.
const consumedDefaultTTL = 30 * 24 * time.Hour

// ConsumedTokens tracks verification tokens that already activated an
// account, keyed by token digest. It backs the optional single-use mode;
// when unused, valid tokens remain replayable and Verify stays idempotent.
type ConsumedTokens struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewConsumedTokens builds the marker store. ttl bounds how long a marker is
// kept; it should cover the token's own lifetime. Zero uses a default.
func NewConsumedTokens(rdb *redis.Client, ttl time.Duration) *ConsumedTokens {
	if ttl <= 0 {
		ttl = consumedDefaultTTL
	}
	return &ConsumedTokens{rdb: rdb, ttl: ttl}
}

// IsConsumed reports whether the token has already been marked used.
func (c *ConsumedTokens) IsConsumed(ctx context.Context, token string) (bool, error) {
	n, err := c.rdb.Exists(ctx, consumedKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("check token consumed: %w", err)
	}
	return n > 0, nil
}

// Consume marks the token as used and reports whether this call was the
// first to do so.
func (c *ConsumedTokens) Consume(ctx context.Context, token string) (bool, error) {
	key := consumedKey(token)
	first, err := c.rdb.SetNX(ctx, key, "used", c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark token consumed: %w", err)
	}
	return first, nil
}

func consumedKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return consumedPrefix + hex.EncodeToString(sum[:])
}
