package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
ConsumedTokens test cases:

1. TestConsumedTokens_FirstUse
   - First consume returns true

2. TestConsumedTokens_Replay
   - Second consume of the same token returns false

3. TestConsumedTokens_DistinctTokens
   - Different tokens do not interfere

4. TestConsumedTokens_MarkerExpires
   - Marker disappears after its TTL, token consumable again

5. TestConsumedTokens_IsConsumed
   - Read-only check flips only after a consume
*/

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestConsumedTokens_FirstUse(t *testing.T) {
	_, rdb := newTestRedis(t)
	c := NewConsumedTokens(rdb, time.Hour)

	first, err := c.Consume(context.Background(), "token-1")
	require.NoError(t, err)
	assert.True(t, first)
}

func TestConsumedTokens_Replay(t *testing.T) {
	_, rdb := newTestRedis(t)
	c := NewConsumedTokens(rdb, time.Hour)

	first, err := c.Consume(context.Background(), "token-1")
	require.NoError(t, err)
	require.True(t, first)

	second, err := c.Consume(context.Background(), "token-1")
	require.NoError(t, err)
	assert.False(t, second)
}

func TestConsumedTokens_DistinctTokens(t *testing.T) {
	_, rdb := newTestRedis(t)
	c := NewConsumedTokens(rdb, time.Hour)

	first, err := c.Consume(context.Background(), "token-1")
	require.NoError(t, err)
	require.True(t, first)

	other, err := c.Consume(context.Background(), "token-2")
	require.NoError(t, err)
	assert.True(t, other)
}

func TestConsumedTokens_MarkerExpires(t *testing.T) {
	mr, rdb := newTestRedis(t)
	c := NewConsumedTokens(rdb, time.Minute)

	first, err := c.Consume(context.Background(), "token-1")
	require.NoError(t, err)
	require.True(t, first)

	mr.FastForward(2 * time.Minute)

	again, err := c.Consume(context.Background(), "token-1")
	require.NoError(t, err)
	assert.True(t, again)
}

func TestConsumedTokens_IsConsumed(t *testing.T) {
	_, rdb := newTestRedis(t)
	c := NewConsumedTokens(rdb, time.Hour)

	used, err := c.IsConsumed(context.Background(), "token-1")
	require.NoError(t, err)
	assert.False(t, used)

	_, err = c.Consume(context.Background(), "token-1")
	require.NoError(t, err)

	used, err = c.IsConsumed(context.Background(), "token-1")
	require.NoError(t, err)
	assert.True(t, used)
}
