package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewStore(client), mr
}

func TestRevokeThenIsRevoked(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "absence of an entry means not revoked")

	expiresAt := time.Now().Add(time.Hour)
	require.NoError(t, store.Revoke(ctx, "jti-1", expiresAt))

	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl := mr.TTL("bl:jti-1")
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 2,
		"entry TTL tracks the token's remaining lifetime")
}

func TestRevokeIsIdempotent(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	expiresAt := time.Now().Add(time.Hour)
	require.NoError(t, store.Revoke(ctx, "jti-1", expiresAt))
	require.NoError(t, store.Revoke(ctx, "jti-1", expiresAt))

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl := mr.TTL("bl:jti-1")
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 2)
}

func TestRevokeExpiredTokenIsNoOp(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Now().Add(-time.Minute)))
	require.NoError(t, store.Revoke(ctx, "jti-2", time.Now()))

	assert.False(t, mr.Exists("bl:jti-1"))
	assert.False(t, mr.Exists("bl:jti-2"))
}

func TestRevocationLapsesWithTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))

	mr.FastForward(2 * time.Minute)

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "entry disappears once the token would have expired anyway")
}

func TestStoreUnavailable(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	mr.Close()

	err := store.Revoke(ctx, "jti-1", time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = store.IsRevoked(ctx, "jti-1")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
