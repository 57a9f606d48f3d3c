package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable wraps transport failures against the backing store.
// Callers performing revocation checks must fail closed on it.
var ErrStoreUnavailable = errors.New("revocation store unavailable")

const keyPrefix = "bl:"

// Store is a TTL-backed set of revoked refresh token identifiers.
type Store struct {
	client *redis.Client
}

// NewStore builds a Redis-backed store.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Revoke records jti as revoked until expiresAt. The entry's TTL equals the
// token's remaining lifetime, so the store never outlives the token. Tokens
// already past expiry are not tracked.
func (s *Store) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, keyPrefix+jti, "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// IsRevoked reports whether jti has an active revocation entry. Absence of an
// entry means not revoked.
func (s *Store) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return n == 1, nil
}
