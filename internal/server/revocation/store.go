// Package revocation records revoked token identifiers in Redis. Entries
// carry a TTL equal to the remaining lifetime of the revoked token, so the
// store self-prunes and never grows unbounded for expired tokens.
package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Store is the revocation list consumed by the user service.
//
// Implementations must fail closed: if the backing store cannot be reached,
// IsRevoked returns the error and the caller treats the resolution as
// failed. An unreachable revocation store never means "not revoked".
type Store interface {
	Add(ctx context.Context, tokenID string, ttl time.Duration) error
	Claim(ctx context.Context, tokenID string, ttl time.Duration) (bool, error)
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const keyPrefix = "revoked:"

// revokedMarker is the stored value; only key presence matters.
const revokedMarker = "1"

// RedisStore implements Store over a shared go-redis client, which is safe
// for concurrent use by many request handlers.
type RedisStore struct {
	client *goredis.Client
}

func NewRedisStore(client *goredis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisClient dials Redis and verifies the connection with a ping, so a
// misconfigured store surfaces at startup rather than on the first
// revocation check.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// Add marks tokenID revoked for at least ttl. The operation is idempotent;
// re-adding an id refreshes its expiry. A non-positive ttl still writes a
// short-lived entry so a concurrent check on a just-expired token stays
// conservative.
func (s *RedisStore) Add(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if err := s.client.Set(ctx, keyPrefix+tokenID, revokedMarker, ttl).Err(); err != nil {
		return fmt.Errorf("revocation add: %w", err)
	}
	return nil
}

// Claim revokes tokenID and reports whether this caller created the entry.
// A single SETNX makes the check-then-revoke race-free: when several
// callers present the same id concurrently, exactly one sees true. A false
// result means the id was already revoked. The same ttl floor as Add
// applies.
func (s *RedisStore) Claim(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Minute
	}
	ok, err := s.client.SetNX(ctx, keyPrefix+tokenID, revokedMarker, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("revocation claim: %w", err)
	}
	return ok, nil
}

// IsRevoked reports whether tokenID has a live revocation entry. Unknown
// ids are simply not revoked, not an error.
func (s *RedisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := s.client.Get(ctx, keyPrefix+tokenID).Err()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return true, nil
}
