package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/allisson/sessions/internal/errors"
)

// markerValue is the payload stored under revocation marker keys. Only the key
// presence matters; the value is fixed.
const markerValue = "1"

// RedisStore implements Store on a shared Redis backend. Redis single-key
// writes are atomic and immediately visible to every connected client, which
// gives the cross-process revocation coherence this package requires without
// any additional locking.
type RedisStore struct {
	client    *redis.Client
	opTimeout time.Duration
}

// NewRedisStore creates a Store backed by the given Redis client.
// opTimeout bounds every backend round-trip; operations that exceed it fail
// with ErrStoreUnavailable.
func NewRedisStore(client *redis.Client, opTimeout time.Duration) *RedisStore {
	return &RedisStore{
		client:    client,
		opTimeout: opTimeout,
	}
}

// Set stores a value under key with the given TTL.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return wrapBackendError(err, "failed to set key")
	}
	return nil
}

// Get returns the value stored under key, or ErrKeyNotFound.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, wrapBackendError(err, "failed to get key")
	}
	return value, nil
}

// Delete removes key. Absent keys are not an error.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return wrapBackendError(err, "failed to delete key")
	}
	return nil
}

// SetMarker stores a value-less marker under key with the given TTL.
// A non-positive TTL is a no-op since the referenced token is already expired.
func (s *RedisStore) SetMarker(ctx context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.client.Set(ctx, key, markerValue, ttl).Err(); err != nil {
		return wrapBackendError(err, "failed to set marker")
	}
	return nil
}

// Exists reports whether key is present and unexpired.
func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	count, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, wrapBackendError(err, "failed to check key")
	}
	return count > 0, nil
}

// ScanPrefix returns all keys starting with prefix using cursor-based SCAN,
// so large keyspaces are never blocked the way KEYS would.
func (s *RedisStore) ScanPrefix(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var keys []string
	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, wrapBackendError(err, "failed to scan keys")
	}
	return keys, nil
}

// bound attaches the per-operation timeout to ctx.
func (s *RedisStore) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

// wrapBackendError converts backend failures to the retryable ErrStoreUnavailable.
func wrapBackendError(err error, message string) error {
	return apperrors.Wrap(ErrStoreUnavailable, fmt.Sprintf("%s: %v", message, err))
}
