// Package tokenstore defines the shared key/value medium used for session token
// persistence and revocation markers. The store is the coherence point between
// server processes: every instance talks to the same backend, and a completed
// write by one instance is observable by all others. Implementations must not
// memoize lookups in-process, since stale negative or positive caches would make
// a revocation invisible to other instances.
package tokenstore

import (
	"context"
	"time"

	apperrors "github.com/allisson/sessions/internal/errors"
)

// Store errors.
var (
	// ErrKeyNotFound indicates the key does not exist or has expired.
	ErrKeyNotFound = apperrors.Wrap(apperrors.ErrNotFound, "key not found")

	// ErrStoreUnavailable indicates the backend is unreachable or timed out.
	// The condition is retryable; callers apply their own bounded retry policy.
	ErrStoreUnavailable = apperrors.Wrap(apperrors.ErrUnavailable, "token store unavailable")
)

// Store is a durable, shared key/value medium with per-key expiry.
// All operations are synchronous backend round-trips and honor context
// cancellation; implementations bound each call with an operation timeout so a
// slow backend fails the enclosing request instead of hanging it.
type Store interface {
	// Set stores a value under key with the given time-to-live.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns the value stored under key, or ErrKeyNotFound if the key is
	// absent or its TTL has elapsed.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// SetMarker stores a value-less marker under key with the given TTL.
	// Used for revocation entries that must self-expire with the token they
	// refer to. A non-positive TTL is a no-op: the token is already expired,
	// so no marker is needed.
	SetMarker(ctx context.Context, key string, ttl time.Duration) error

	// Exists reports whether key is present and unexpired.
	Exists(ctx context.Context, key string) (bool, error)

	// ScanPrefix returns all keys starting with prefix. Used for user-scoped
	// cleanup; not part of any hot verification path.
	ScanPrefix(ctx context.Context, prefix string) ([]string, error)
}
