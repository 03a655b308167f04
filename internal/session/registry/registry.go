// Package registry owns the session-token state machine on top of the shared
// token store: persisting records, reading them back, and revoking tokens with
// cross-process visibility.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	apperrors "github.com/allisson/sessions/internal/errors"
	sessionDomain "github.com/allisson/sessions/internal/session/domain"
	"github.com/allisson/sessions/internal/tokenstore"
)

// Store key prefixes. Token records are stored twice: once under the username
// for session lookup, and once per token string for O(1) revocation checks.
const (
	userKeyPrefix    = "session:user:"
	tokenKeyPrefix   = "session:token:"
	revokedKeyPrefix = "revoked:"
)

// Registry persists session token records in the shared store and answers
// revocation queries. Every instance sharing a store backend observes the same
// state: a revocation written here is visible to all other instances as soon
// as the call returns, delegated entirely to the backend's single-key write
// atomicity.
type Registry struct {
	store tokenstore.Store
}

// NewRegistry creates a Registry on the given store.
func NewRegistry(store tokenstore.Store) *Registry {
	return &Registry{store: store}
}

// Persist serializes record into the store under the username key and under
// each token string, with TTLs equal to each credential's remaining lifetime.
// Any prior record for the username is superseded: its tokens are marked
// revoked before the new record is written, so old pairs never stay silently
// valid after a new pair is issued. Prior tokens equal to the incoming
// record's are left untouched, so re-persisting a record never revokes the
// tokens it is installing.
func (r *Registry) Persist(ctx context.Context, record *sessionDomain.TokenRecord) error {
	now := time.Now().UTC()

	// Supersede the prior pair, if any
	if prior, err := r.Read(ctx, record.Username); err == nil {
		if prior.AccessToken != record.AccessToken {
			if err := r.RevokeToken(ctx, prior.AccessToken, prior.AccessRemaining(now)); err != nil {
				return err
			}
		}
		if prior.RefreshToken != record.RefreshToken {
			if err := r.RevokeToken(ctx, prior.RefreshToken, prior.RefreshRemaining(now)); err != nil {
				return err
			}
		}
	} else if !errors.Is(err, sessionDomain.ErrRecordNotFound) {
		return err
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode session record")
	}

	refreshTTL := record.RefreshRemaining(now)
	accessTTL := record.AccessRemaining(now)

	// The user record lives as long as the longest-lived credential
	if err := r.store.Set(ctx, userKey(record.Username), payload, refreshTTL); err != nil {
		return err
	}

	username := []byte(record.Username)
	if err := r.store.Set(ctx, tokenKey(record.AccessToken), username, accessTTL); err != nil {
		return err
	}
	if err := r.store.Set(ctx, tokenKey(record.RefreshToken), username, refreshTTL); err != nil {
		return err
	}

	return nil
}

// Read reconstructs the current TokenRecord for username, or returns
// ErrRecordNotFound if missing or expired.
func (r *Registry) Read(ctx context.Context, username string) (*sessionDomain.TokenRecord, error) {
	payload, err := r.store.Get(ctx, userKey(username))
	if err != nil {
		if errors.Is(err, tokenstore.ErrKeyNotFound) {
			return nil, sessionDomain.ErrRecordNotFound
		}
		return nil, err
	}

	var record sessionDomain.TokenRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode session record")
	}

	return &record, nil
}

// RevokeUser marks the user's current access and refresh tokens as revoked and
// removes the username-keyed record, so a subsequent Read returns absent.
// Idempotent: revoking a user with no current record is a no-op success.
func (r *Registry) RevokeUser(ctx context.Context, username string) error {
	record, err := r.Read(ctx, username)
	if err != nil {
		if errors.Is(err, sessionDomain.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if err := r.revokeRecord(ctx, record, time.Now().UTC()); err != nil {
		return err
	}

	return r.store.Delete(ctx, userKey(username))
}

// RevokeToken marks a single token string as revoked for the given remaining
// lifetime. The marker self-expires with the token's own validity window, so
// revocation entries never accumulate unboundedly.
func (r *Registry) RevokeToken(ctx context.Context, token string, ttl time.Duration) error {
	if err := r.store.SetMarker(ctx, revokedKey(token), ttl); err != nil {
		return err
	}
	return r.store.Delete(ctx, tokenKey(token))
}

// IsTokenRevoked reports whether a revocation marker exists for token.
func (r *Registry) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	return r.store.Exists(ctx, revokedKey(token))
}

// revokeRecord writes revocation markers for both tokens of record and removes
// their reverse-lookup keys. Marker TTLs equal each token's remaining lifetime.
func (r *Registry) revokeRecord(ctx context.Context, record *sessionDomain.TokenRecord, now time.Time) error {
	if err := r.RevokeToken(ctx, record.AccessToken, record.AccessRemaining(now)); err != nil {
		return err
	}
	return r.RevokeToken(ctx, record.RefreshToken, record.RefreshRemaining(now))
}

// userKey derives the store key holding the serialized record for username.
func userKey(username string) string {
	return userKeyPrefix + username
}

// tokenKey derives the reverse-lookup key for a token string.
func tokenKey(token string) string {
	return tokenKeyPrefix + token
}

// revokedKey derives the revocation marker key for a token string.
func revokedKey(token string) string {
	return revokedKeyPrefix + token
}
