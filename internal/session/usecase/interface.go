// Package usecase implements business logic orchestration for session token
// lifecycle: login, issuance, rotation, revocation, and verification.
package usecase

import (
	"context"
	"time"

	sessionDomain "github.com/allisson/sessions/internal/session/domain"
	userDomain "github.com/allisson/sessions/internal/user/domain"
)

// TokenRegistry defines the session-token state machine operations backed by
// the shared store. Implementations must guarantee cross-instance coherence:
// once RevokeUser returns, IsTokenRevoked answers true for both tokens from
// any instance sharing the backend.
type TokenRegistry interface {
	// Persist stores record, superseding (and revoking) any prior record for
	// the same username.
	Persist(ctx context.Context, record *sessionDomain.TokenRecord) error

	// Read returns the current record for username, or ErrRecordNotFound.
	Read(ctx context.Context, username string) (*sessionDomain.TokenRecord, error)

	// RevokeUser revokes the user's current pair and removes the record.
	// Idempotent on absent users.
	RevokeUser(ctx context.Context, username string) error

	// RevokeToken marks a single token revoked for its remaining lifetime.
	RevokeToken(ctx context.Context, token string, ttl time.Duration) error

	// IsTokenRevoked reports whether a revocation marker exists for token.
	IsTokenRevoked(ctx context.Context, token string) (bool, error)
}

// UserRepository defines the persistence operations the session flow needs
// from the user collaborator.
type UserRepository interface {
	// GetByUsername retrieves a user by username. Returns ErrUserNotFound if
	// not found.
	GetByUsername(ctx context.Context, username string) (*userDomain.User, error)
}

// SessionUseCase defines the session token lifecycle operations.
type SessionUseCase interface {
	// Login authenticates username/password and issues a fresh token pair.
	// Returns ErrInvalidCredentials for unknown users and wrong passwords
	// alike, to prevent user enumeration.
	Login(ctx context.Context, username string, password string) (*sessionDomain.TokenRecord, error)

	// CreateTokens mints and persists a new access/refresh pair for username.
	// Any prior pair for the username is revoked as part of persistence.
	CreateTokens(ctx context.Context, username string) (*sessionDomain.TokenRecord, error)

	// Refresh validates a refresh token and rotates the pair: the presented
	// pair becomes revoked and a new pair is issued. Returns
	// ErrInvalidTokenType if given an access token, ErrRefreshTokenExpired if
	// the token is revoked or no longer current.
	Refresh(ctx context.Context, refreshToken string) (*sessionDomain.TokenRecord, error)

	// Revoke revokes the user's current pair. Idempotent no-op on absent users.
	Revoke(ctx context.Context, username string) error

	// Verify checks signature, expiry, type, and revocation of an access
	// token, returning the decoded claims only if every check passes.
	Verify(ctx context.Context, token string) (*sessionDomain.Claims, error)
}
