// Package domain defines the session token domain model: the per-principal
// token record, signed-token claims, and the session error taxonomy.
package domain

import (
	"time"
)

// TokenType discriminates access tokens from refresh tokens in signed claims.
type TokenType string

const (
	// TokenTypeAccess marks short-lived bearer credentials for individual requests.
	TokenTypeAccess TokenType = "access"

	// TokenTypeRefresh marks longer-lived credentials used only to mint new pairs.
	TokenTypeRefresh TokenType = "refresh"
)

// TokenRecord is the unit stored per authenticated principal. For a given
// username at most one record is authoritative: issuing a new one supersedes
// the prior pair, whose tokens become revoked rather than merely orphaned.
type TokenRecord struct {
	Username         string    `json:"username"`
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	IssuedAt         time.Time `json:"issued_at"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// AccessRemaining returns the remaining validity of the access token at now.
func (r *TokenRecord) AccessRemaining(now time.Time) time.Duration {
	return r.AccessExpiresAt.Sub(now)
}

// RefreshRemaining returns the remaining validity of the refresh token at now.
func (r *TokenRecord) RefreshRemaining(now time.Time) time.Duration {
	return r.RefreshExpiresAt.Sub(now)
}

// Claims are the verified contents of a signed session token.
type Claims struct {
	// Subject is the principal identifier (username).
	Subject string
	// TokenType distinguishes access from refresh tokens.
	TokenType TokenType
	// ExpiresAt is the absolute expiry instant.
	ExpiresAt time.Time
	// IssuedAt is the creation instant.
	IssuedAt time.Time
}
