// Package service provides session-related services: signed token minting and
// parsing, and Argon2id password hashing for the login collaborator boundary.
package service

import (
	"time"

	sessionDomain "github.com/allisson/sessions/internal/session/domain"
)

// Signer mints and verifies signed session tokens.
type Signer interface {
	// Sign mints a signed token carrying subject=username and the given token
	// type, valid for ttl from now. Returns the token and its expiry instant.
	Sign(username string, tokenType sessionDomain.TokenType, ttl time.Duration) (
		token string, expiresAt time.Time, err error)

	// Parse verifies signature and expiry and returns the decoded claims.
	// Returns ErrInvalidToken for malformed, wrongly signed, or expired tokens.
	Parse(token string) (*sessionDomain.Claims, error)
}

// SecretService hashes and verifies passwords. Verification is constant-time.
type SecretService interface {
	// HashPassword hashes a plain text password for storage.
	HashPassword(plainPassword string) (hashedPassword string, err error)

	// ComparePassword reports whether plainPassword matches hashedPassword.
	ComparePassword(plainPassword string, hashedPassword string) bool
}
