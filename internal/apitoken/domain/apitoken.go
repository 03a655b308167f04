// Package domain defines the permanent API token entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TokenType distinguishes ephemeral session credentials from permanent
// third-party API credentials.
type TokenType int

const (
	// TokenTypeSession marks a short-lived session credential.
	TokenTypeSession TokenType = 0

	// TokenTypePermanent marks a long-lived third-party API credential.
	TokenTypePermanent TokenType = 1
)

// State is the lifecycle state of an API token.
type State int

const (
	// StateActive marks a usable token.
	StateActive State = 0

	// StateRevoked marks a token rejected at verification regardless of expiry.
	StateRevoked State = -1
)

// APIToken represents a long-lived credential issued to a user for a specific
// third-party provider. The token value is an opaque random string matched
// exactly at verification; state and expiry are checked on every use.
type APIToken struct {
	ID        uuid.UUID
	Token     string
	UserID    uuid.UUID
	Provider  string
	TokenType TokenType
	State     State
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the token has expired. All time comparisons use UTC.
func (t *APIToken) IsExpired() bool {
	return time.Now().UTC().After(t.ExpiresAt.UTC())
}

// IsActive checks if the token is usable (ACTIVE state and not expired).
func (t *APIToken) IsActive() bool {
	return t.State == StateActive && !t.IsExpired()
}
