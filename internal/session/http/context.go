// Package http provides HTTP middleware and handlers for session authentication.
package http

import (
	"context"

	"github.com/google/uuid"
)

// AuthMethod identifies which credential path authenticated a request.
type AuthMethod string

const (
	// AuthMethodSession marks a request authenticated via a bearer session token.
	AuthMethodSession AuthMethod = "session"

	// AuthMethodAPIKey marks a request authenticated via a permanent API token.
	AuthMethodAPIKey AuthMethod = "api_key"
)

// Principal is the authenticated identity resolved by the auth gate.
type Principal struct {
	UserID   uuid.UUID
	Username string
	Method   AuthMethod
	// Provider is set only for API-key authentication.
	Provider string
}

// principalKey is a context key type for storing authenticated principals.
type principalKey struct{}

// WithPrincipal stores an authenticated principal in the context.
// This is called by the auth gate after successful credential resolution.
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipal retrieves the authenticated principal from the context.
// Returns (principal, true) if present, or (nil, false) if no principal was set.
func GetPrincipal(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(*Principal)
	return principal, ok
}
