package domain

import (
	"github.com/allisson/sessions/internal/errors"
)

// Session authentication errors. All verification failures wrap ErrUnauthorized
// so the HTTP layer maps them to 401 without leaking which check failed.
var (
	// ErrInvalidCredentials indicates a wrong username or password at login.
	// Deliberately does not say which, to prevent user enumeration.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrInvalidToken indicates a malformed, wrongly signed, or expired session token.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid token")

	// ErrInvalidTokenType indicates a token presented on the wrong path, e.g.
	// an access token given to the refresh endpoint.
	ErrInvalidTokenType = errors.Wrap(errors.ErrUnauthorized, "invalid token type")

	// ErrTokenRevoked indicates a cryptographically valid token found in the
	// revocation set.
	ErrTokenRevoked = errors.Wrap(errors.ErrUnauthorized, "token revoked")

	// ErrRefreshTokenExpired indicates the refresh flow was given a token that
	// is revoked or no longer current; the caller must log in again.
	ErrRefreshTokenExpired = errors.Wrap(errors.ErrUnauthorized, "refresh token expired or revoked")

	// ErrRecordNotFound indicates no current token record exists for a username.
	ErrRecordNotFound = errors.Wrap(errors.ErrNotFound, "session record not found")

	// ErrSigningKeyUnavailable indicates token issuance failed because no valid
	// signing key is configured. Surfaces as an internal error, never a 401.
	ErrSigningKeyUnavailable = errors.New("signing key unavailable")
)
