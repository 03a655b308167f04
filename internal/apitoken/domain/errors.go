package domain

import (
	"github.com/allisson/sessions/internal/errors"
)

// Domain-specific errors for API token operations.
var (
	// ErrAPITokenNotFound indicates no token exists for the lookup.
	ErrAPITokenNotFound = errors.Wrap(errors.ErrNotFound, "api token not found")

	// ErrAPITokenAlreadyExists indicates an active token already exists for the
	// (user, provider) pair.
	ErrAPITokenAlreadyExists = errors.Wrap(errors.ErrConflict, "active api token already exists for provider")

	// ErrAPITokenRevoked indicates the presented token is revoked, expired, or
	// unknown. Unknown tokens collapse into this error so verification does not
	// leak whether a credential ever existed.
	ErrAPITokenRevoked = errors.Wrap(errors.ErrUnauthorized, "api token revoked or expired")
)
