// Package usecase implements business logic for permanent API token
// lifecycle: generation, verification, and revocation.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/sessions/internal/apitoken/domain"
)

// APITokenRepository defines the persistence operations for API tokens.
type APITokenRepository interface {
	Create(ctx context.Context, token *domain.APIToken) error
	GetByToken(ctx context.Context, token string) (*domain.APIToken, error)
	GetActiveByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*domain.APIToken, error)
	UpdateState(ctx context.Context, id uuid.UUID, state domain.State) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// UseCase defines the interface for API token business logic operations.
type UseCase interface {
	// Generate issues a new permanent token for (userID, provider). At most one
	// active token per pair: an existing active token yields
	// ErrAPITokenAlreadyExists.
	Generate(ctx context.Context, userID uuid.UUID, provider string) (*domain.APIToken, error)

	// Verify resolves a presented token value. Unknown, revoked, and expired
	// tokens all yield ErrAPITokenRevoked.
	Verify(ctx context.Context, token string) (*domain.APIToken, error)

	// Revoke flips the active token for (userID, provider) to REVOKED.
	Revoke(ctx context.Context, userID uuid.UUID, provider string) error

	// CleanExpired removes tokens past their expiry. Returns the count removed.
	CleanExpired(ctx context.Context) (int64, error)
}
