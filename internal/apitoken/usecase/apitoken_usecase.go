package usecase

import (
	"context"
	"errors"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/allisson/sessions/internal/apitoken/domain"
	"github.com/allisson/sessions/internal/apitoken/service"
	"github.com/allisson/sessions/internal/config"
	"github.com/allisson/sessions/internal/database"
	appValidation "github.com/allisson/sessions/internal/validation"
)

// APITokenUseCase handles permanent API token business logic.
type APITokenUseCase struct {
	config       *config.Config
	txManager    database.TxManager
	tokenRepo    APITokenRepository
	tokenService service.TokenService
}

// NewAPITokenUseCase creates a new APITokenUseCase.
func NewAPITokenUseCase(
	config *config.Config,
	txManager database.TxManager,
	tokenRepo APITokenRepository,
	tokenService service.TokenService,
) UseCase {
	return &APITokenUseCase{
		config:       config,
		txManager:    txManager,
		tokenRepo:    tokenRepo,
		tokenService: tokenService,
	}
}

func validateProvider(provider string) error {
	err := validation.Validate(provider,
		validation.Required.Error("provider is required"),
		appValidation.Provider,
	)
	return appValidation.WrapValidationError(err)
}

// Generate issues a new permanent token for (userID, provider). The lookup and
// insert run inside one transaction so concurrent generates for the same pair
// cannot both succeed.
func (uc *APITokenUseCase) Generate(
	ctx context.Context,
	userID uuid.UUID,
	provider string,
) (*domain.APIToken, error) {
	if err := validateProvider(provider); err != nil {
		return nil, err
	}

	plainToken, err := uc.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	apiToken := &domain.APIToken{
		ID:        uuid.Must(uuid.NewV7()),
		Token:     plainToken,
		UserID:    userID,
		Provider:  provider,
		TokenType: domain.TokenTypePermanent,
		State:     domain.StateActive,
		ExpiresAt: time.Now().UTC().Add(uc.config.APITokenExpiration),
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		_, err := uc.tokenRepo.GetActiveByUserAndProvider(ctx, userID, provider)
		if err == nil {
			return domain.ErrAPITokenAlreadyExists
		}
		if !errors.Is(err, domain.ErrAPITokenNotFound) {
			return err
		}

		return uc.tokenRepo.Create(ctx, apiToken)
	})
	if err != nil {
		return nil, err
	}

	return apiToken, nil
}

// Verify resolves a presented token value by exact match. Revoked state and
// past expiry both reject regardless of each other.
func (uc *APITokenUseCase) Verify(ctx context.Context, token string) (*domain.APIToken, error) {
	apiToken, err := uc.tokenRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrAPITokenNotFound) {
			return nil, domain.ErrAPITokenRevoked
		}
		return nil, err
	}

	if !apiToken.IsActive() {
		return nil, domain.ErrAPITokenRevoked
	}

	return apiToken, nil
}

// Revoke flips the active token for (userID, provider) to REVOKED inside a
// transaction.
func (uc *APITokenUseCase) Revoke(ctx context.Context, userID uuid.UUID, provider string) error {
	if err := validateProvider(provider); err != nil {
		return err
	}

	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		apiToken, err := uc.tokenRepo.GetActiveByUserAndProvider(ctx, userID, provider)
		if err != nil {
			return err
		}

		return uc.tokenRepo.UpdateState(ctx, apiToken.ID, domain.StateRevoked)
	})
}

// CleanExpired removes tokens past their expiry.
func (uc *APITokenUseCase) CleanExpired(ctx context.Context) (int64, error) {
	return uc.tokenRepo.DeleteExpired(ctx)
}
