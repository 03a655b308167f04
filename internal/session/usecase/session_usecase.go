package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/allisson/sessions/internal/config"
	sessionDomain "github.com/allisson/sessions/internal/session/domain"
	sessionService "github.com/allisson/sessions/internal/session/service"
	userDomain "github.com/allisson/sessions/internal/user/domain"
)

// sessionUseCase implements SessionUseCase.
type sessionUseCase struct {
	config        *config.Config
	registry      TokenRegistry
	userRepo      UserRepository
	secretService sessionService.SecretService
	signer        sessionService.Signer
}

// NewSessionUseCase creates a SessionUseCase with the provided dependencies.
func NewSessionUseCase(
	config *config.Config,
	registry TokenRegistry,
	userRepo UserRepository,
	secretService sessionService.SecretService,
	signer sessionService.Signer,
) SessionUseCase {
	return &sessionUseCase{
		config:        config,
		registry:      registry,
		userRepo:      userRepo,
		secretService: secretService,
		signer:        signer,
	}
}

// Login authenticates username/password and issues a fresh token pair.
//
// Security Notes:
//   - Returns ErrInvalidCredentials for both unknown users and wrong passwords
//     to prevent user enumeration attacks.
//   - Password comparison is constant-time (Argon2id verify).
func (s *sessionUseCase) Login(
	ctx context.Context,
	username string,
	password string,
) (*sessionDomain.TokenRecord, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		// Unknown user collapses to the generic credential error
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return nil, sessionDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.secretService.ComparePassword(password, user.PasswordHash) {
		return nil, sessionDomain.ErrInvalidCredentials
	}

	return s.CreateTokens(ctx, user.Username)
}

// CreateTokens mints a signed access token (short TTL) and refresh token
// (longer TTL, type=refresh claim) and persists the pair through the registry.
// Persisting supersedes any prior pair for the username: the old tokens are
// revoked, not orphaned.
func (s *sessionUseCase) CreateTokens(
	ctx context.Context,
	username string,
) (*sessionDomain.TokenRecord, error) {
	accessToken, accessExpiresAt, err := s.signer.Sign(
		username,
		sessionDomain.TokenTypeAccess,
		s.config.AccessTokenExpiration,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshExpiresAt, err := s.signer.Sign(
		username,
		sessionDomain.TokenTypeRefresh,
		s.config.RefreshTokenExpiration,
	)
	if err != nil {
		return nil, err
	}

	record := &sessionDomain.TokenRecord{
		Username:         username,
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		IssuedAt:         time.Now().UTC(),
		AccessExpiresAt:  accessExpiresAt,
		RefreshExpiresAt: refreshExpiresAt,
	}

	if err := s.registry.Persist(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// Refresh validates a refresh token and rotates the pair.
//
// This method:
//  1. Verifies signature and expiry (ErrInvalidToken on failure)
//  2. Rejects tokens whose type claim is not refresh (ErrInvalidTokenType)
//  3. Rejects tokens found in the revocation set (ErrRefreshTokenExpired)
//  4. Rejects tokens that are no longer the user's current refresh token,
//     i.e. the pair was rotated or the user logged out elsewhere
//     (ErrRefreshTokenExpired)
//  5. Issues a new pair; persistence revokes the presented pair
//
// The read-then-rotate sequence is not atomic: two concurrent refreshes with
// the same still-valid token may both succeed and issue two valid pairs. Both
// pairs remain revocable as a unit through Revoke, which bounds the exposure.
func (s *sessionUseCase) Refresh(
	ctx context.Context,
	refreshToken string,
) (*sessionDomain.TokenRecord, error) {
	claims, err := s.signer.Parse(refreshToken)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != sessionDomain.TokenTypeRefresh {
		return nil, sessionDomain.ErrInvalidTokenType
	}

	revoked, err := s.registry.IsTokenRevoked(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, sessionDomain.ErrRefreshTokenExpired
	}

	record, err := s.registry.Read(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, sessionDomain.ErrRecordNotFound) {
			return nil, sessionDomain.ErrRefreshTokenExpired
		}
		return nil, err
	}
	if record.RefreshToken != refreshToken {
		return nil, sessionDomain.ErrRefreshTokenExpired
	}

	return s.CreateTokens(ctx, claims.Subject)
}

// Revoke revokes the user's current token pair. Revoking an absent or
// already-revoked user is a no-op success.
func (s *sessionUseCase) Revoke(ctx context.Context, username string) error {
	return s.registry.RevokeUser(ctx, username)
}

// Verify checks an access token and returns its claims.
//
// Checks run in fail-fast order: cryptographic and temporal validity first
// (no store round-trip for garbage tokens), then token type, then revocation.
func (s *sessionUseCase) Verify(
	ctx context.Context,
	token string,
) (*sessionDomain.Claims, error) {
	claims, err := s.signer.Parse(token)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != sessionDomain.TokenTypeAccess {
		return nil, sessionDomain.ErrInvalidTokenType
	}

	revoked, err := s.registry.IsTokenRevoked(ctx, token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, sessionDomain.ErrTokenRevoked
	}

	return claims, nil
}
