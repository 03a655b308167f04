package app

import (
	"fmt"

	"github.com/allisson/sessions/internal/session/registry"
	sessionService "github.com/allisson/sessions/internal/session/service"
	sessionUseCase "github.com/allisson/sessions/internal/session/usecase"
)

// SecretService returns the password hashing service.
func (c *Container) SecretService() sessionService.SecretService {
	c.secretServiceInit.Do(func() {
		c.secretService = sessionService.NewSecretService()
	})
	return c.secretService
}

// Signer returns the session token signer.
// Fails fast if the signing key is missing or too short: a process that cannot
// sign tokens should not start.
func (c *Container) Signer() (sessionService.Signer, error) {
	var err error
	c.signerInit.Do(func() {
		c.signer, err = sessionService.NewJWTSigner(c.config.JWTSigningKey)
		if err != nil {
			c.initErrors["signer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["signer"]; exists {
		return nil, storedErr
	}
	return c.signer, nil
}

// TokenRegistry returns the session token registry over the shared store.
func (c *Container) TokenRegistry() *registry.Registry {
	c.tokenRegistryInit.Do(func() {
		c.tokenRegistry = registry.NewRegistry(c.TokenStore())
	})
	return c.tokenRegistry
}

// SessionUseCase returns the session use case, wrapped with business metrics
// when metrics are enabled.
func (c *Container) SessionUseCase() (sessionUseCase.SessionUseCase, error) {
	var err error
	c.sessionUCInit.Do(func() {
		c.sessionUC, err = c.initSessionUseCase()
		if err != nil {
			c.initErrors["sessionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionUseCase"]; exists {
		return nil, storedErr
	}
	return c.sessionUC, nil
}

// initSessionUseCase creates the session use case with all its dependencies.
func (c *Container) initSessionUseCase() (sessionUseCase.SessionUseCase, error) {
	signer, err := c.Signer()
	if err != nil {
		return nil, fmt.Errorf("failed to get signer for session use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for session use case: %w", err)
	}

	useCase := sessionUseCase.NewSessionUseCase(
		c.config,
		c.TokenRegistry(),
		userRepo,
		c.SecretService(),
		signer,
	)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for session use case: %w", err)
	}
	if businessMetrics != nil {
		useCase = sessionUseCase.NewSessionUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}
