package app

import (
	"fmt"

	apiTokenService "github.com/allisson/sessions/internal/apitoken/service"
	apiTokenUseCase "github.com/allisson/sessions/internal/apitoken/usecase"
)

// APITokenService returns the opaque credential generator.
func (c *Container) APITokenService() apiTokenService.TokenService {
	c.apiTokenSvcInit.Do(func() {
		c.apiTokenService = apiTokenService.NewTokenService()
	})
	return c.apiTokenService
}

// APITokenRepository returns the API token repository based on database driver.
func (c *Container) APITokenRepository() (apiTokenUseCase.APITokenRepository, error) {
	var err error
	c.apiTokenRepoInit.Do(func() {
		c.apiTokenRepo, err = c.initAPITokenRepository()
		if err != nil {
			c.initErrors["apiTokenRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["apiTokenRepo"]; exists {
		return nil, storedErr
	}
	return c.apiTokenRepo, nil
}

// APITokenUseCase returns the API token use case, wrapped with business
// metrics when metrics are enabled.
func (c *Container) APITokenUseCase() (apiTokenUseCase.UseCase, error) {
	var err error
	c.apiTokenUCInit.Do(func() {
		c.apiTokenUC, err = c.initAPITokenUseCase()
		if err != nil {
			c.initErrors["apiTokenUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["apiTokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.apiTokenUC, nil
}

// initAPITokenUseCase creates the API token use case with all its dependencies.
func (c *Container) initAPITokenUseCase() (apiTokenUseCase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for api token use case: %w", err)
	}

	tokenRepo, err := c.APITokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get api token repository for api token use case: %w", err)
	}

	useCase := apiTokenUseCase.NewAPITokenUseCase(
		c.config,
		txManager,
		tokenRepo,
		c.APITokenService(),
	)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for api token use case: %w", err)
	}
	if businessMetrics != nil {
		useCase = apiTokenUseCase.NewAPITokenUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}
