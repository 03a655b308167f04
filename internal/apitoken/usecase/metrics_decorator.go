package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/sessions/internal/apitoken/domain"
	"github.com/allisson/sessions/internal/metrics"
)

// apiTokenUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type apiTokenUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewAPITokenUseCaseWithMetrics wraps an API token UseCase with metrics recording.
func NewAPITokenUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &apiTokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record emits operation count and duration with success/error status.
func (a *apiTokenUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "apitoken", operation, status)
	a.metrics.RecordDuration(ctx, "apitoken", operation, time.Since(start), status)
}

// Generate records metrics for token generation operations.
func (a *apiTokenUseCaseWithMetrics) Generate(
	ctx context.Context,
	userID uuid.UUID,
	provider string,
) (*domain.APIToken, error) {
	start := time.Now()
	token, err := a.next.Generate(ctx, userID, provider)
	a.record(ctx, "generate", start, err)
	return token, err
}

// Verify records metrics for verification operations.
func (a *apiTokenUseCaseWithMetrics) Verify(ctx context.Context, token string) (*domain.APIToken, error) {
	start := time.Now()
	apiToken, err := a.next.Verify(ctx, token)
	a.record(ctx, "verify", start, err)
	return apiToken, err
}

// Revoke records metrics for revocation operations.
func (a *apiTokenUseCaseWithMetrics) Revoke(ctx context.Context, userID uuid.UUID, provider string) error {
	start := time.Now()
	err := a.next.Revoke(ctx, userID, provider)
	a.record(ctx, "revoke", start, err)
	return err
}

// CleanExpired records metrics for cleanup operations.
func (a *apiTokenUseCaseWithMetrics) CleanExpired(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := a.next.CleanExpired(ctx)
	a.record(ctx, "clean_expired", start, err)
	return count, err
}
