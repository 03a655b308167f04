package usecase

import (
	"context"
	"time"

	"github.com/allisson/sessions/internal/metrics"
	sessionDomain "github.com/allisson/sessions/internal/session/domain"
)

// sessionUseCaseWithMetrics decorates SessionUseCase with metrics instrumentation.
type sessionUseCaseWithMetrics struct {
	next    SessionUseCase
	metrics metrics.BusinessMetrics
}

// NewSessionUseCaseWithMetrics wraps a SessionUseCase with metrics recording.
func NewSessionUseCaseWithMetrics(useCase SessionUseCase, m metrics.BusinessMetrics) SessionUseCase {
	return &sessionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record emits operation count and duration with success/error status.
func (s *sessionUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "session", operation, status)
	s.metrics.RecordDuration(ctx, "session", operation, time.Since(start), status)
}

// Login records metrics for login operations.
func (s *sessionUseCaseWithMetrics) Login(
	ctx context.Context,
	username string,
	password string,
) (*sessionDomain.TokenRecord, error) {
	start := time.Now()
	record, err := s.next.Login(ctx, username, password)
	s.record(ctx, "login", start, err)
	return record, err
}

// CreateTokens records metrics for token issuance operations.
func (s *sessionUseCaseWithMetrics) CreateTokens(
	ctx context.Context,
	username string,
) (*sessionDomain.TokenRecord, error) {
	start := time.Now()
	record, err := s.next.CreateTokens(ctx, username)
	s.record(ctx, "create_tokens", start, err)
	return record, err
}

// Refresh records metrics for rotation operations.
func (s *sessionUseCaseWithMetrics) Refresh(
	ctx context.Context,
	refreshToken string,
) (*sessionDomain.TokenRecord, error) {
	start := time.Now()
	record, err := s.next.Refresh(ctx, refreshToken)
	s.record(ctx, "refresh", start, err)
	return record, err
}

// Revoke records metrics for revocation operations.
func (s *sessionUseCaseWithMetrics) Revoke(ctx context.Context, username string) error {
	start := time.Now()
	err := s.next.Revoke(ctx, username)
	s.record(ctx, "revoke", start, err)
	return err
}

// Verify records metrics for verification operations.
func (s *sessionUseCaseWithMetrics) Verify(
	ctx context.Context,
	token string,
) (*sessionDomain.Claims, error) {
	start := time.Now()
	claims, err := s.next.Verify(ctx, token)
	s.record(ctx, "verify", start, err)
	return claims, err
}
