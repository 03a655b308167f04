package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sessionDomain "github.com/allisson/sessions/internal/session/domain"
	"github.com/allisson/sessions/internal/tokenstore"
)

type mockSessionUseCase struct {
	mock.Mock
}

func (m *mockSessionUseCase) Login(ctx context.Context, username, password string) (*sessionDomain.TokenRecord, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessionDomain.TokenRecord), args.Error(1)
}

func (m *mockSessionUseCase) CreateTokens(ctx context.Context, username string) (*sessionDomain.TokenRecord, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessionDomain.TokenRecord), args.Error(1)
}

func (m *mockSessionUseCase) Refresh(ctx context.Context, refreshToken string) (*sessionDomain.TokenRecord, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessionDomain.TokenRecord), args.Error(1)
}

func (m *mockSessionUseCase) Revoke(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *mockSessionUseCase) Verify(ctx context.Context, token string) (*sessionDomain.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessionDomain.Claims), args.Error(1)
}

func TestRunRevokeSessions(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &mockSessionUseCase{}
		mockUseCase.On("Revoke", ctx, "alice").Return(nil)

		var out bytes.Buffer
		err := RunRevokeSessions(ctx, mockUseCase, logger, &out, "alice", "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), `Successfully revoked sessions for user "alice"`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &mockSessionUseCase{}
		mockUseCase.On("Revoke", ctx, "alice").Return(nil)

		var out bytes.Buffer
		err := RunRevokeSessions(ctx, mockUseCase, logger, &out, "alice", "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"status": "revoked"`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("store-unavailable", func(t *testing.T) {
		mockUseCase := &mockSessionUseCase{}
		mockUseCase.On("Revoke", ctx, "alice").Return(tokenstore.ErrStoreUnavailable)

		var out bytes.Buffer
		err := RunRevokeSessions(ctx, mockUseCase, logger, &out, "alice", "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to revoke sessions")
		mockUseCase.AssertExpectations(t)
	})
}
