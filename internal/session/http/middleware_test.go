package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apiTokenDomain "github.com/allisson/sessions/internal/apitoken/domain"
	sessionDomain "github.com/allisson/sessions/internal/session/domain"
	"github.com/allisson/sessions/internal/tokenstore"
	userDomain "github.com/allisson/sessions/internal/user/domain"
	userUseCase "github.com/allisson/sessions/internal/user/usecase"
)

// mockSessionUseCase is a mock implementation of SessionUseCase for testing.
type mockSessionUseCase struct {
	mock.Mock
}

func (m *mockSessionUseCase) Login(
	ctx context.Context,
	username string,
	password string,
) (*sessionDomain.TokenRecord, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessionDomain.TokenRecord), args.Error(1)
}

func (m *mockSessionUseCase) CreateTokens(
	ctx context.Context,
	username string,
) (*sessionDomain.TokenRecord, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessionDomain.TokenRecord), args.Error(1)
}

func (m *mockSessionUseCase) Refresh(
	ctx context.Context,
	refreshToken string,
) (*sessionDomain.TokenRecord, error) {
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

// mockAPITokenUseCase is a mock implementation of the API token UseCase.
type mockAPITokenUseCase struct {
	mock.Mock
}

func (m *mockAPITokenUseCase) Generate(
	ctx context.Context,
	userID uuid.UUID,
	provider string,
) (*apiTokenDomain.APIToken, error) {
	args := m.Called(ctx, userID, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apiTokenDomain.APIToken), args.Error(1)
}

func (m *mockAPITokenUseCase) Verify(ctx context.Context, token string) (*apiTokenDomain.APIToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apiTokenDomain.APIToken), args.Error(1)
}

func (m *mockAPITokenUseCase) Revoke(ctx context.Context, userID uuid.UUID, provider string) error {
	args := m.Called(ctx, userID, provider)
	return args.Error(0)
}

func (m *mockAPITokenUseCase) CleanExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// mockUserUseCase is a mock implementation of the user UseCase.
type mockUserUseCase struct {
	mock.Mock
}

func (m *mockUserUseCase) RegisterUser(
	ctx context.Context,
	input userUseCase.RegisterUserInput,
) (*userDomain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserUseCase) GetUserByUsername(ctx context.Context, username string) (*userDomain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserUseCase) GetUserByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// gateFixture builds a router with the gate under test and an echo endpoint
// that echoes the resolved principal.
type gateFixture struct {
	sessionUC  *mockSessionUseCase
	apiTokenUC *mockAPITokenUseCase
	userUC     *mockUserUseCase
	router     *gin.Engine
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &gateFixture{
		sessionUC:  &mockSessionUseCase{},
		apiTokenUC: &mockAPITokenUseCase{},
		userUC:     &mockUserUseCase{},
	}

	gate := NewAuthGate(f.sessionUC, f.apiTokenUC, f.userUC, testLogger())

	f.router = gin.New()
	f.router.GET("/echo", gate.Middleware(), func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no principal"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"username": principal.Username,
			"method":   string(principal.Method),
			"provider": principal.Provider,
		})
	})

	return f
}

func (f *gateFixture) request(t *testing.T, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)
	return recorder
}

func TestAuthGate_SessionPath(t *testing.T) {
	user := &userDomain.User{ID: uuid.Must(uuid.NewV7()), Username: "alice"}

	t.Run("Success", func(t *testing.T) {
		f := newGateFixture(t)

		claims := &sessionDomain.Claims{Subject: "alice", TokenType: sessionDomain.TokenTypeAccess}
		f.sessionUC.On("Verify", mock.Anything, "valid-token").Return(claims, nil).Once()
		f.userUC.On("GetUserByUsername", mock.Anything, "alice").Return(user, nil).Once()

		recorder := f.request(t, map[string]string{"Authorization": "Bearer valid-token"})

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"method":"session"`)
		assert.Contains(t, recorder.Body.String(), `"username":"alice"`)
	})

	t.Run("MissingCredentials", func(t *testing.T) {
		f := newGateFixture(t)

		recorder := f.request(t, nil)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		f := newGateFixture(t)

		recorder := f.request(t, map[string]string{"Authorization": "Token abc"})

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		f.sessionUC.AssertNotCalled(t, "Verify")
	})

	t.Run("RevokedToken", func(t *testing.T) {
		f := newGateFixture(t)

		f.sessionUC.On("Verify", mock.Anything, "revoked-token").
			Return(nil, sessionDomain.ErrTokenRevoked).
			Once()

		recorder := f.request(t, map[string]string{"Authorization": "Bearer revoked-token"})

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("StoreUnavailable", func(t *testing.T) {
		f := newGateFixture(t)

		f.sessionUC.On("Verify", mock.Anything, "any-token").
			Return(nil, tokenstore.ErrStoreUnavailable).
			Once()

		recorder := f.request(t, map[string]string{"Authorization": "Bearer any-token"})

		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	})

	t.Run("BearerWinsOverAPIKey", func(t *testing.T) {
		// Both headers present: the session path decides alone
		f := newGateFixture(t)

		f.sessionUC.On("Verify", mock.Anything, "bad-token").
			Return(nil, sessionDomain.ErrInvalidToken).
			Once()

		recorder := f.request(t, map[string]string{
			"Authorization": "Bearer bad-token",
			"X-API-Key":     "valid-api-key",
		})

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		f.apiTokenUC.AssertNotCalled(t, "Verify")
	})
}

func TestAuthGate_APIKeyPath(t *testing.T) {
	user := &userDomain.User{ID: uuid.Must(uuid.NewV7()), Username: "alice"}

	t.Run("Success", func(t *testing.T) {
		f := newGateFixture(t)

		apiToken := &apiTokenDomain.APIToken{UserID: user.ID, Provider: "github"}
		f.apiTokenUC.On("Verify", mock.Anything, "valid-api-key").Return(apiToken, nil).Once()
		f.userUC.On("GetUserByID", mock.Anything, user.ID).Return(user, nil).Once()

		recorder := f.request(t, map[string]string{"X-API-Key": "valid-api-key"})

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"method":"api_key"`)
		assert.Contains(t, recorder.Body.String(), `"provider":"github"`)
	})

	t.Run("RevokedToken", func(t *testing.T) {
		f := newGateFixture(t)

		f.apiTokenUC.On("Verify", mock.Anything, "revoked-api-key").
			Return(nil, apiTokenDomain.ErrAPITokenRevoked).
			Once()

		recorder := f.request(t, map[string]string{"X-API-Key": "revoked-api-key"})

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestAuthGate_SessionMiddleware(t *testing.T) {
	t.Run("APIKeyRejected", func(t *testing.T) {
		// Session-only endpoints do not accept the permanent path
		gin.SetMode(gin.TestMode)
		f := newGateFixture(t)

		gate := NewAuthGate(f.sessionUC, f.apiTokenUC, f.userUC, testLogger())
		router := gin.New()
		router.POST("/logout", gate.SessionMiddleware(), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req.Header.Set("X-API-Key", "valid-api-key")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		f.apiTokenUC.AssertNotCalled(t, "Verify")
	})
}
