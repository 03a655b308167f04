package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/sessions/internal/config"
	"github.com/allisson/sessions/internal/session/registry"
	sessionService "github.com/allisson/sessions/internal/session/service"
	sessionUseCase "github.com/allisson/sessions/internal/session/usecase"
	"github.com/allisson/sessions/internal/testutil"
	"github.com/allisson/sessions/internal/tokenstore"
	userDomain "github.com/allisson/sessions/internal/user/domain"
	userUC "github.com/allisson/sessions/internal/user/usecase"
)

// mockUserRepository backs both the session and user use cases in the
// full-stack tests below.
type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *userDomain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*userDomain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

// stackFixture wires the real session flow over a fake store behind the
// gin routes, with only user persistence mocked.
type stackFixture struct {
	router *gin.Engine
	store  *testutil.FakeStore
}

func newStackFixture(t *testing.T, password string) *stackFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
	}
	store := testutil.NewFakeStore()
	reg := registry.NewRegistry(store)
	secretService := sessionService.NewSecretService()

	signer, err := sessionService.NewJWTSigner("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	passwordHash, err := secretService.HashPassword(password)
	require.NoError(t, err)

	user := &userDomain.User{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     "alice",
		PasswordHash: passwordHash,
	}
	userRepo := &mockUserRepository{}
	userRepo.On("GetByUsername", mock.Anything, "alice").Return(user, nil)
	userRepo.On("GetByUsername", mock.Anything, mock.Anything).Return(nil, userDomain.ErrUserNotFound)
	userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	sessionUC := sessionUseCase.NewSessionUseCase(cfg, reg, userRepo, secretService, signer)
	userUseCase := userUC.NewUserUseCase(userRepo, secretService)
	gate := NewAuthGate(sessionUC, &mockAPITokenUseCase{}, userUseCase, testLogger())
	handler := NewTokenHandler(sessionUC, testLogger())

	router := gin.New()
	router.POST("/v1/login", handler.LoginHandler)
	router.POST("/v1/refresh", handler.RefreshHandler)
	router.POST("/v1/logout", gate.SessionMiddleware(), handler.LogoutHandler)
	router.GET("/v1/me", gate.Middleware(), handler.MeHandler)

	return &stackFixture{router: router, store: store}
}

func (f *stackFixture) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)
	return recorder
}

func (f *stackFixture) login(t *testing.T, username, password string) (int, map[string]any) {
	t.Helper()

	recorder := f.do(t, http.MethodPost, "/v1/login", gin.H{
		"username": username,
		"password": password,
	}, nil)

	var body map[string]any
	if recorder.Body.Len() > 0 {
		_ = json.Unmarshal(recorder.Body.Bytes(), &body)
	}
	return recorder.Code, body
}

func TestTokenHandler_Login(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newStackFixture(t, "Sup3r-Secret!")

		code, body := f.login(t, "alice", "Sup3r-Secret!")

		assert.Equal(t, http.StatusCreated, code)
		assert.NotEmpty(t, body["access_token"])
		assert.NotEmpty(t, body["refresh_token"])
	})

	t.Run("Error_WrongPassword", func(t *testing.T) {
		f := newStackFixture(t, "Sup3r-Secret!")

		code, _ := f.login(t, "alice", "wrong-password")

		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("Error_UnknownUser", func(t *testing.T) {
		f := newStackFixture(t, "Sup3r-Secret!")

		code, _ := f.login(t, "nobody", "Sup3r-Secret!")

		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("Error_InvalidPayload", func(t *testing.T) {
		f := newStackFixture(t, "Sup3r-Secret!")

		recorder := f.do(t, http.MethodPost, "/v1/login", gin.H{"username": "a b c"}, nil)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestTokenHandler_Refresh(t *testing.T) {
	t.Run("Success_RotatesAndInvalidatesOldPair", func(t *testing.T) {
		f := newStackFixture(t, "Sup3r-Secret!")

		code, body := f.login(t, "alice", "Sup3r-Secret!")
		require.Equal(t, http.StatusCreated, code)
		oldRefresh := body["refresh_token"].(string)
		oldAccess := body["access_token"].(string)

		recorder := f.do(t, http.MethodPost, "/v1/refresh", gin.H{"refresh_token": oldRefresh}, nil)
		assert.Equal(t, http.StatusCreated, recorder.Code)

		// Old access token no longer authenticates
		recorder = f.do(t, http.MethodGet, "/v1/me", nil, map[string]string{
			"Authorization": "Bearer " + oldAccess,
		})
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)

		// Old refresh token cannot be replayed
		recorder = f.do(t, http.MethodPost, "/v1/refresh", gin.H{"refresh_token": oldRefresh}, nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("Error_AccessTokenRejected", func(t *testing.T) {
		f := newStackFixture(t, "Sup3r-Secret!")

		code, body := f.login(t, "alice", "Sup3r-Secret!")
		require.Equal(t, http.StatusCreated, code)

		recorder := f.do(t, http.MethodPost, "/v1/refresh", gin.H{
			"refresh_token": body["access_token"].(string),
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestTokenHandler_Logout(t *testing.T) {
	t.Run("Success_EndToEndRevocation", func(t *testing.T) {
		f := newStackFixture(t, "Sup3r-Secret!")

		code, body := f.login(t, "alice", "Sup3r-Secret!")
		require.Equal(t, http.StatusCreated, code)
		accessToken := body["access_token"].(string)
		authHeader := map[string]string{"Authorization": "Bearer " + accessToken}

		// Authenticated before logout
		recorder := f.do(t, http.MethodGet, "/v1/me", nil, authHeader)
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"username":"alice"`)

		recorder = f.do(t, http.MethodPost, "/v1/logout", nil, authHeader)
		assert.Equal(t, http.StatusNoContent, recorder.Code)

		// Rejected after logout, coherently, on the very next request
		recorder = f.do(t, http.MethodGet, "/v1/me", nil, authHeader)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestTokenHandler_Me(t *testing.T) {
	t.Run("Error_StoreUnavailable", func(t *testing.T) {
		f := newStackFixture(t, "Sup3r-Secret!")

		code, body := f.login(t, "alice", "Sup3r-Secret!")
		require.Equal(t, http.StatusCreated, code)

		f.store.Err = tokenstore.ErrStoreUnavailable

		recorder := f.do(t, http.MethodGet, "/v1/me", nil, map[string]string{
			"Authorization": "Bearer " + body["access_token"].(string),
		})

		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	})
}
