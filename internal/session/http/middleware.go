package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	apiTokenUseCase "github.com/allisson/sessions/internal/apitoken/usecase"
	apperrors "github.com/allisson/sessions/internal/errors"
	"github.com/allisson/sessions/internal/httputil"
	sessionUseCase "github.com/allisson/sessions/internal/session/usecase"
	userUseCase "github.com/allisson/sessions/internal/user/usecase"
)

// AuthGate resolves request credentials to an authenticated principal.
//
// Two disjoint credential paths:
//   - Authorization: Bearer <token> is the session path. Structural parse,
//     expiry, token type, then revocation check against the shared store.
//   - X-API-Key: <token> is the permanent path. Exact database lookup, state
//     and expiry check.
//
// A request carrying an Authorization header is always handled by the session
// path, even if it also carries X-API-Key. Each path is terminal on its first
// failure: every rejection maps to 401 through the central error mapper, with
// the exception of store outages which map to 503. No partial authentication
// state ever reaches a handler.
type AuthGate struct {
	sessionUseCase sessionUseCase.SessionUseCase
	apiTokenUC     apiTokenUseCase.UseCase
	userUseCase    userUseCase.UseCase
	logger         *slog.Logger
}

// NewAuthGate creates an AuthGate with required dependencies.
func NewAuthGate(
	sessionUC sessionUseCase.SessionUseCase,
	apiTokenUC apiTokenUseCase.UseCase,
	userUC userUseCase.UseCase,
	logger *slog.Logger,
) *AuthGate {
	return &AuthGate{
		sessionUseCase: sessionUC,
		apiTokenUC:     apiTokenUC,
		userUseCase:    userUC,
		logger:         logger,
	}
}

// SessionMiddleware authenticates requests via the session path only.
// Used for endpoints that act on the session itself (logout, api-token
// management).
func (g *AuthGate) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		g.authenticateSession(c)
	}
}

// Middleware authenticates requests via either credential path.
// Bearer session tokens win when both headers are present.
func (g *AuthGate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			g.authenticateSession(c)
			return
		}

		if c.GetHeader("X-API-Key") != "" {
			g.authenticateAPIKey(c)
			return
		}

		g.logger.Debug("authentication failed: no credentials presented")
		g.reject(c, apperrors.ErrUnauthorized)
	}
}

// authenticateSession handles the bearer session token path.
func (g *AuthGate) authenticateSession(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		g.logger.Debug("authentication failed: missing authorization header")
		g.reject(c, apperrors.ErrUnauthorized)
		return
	}

	// Parse Bearer token (case-insensitive)
	const bearerPrefix = "bearer "
	if len(authHeader) < len(bearerPrefix) ||
		!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		g.logger.Debug("authentication failed: malformed authorization header")
		g.reject(c, apperrors.ErrUnauthorized)
		return
	}

	plainToken := authHeader[len(bearerPrefix):]
	if plainToken == "" {
		g.logger.Debug("authentication failed: empty bearer token")
		g.reject(c, apperrors.ErrUnauthorized)
		return
	}

	claims, err := g.sessionUseCase.Verify(c.Request.Context(), plainToken)
	if err != nil {
		g.logger.Debug("session authentication failed", slog.String("error", err.Error()))
		g.reject(c, err)
		return
	}

	user, err := g.userUseCase.GetUserByUsername(c.Request.Context(), claims.Subject)
	if err != nil {
		// The token subject no longer resolves to a user
		g.logger.Debug("session authentication failed: unknown subject",
			slog.String("username", claims.Subject))
		g.reject(c, apperrors.ErrUnauthorized)
		return
	}

	principal := &Principal{
		UserID:   user.ID,
		Username: user.Username,
		Method:   AuthMethodSession,
	}
	c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))

	g.logger.Debug("authentication successful",
		slog.String("username", principal.Username),
		slog.String("method", string(principal.Method)))

	c.Next()
}

// authenticateAPIKey handles the permanent API token path.
func (g *AuthGate) authenticateAPIKey(c *gin.Context) {
	apiKey := c.GetHeader("X-API-Key")
	if apiKey == "" {
		g.logger.Debug("authentication failed: empty api key")
		g.reject(c, apperrors.ErrUnauthorized)
		return
	}

	apiToken, err := g.apiTokenUC.Verify(c.Request.Context(), apiKey)
	if err != nil {
		g.logger.Debug("api key authentication failed", slog.String("error", err.Error()))
		g.reject(c, err)
		return
	}

	user, err := g.userUseCase.GetUserByID(c.Request.Context(), apiToken.UserID)
	if err != nil {
		g.logger.Debug("api key authentication failed: unknown owner",
			slog.String("user_id", apiToken.UserID.String()))
		g.reject(c, apperrors.ErrUnauthorized)
		return
	}

	principal := &Principal{
		UserID:   user.ID,
		Username: user.Username,
		Method:   AuthMethodAPIKey,
		Provider: apiToken.Provider,
	}
	c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))

	g.logger.Debug("authentication successful",
		slog.String("username", principal.Username),
		slog.String("method", string(principal.Method)),
		slog.String("provider", principal.Provider))

	c.Next()
}

// reject terminates the request through the central error mapper.
func (g *AuthGate) reject(c *gin.Context, err error) {
	httputil.HandleErrorGin(c, err, g.logger)
	c.Abort()
}
