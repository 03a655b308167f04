package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/sessions/internal/errors"
	"github.com/allisson/sessions/internal/httputil"
	"github.com/allisson/sessions/internal/session/http/dto"
	sessionUseCase "github.com/allisson/sessions/internal/session/usecase"
	customValidation "github.com/allisson/sessions/internal/validation"
)

// TokenHandler handles HTTP requests for session token operations.
type TokenHandler struct {
	sessionUseCase sessionUseCase.SessionUseCase
	logger         *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(
	sessionUC sessionUseCase.SessionUseCase,
	logger *slog.Logger,
) *TokenHandler {
	return &TokenHandler{
		sessionUseCase: sessionUC,
		logger:         logger,
	}
}

// LoginHandler authenticates a user and issues a token pair.
// POST /v1/login - No authentication required.
// Returns 201 Created with the access/refresh pair and expiries.
func (h *TokenHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	record, err := h.sessionUseCase.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapTokenRecordToResponse(record))
}

// RefreshHandler rotates a refresh token into a new token pair.
// POST /v1/refresh - No authentication required beyond the refresh token itself.
// Returns 201 Created with the new pair; the old pair is revoked.
func (h *TokenHandler) RefreshHandler(c *gin.Context) {
	var req dto.RefreshRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	record, err := h.sessionUseCase.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapTokenRecordToResponse(record))
}

// LogoutHandler revokes the caller's current token pair.
// POST /v1/logout - Session authentication required.
// Returns 204 No Content. Idempotent.
func (h *TokenHandler) LogoutHandler(c *gin.Context) {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok {
		// Should never happen if the auth gate is in place
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	if err := h.sessionUseCase.Revoke(c.Request.Context(), principal.Username); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// MeHandler echoes the authenticated principal.
// GET /v1/me - Session or API-key authentication.
func (h *TokenHandler) MeHandler(c *gin.Context) {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MeResponse{
		UserID:   principal.UserID.String(),
		Username: principal.Username,
		Method:   string(principal.Method),
		Provider: principal.Provider,
	})
}
