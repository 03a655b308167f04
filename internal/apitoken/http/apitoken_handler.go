// Package http provides HTTP handlers for permanent API token management.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/sessions/internal/apitoken/http/dto"
	apiTokenUseCase "github.com/allisson/sessions/internal/apitoken/usecase"
	apperrors "github.com/allisson/sessions/internal/errors"
	"github.com/allisson/sessions/internal/httputil"
	sessionHTTP "github.com/allisson/sessions/internal/session/http"
	customValidation "github.com/allisson/sessions/internal/validation"
)

// APITokenHandler handles HTTP requests for permanent API token operations.
// All endpoints require session authentication: a permanent token cannot be
// used to mint or revoke other permanent tokens.
type APITokenHandler struct {
	apiTokenUC apiTokenUseCase.UseCase
	logger     *slog.Logger
}

// NewAPITokenHandler creates a new API token handler with required dependencies.
func NewAPITokenHandler(
	apiTokenUC apiTokenUseCase.UseCase,
	logger *slog.Logger,
) *APITokenHandler {
	return &APITokenHandler{
		apiTokenUC: apiTokenUC,
		logger:     logger,
	}
}

// CreateHandler issues a new permanent API token for the caller.
// POST /v1/api-tokens - Session authentication required.
// Returns 201 Created with the token; 409 if an active token already exists
// for the provider.
func (h *APITokenHandler) CreateHandler(c *gin.Context) {
	principal, ok := sessionHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreateAPITokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	apiToken, err := h.apiTokenUC.Generate(c.Request.Context(), principal.UserID, req.Provider)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapAPITokenToResponse(apiToken))
}

// RevokeHandler revokes the caller's active token for a provider.
// DELETE /v1/api-tokens/:provider - Session authentication required.
// Returns 204 No Content; 404 if no active token exists.
func (h *APITokenHandler) RevokeHandler(c *gin.Context) {
	principal, ok := sessionHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	provider := c.Param("provider")

	if err := h.apiTokenUC.Revoke(c.Request.Context(), principal.UserID, provider); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
