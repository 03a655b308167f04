// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	sessionDomain "github.com/allisson/sessions/internal/session/domain"
)

// TokenPairResponse contains a newly issued access/refresh token pair.
// SECURITY: tokens are returned once and must be stored securely by the client.
type TokenPairResponse struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// MapTokenRecordToResponse converts a domain token record to an API response.
func MapTokenRecordToResponse(record *sessionDomain.TokenRecord) TokenPairResponse {
	return TokenPairResponse{
		AccessToken:      record.AccessToken,
		RefreshToken:     record.RefreshToken,
		AccessExpiresAt:  record.AccessExpiresAt,
		RefreshExpiresAt: record.RefreshExpiresAt,
	}
}

// MeResponse echoes the authenticated principal.
type MeResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Method   string `json:"method"`
	Provider string `json:"provider,omitempty"`
}
