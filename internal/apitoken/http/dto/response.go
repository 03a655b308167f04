// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	"github.com/allisson/sessions/internal/apitoken/domain"
)

// CreateAPITokenResponse contains a newly issued permanent API token.
// SECURITY: the token is only returned once and must be saved securely.
type CreateAPITokenResponse struct {
	Token     string    `json:"token"`
	Provider  string    `json:"provider"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MapAPITokenToResponse converts a domain API token to an API response.
func MapAPITokenToResponse(token *domain.APIToken) CreateAPITokenResponse {
	return CreateAPITokenResponse{
		Token:     token.Token,
		Provider:  token.Provider,
		ExpiresAt: token.ExpiresAt,
	}
}
