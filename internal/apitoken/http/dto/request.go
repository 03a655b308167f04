// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/sessions/internal/validation"
)

// CreateAPITokenRequest contains the parameters for issuing a permanent API token.
type CreateAPITokenRequest struct {
	Provider string `json:"provider"`
}

// Validate checks if the create API token request is valid.
func (r *CreateAPITokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Provider,
			validation.Required,
			customValidation.Provider,
		),
	)
}
