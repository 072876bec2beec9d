// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/warden/internal/validation"
)

// UpdateSettingsRequest contains the parameters for updating the global
// settings singleton.
type UpdateSettingsRequest struct {
	AllowSelfServiceRegistration  bool     `json:"allow_self_service_registration"`
	DefaultSelfServicePermissions []string `json:"default_self_service_permissions"`
}

// Validate checks if the update settings request is valid.
func (r *UpdateSettingsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DefaultSelfServicePermissions,
			validation.Each(customValidation.NotBlank, customValidation.PermissionName),
		),
	)
}
