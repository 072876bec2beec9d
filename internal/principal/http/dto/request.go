// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/warden/internal/validation"
)

// CreatePrincipalRequest contains the parameters for creating a principal.
// The creator is always the authenticated principal.
type CreatePrincipalRequest struct {
	Name        string   `json:"name" binding:"required"`
	Contact     string   `json:"contact"`
	Department  string   `json:"department"`
	IsAdmin     bool     `json:"is_admin"`
	Permissions []string `json:"permissions"`
}

// Validate checks if the create principal request is valid.
func (r *CreatePrincipalRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			validation.Length(1, 255),
		),
		validation.Field(&r.Contact,
			validation.Length(0, 255),
		),
		validation.Field(&r.Department,
			validation.Length(0, 255),
		),
		validation.Field(&r.Permissions,
			validation.Each(customValidation.NotBlank, customValidation.PermissionName),
		),
	)
}

// RegisterPrincipalRequest contains the parameters for self-service
// registration. Permissions come from the global settings defaults and cannot
// be requested by the caller.
type RegisterPrincipalRequest struct {
	Name       string `json:"name" binding:"required"`
	Contact    string `json:"contact"`
	Department string `json:"department"`
}

// Validate checks if the register request is valid.
func (r *RegisterPrincipalRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			validation.Length(1, 255),
		),
		validation.Field(&r.Contact,
			validation.Length(0, 255),
		),
		validation.Field(&r.Department,
			validation.Length(0, 255),
		),
	)
}

// AddPermissionRequest contains the parameters for a permission grant.
type AddPermissionRequest struct {
	Permission string `json:"permission" binding:"required"`
	Propagate  bool   `json:"propagate"`
}

// Validate checks if the add permission request is valid.
func (r *AddPermissionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Permission,
			validation.Required,
			customValidation.NotBlank,
			customValidation.PermissionName,
		),
	)
}
