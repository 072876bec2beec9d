// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/warden/internal/errors"
)

var (
	// permissionNameRegex restricts permission names to lowercase identifiers
	// with optional colon-separated segments (e.g. "collections:read").
	permissionNameRegex = regexp.MustCompile(`^[a-z0-9_\-]+(:[a-z0-9_\-]+)*$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// notBlankRule validates that a string is not empty or whitespace-only.
type notBlankRule struct{}

// NotBlank validates that a string contains at least one non-whitespace character.
var NotBlank = notBlankRule{}

// Validate checks if the value is a non-blank string.
func (r notBlankRule) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_not_blank", "must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_not_blank", "cannot be blank")
	}
	return nil
}

// permissionNameRule validates permission name format.
type permissionNameRule struct{}

// PermissionName validates that a string is a well-formed permission name.
var PermissionName = permissionNameRule{}

// Validate checks if the value is a valid permission name.
func (r permissionNameRule) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_permission_name", "permission must be a string")
	}
	if !permissionNameRegex.MatchString(s) {
		return validation.NewError(
			"validation_permission_name",
			"permission must be a lowercase identifier with optional colon-separated segments",
		)
	}
	return nil
}
