package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/warden/internal/errors"
)

func TestWrapValidationError(t *testing.T) {
	t.Run("NilErrorPassesThrough", func(t *testing.T) {
		assert.NoError(t, WrapValidationError(nil))
	})

	t.Run("WrapsAsInvalidInput", func(t *testing.T) {
		err := WrapValidationError(assert.AnError)

		assert.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Contains(t, err.Error(), assert.AnError.Error())
	})
}

func TestNotBlank(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		wantErr bool
	}{
		{"ValidString", "hello", false},
		{"StringWithSurroundingSpaces", "  hello  ", false},
		{"EmptyString", "", true},
		{"WhitespaceOnly", "   \t\n", true},
		{"NonString", 42, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NotBlank.Validate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPermissionName(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		wantErr bool
	}{
		{"SimpleName", "read", false},
		{"ColonSeparatedSegments", "collections:read", false},
		{"MultipleSegments", "collections:items:read", false},
		{"WithDigitsAndUnderscores", "audit_logs:read_v2", false},
		{"WithHyphens", "api-keys:list", false},
		{"UppercaseRejected", "Collections:Read", true},
		{"SpacesRejected", "collections read", true},
		{"EmptyRejected", "", true},
		{"TrailingColonRejected", "collections:", true},
		{"LeadingColonRejected", ":read", true},
		{"NonString", 42, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PermissionName.Validate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
