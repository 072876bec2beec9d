package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateSettingsRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request UpdateSettingsRequest
		wantErr bool
	}{
		{
			name: "valid request",
			request: UpdateSettingsRequest{
				AllowSelfServiceRegistration:  true,
				DefaultSelfServicePermissions: []string{"collections:read", "items:write"},
			},
			wantErr: false,
		},
		{
			name:    "valid request without permissions",
			request: UpdateSettingsRequest{AllowSelfServiceRegistration: false},
			wantErr: false,
		},
		{
			name: "uppercase permission",
			request: UpdateSettingsRequest{
				DefaultSelfServicePermissions: []string{"Collections:Read"},
			},
			wantErr: true,
		},
		{
			name: "blank permission",
			request: UpdateSettingsRequest{
				DefaultSelfServicePermissions: []string{"   "},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
