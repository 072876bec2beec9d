package dto

import (
	"time"

	settingsDomain "github.com/allisson/warden/internal/settings/domain"
)

// SettingsResponse represents the global settings singleton in API responses.
type SettingsResponse struct {
	AllowSelfServiceRegistration  bool      `json:"allow_self_service_registration"`
	DefaultSelfServicePermissions []string  `json:"default_self_service_permissions"`
	CreatedAt                     time.Time `json:"created_at"`
	UpdatedAt                     time.Time `json:"updated_at"`
}

// MapSettingsToResponse converts domain settings to a response.
func MapSettingsToResponse(settings *settingsDomain.GlobalSettings) SettingsResponse {
	permissions := settings.DefaultSelfServicePermissions
	if permissions == nil {
		permissions = []string{}
	}

	return SettingsResponse{
		AllowSelfServiceRegistration:  settings.AllowSelfServiceRegistration,
		DefaultSelfServicePermissions: permissions,
		CreatedAt:                     settings.CreatedAt,
		UpdatedAt:                     settings.UpdatedAt,
	}
}
