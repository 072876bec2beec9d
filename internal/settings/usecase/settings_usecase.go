// Package usecase implements business logic for the global settings singleton.
package usecase

import (
	"context"
	"time"

	validation "github.com/jellydator/validation"

	settingsDomain "github.com/allisson/warden/internal/settings/domain"
	appValidation "github.com/allisson/warden/internal/validation"
)

// SettingsRepository defines persistence operations for the settings singleton.
type SettingsRepository interface {
	// GetOrCreate returns the singleton, atomically creating it with defaults
	// if absent. Concurrent first reads must not create two rows.
	GetOrCreate(ctx context.Context) (*settingsDomain.GlobalSettings, error)

	// Upsert creates or updates the singleton with the given fields.
	Upsert(ctx context.Context, settings *settingsDomain.GlobalSettings) (*settingsDomain.GlobalSettings, error)
}

// SettingsUseCase defines business logic operations for global settings.
type SettingsUseCase interface {
	// Get returns the settings singleton, materializing defaults on first read.
	Get(ctx context.Context) (*settingsDomain.GlobalSettings, error)

	// UpdateSelfService upserts the self-service registration fields.
	UpdateSelfService(
		ctx context.Context,
		enabled bool,
		defaultPermissions []string,
	) (*settingsDomain.GlobalSettings, error)
}

// settingsUseCase implements SettingsUseCase.
type settingsUseCase struct {
	settingsRepo SettingsRepository
}

// Get returns the settings singleton, creating it with defaults
// (self-service disabled, empty permission set) if absent.
func (s *settingsUseCase) Get(ctx context.Context) (*settingsDomain.GlobalSettings, error) {
	return s.settingsRepo.GetOrCreate(ctx)
}

// UpdateSelfService validates and upserts the self-service registration fields.
func (s *settingsUseCase) UpdateSelfService(
	ctx context.Context,
	enabled bool,
	defaultPermissions []string,
) (*settingsDomain.GlobalSettings, error) {
	for _, permission := range defaultPermissions {
		if err := validation.Validate(permission, appValidation.NotBlank, appValidation.PermissionName); err != nil {
			return nil, appValidation.WrapValidationError(err)
		}
	}

	if defaultPermissions == nil {
		defaultPermissions = []string{}
	}

	now := time.Now().UTC()
	settings := &settingsDomain.GlobalSettings{
		Key:                           settingsDomain.SettingsKey,
		AllowSelfServiceRegistration:  enabled,
		DefaultSelfServicePermissions: defaultPermissions,
		CreatedAt:                     now,
		UpdatedAt:                     now,
	}

	return s.settingsRepo.Upsert(ctx, settings)
}

// NewSettingsUseCase creates a new SettingsUseCase.
func NewSettingsUseCase(settingsRepo SettingsRepository) SettingsUseCase {
	return &settingsUseCase{settingsRepo: settingsRepo}
}
