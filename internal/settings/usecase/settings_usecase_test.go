package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "github.com/allisson/warden/internal/errors"
	settingsDomain "github.com/allisson/warden/internal/settings/domain"
)

// mockSettingsRepository is a mock implementation of SettingsRepository for testing.
type mockSettingsRepository struct {
	mock.Mock
}

func (m *mockSettingsRepository) GetOrCreate(ctx context.Context) (*settingsDomain.GlobalSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settingsDomain.GlobalSettings), args.Error(1)
}

func (m *mockSettingsRepository) Upsert(
	ctx context.Context,
	settings *settingsDomain.GlobalSettings,
) (*settingsDomain.GlobalSettings, error) {
	args := m.Called(ctx, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settingsDomain.GlobalSettings), args.Error(1)
}

func TestSettingsUseCase_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_MaterializesDefaultsOnFirstRead", func(t *testing.T) {
		mockRepo := &mockSettingsRepository{}

		defaults := settingsDomain.NewDefaultSettings()
		mockRepo.On("GetOrCreate", ctx).
			Return(defaults, nil).
			Once()

		uc := NewSettingsUseCase(mockRepo)
		settings, err := uc.Get(ctx)

		assert.NoError(t, err)
		assert.NotNil(t, settings)
		assert.False(t, settings.AllowSelfServiceRegistration)
		assert.Empty(t, settings.DefaultSelfServicePermissions)
		assert.Equal(t, settingsDomain.SettingsKey, settings.Key)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		mockRepo := &mockSettingsRepository{}

		mockRepo.On("GetOrCreate", ctx).
			Return(nil, errors.New("database error")).
			Once()

		uc := NewSettingsUseCase(mockRepo)
		settings, err := uc.Get(ctx)

		assert.Nil(t, settings)
		assert.Error(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestSettingsUseCase_UpdateSelfService(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_EnableWithDefaultPermissions", func(t *testing.T) {
		mockRepo := &mockSettingsRepository{}

		mockRepo.On("Upsert", ctx, mock.MatchedBy(func(s *settingsDomain.GlobalSettings) bool {
			return s.Key == settingsDomain.SettingsKey &&
				s.AllowSelfServiceRegistration &&
				len(s.DefaultSelfServicePermissions) == 2
		})).
			Return(&settingsDomain.GlobalSettings{
				Key:                           settingsDomain.SettingsKey,
				AllowSelfServiceRegistration:  true,
				DefaultSelfServicePermissions: []string{"collections:read", "collections:write"},
			}, nil).
			Once()

		uc := NewSettingsUseCase(mockRepo)
		settings, err := uc.UpdateSelfService(ctx, true, []string{"collections:read", "collections:write"})

		assert.NoError(t, err)
		assert.NotNil(t, settings)
		assert.True(t, settings.AllowSelfServiceRegistration)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success_NilPermissionsBecomeEmptySet", func(t *testing.T) {
		mockRepo := &mockSettingsRepository{}

		mockRepo.On("Upsert", ctx, mock.MatchedBy(func(s *settingsDomain.GlobalSettings) bool {
			return s.DefaultSelfServicePermissions != nil && len(s.DefaultSelfServicePermissions) == 0
		})).
			Return(settingsDomain.NewDefaultSettings(), nil).
			Once()

		uc := NewSettingsUseCase(mockRepo)
		settings, err := uc.UpdateSelfService(ctx, false, nil)

		assert.NoError(t, err)
		assert.NotNil(t, settings)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error_MalformedPermissionName", func(t *testing.T) {
		mockRepo := &mockSettingsRepository{}

		uc := NewSettingsUseCase(mockRepo)
		settings, err := uc.UpdateSelfService(ctx, true, []string{"Collections:Read"})

		assert.Nil(t, settings)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		mockRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("Error_BlankPermissionName", func(t *testing.T) {
		mockRepo := &mockSettingsRepository{}

		uc := NewSettingsUseCase(mockRepo)
		settings, err := uc.UpdateSelfService(ctx, true, []string{"   "})

		assert.Nil(t, settings)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		mockRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}
