package app

import (
	"fmt"

	settingsHTTP "github.com/allisson/warden/internal/settings/http"
	settingsRepository "github.com/allisson/warden/internal/settings/repository"
	settingsUseCase "github.com/allisson/warden/internal/settings/usecase"
)

// SettingsRepository returns the settings repository based on database driver.
func (c *Container) SettingsRepository() (settingsUseCase.SettingsRepository, error) {
	var err error
	c.settingsRepoInit.Do(func() {
		c.settingsRepo, err = c.initSettingsRepository()
		if err != nil {
			c.initErrors["settingsRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["settingsRepo"]; exists {
		return nil, storedErr
	}
	return c.settingsRepo, nil
}

// SettingsUseCase returns the settings use case instance.
func (c *Container) SettingsUseCase() (settingsUseCase.SettingsUseCase, error) {
	var err error
	c.settingsUCInit.Do(func() {
		var repo settingsUseCase.SettingsRepository
		repo, err = c.SettingsRepository()
		if err != nil {
			c.initErrors["settingsUseCase"] = err
			return
		}
		c.settingsUC = settingsUseCase.NewSettingsUseCase(repo)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["settingsUseCase"]; exists {
		return nil, storedErr
	}
	return c.settingsUC, nil
}

// SettingsHandler returns the HTTP handler for global settings operations.
func (c *Container) SettingsHandler() (*settingsHTTP.SettingsHandler, error) {
	var err error
	c.settingsHandlerInit.Do(func() {
		var useCase settingsUseCase.SettingsUseCase
		useCase, err = c.SettingsUseCase()
		if err != nil {
			c.initErrors["settingsHandler"] = err
			return
		}
		c.settingsHandler = settingsHTTP.NewSettingsHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["settingsHandler"]; exists {
		return nil, storedErr
	}
	return c.settingsHandler, nil
}

// initSettingsRepository creates the settings repository instance.
func (c *Container) initSettingsRepository() (settingsUseCase.SettingsRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for settings repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return settingsRepository.NewMySQLSettingsRepository(db), nil
	case "postgres":
		return settingsRepository.NewPostgreSQLSettingsRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}
