package app

import (
	"fmt"

	principalHTTP "github.com/allisson/warden/internal/principal/http"
	principalRepository "github.com/allisson/warden/internal/principal/repository"
	principalService "github.com/allisson/warden/internal/principal/service"
	principalUseCase "github.com/allisson/warden/internal/principal/usecase"
)

// PrincipalRepository returns the principal repository based on database driver.
func (c *Container) PrincipalRepository() (principalUseCase.PrincipalRepository, error) {
	var err error
	c.principalRepoInit.Do(func() {
		c.principalRepo, err = c.initPrincipalRepository()
		if err != nil {
			c.initErrors["principalRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["principalRepo"]; exists {
		return nil, storedErr
	}
	return c.principalRepo, nil
}

// TreeService returns the creation-tree traversal service.
func (c *Container) TreeService() (principalService.TreeService, error) {
	var err error
	c.treeServiceInit.Do(func() {
		var repo principalUseCase.PrincipalRepository
		repo, err = c.PrincipalRepository()
		if err != nil {
			c.initErrors["treeService"] = err
			return
		}
		c.treeService = principalService.NewTreeService(repo, c.config.CascadeMaxNodes)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["treeService"]; exists {
		return nil, storedErr
	}
	return c.treeService, nil
}

// PrincipalUseCase returns the principal use case, decorated with metrics
// when metrics are enabled.
func (c *Container) PrincipalUseCase() (principalUseCase.PrincipalUseCase, error) {
	var err error
	c.principalUCInit.Do(func() {
		c.principalUC, err = c.initPrincipalUseCase()
		if err != nil {
			c.initErrors["principalUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["principalUseCase"]; exists {
		return nil, storedErr
	}
	return c.principalUC, nil
}

// PrincipalHandler returns the HTTP handler for principal operations.
func (c *Container) PrincipalHandler() (*principalHTTP.PrincipalHandler, error) {
	var err error
	c.principalHandlerInit.Do(func() {
		var useCase principalUseCase.PrincipalUseCase
		useCase, err = c.PrincipalUseCase()
		if err != nil {
			c.initErrors["principalHandler"] = err
			return
		}
		c.principalHandler = principalHTTP.NewPrincipalHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["principalHandler"]; exists {
		return nil, storedErr
	}
	return c.principalHandler, nil
}

// initPrincipalRepository creates the principal repository instance.
func (c *Container) initPrincipalRepository() (principalUseCase.PrincipalRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for principal repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return principalRepository.NewMySQLPrincipalRepository(db), nil
	case "postgres":
		return principalRepository.NewPostgreSQLPrincipalRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initPrincipalUseCase creates the principal use case with all its dependencies.
func (c *Container) initPrincipalUseCase() (principalUseCase.PrincipalUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for principal use case: %w", err)
	}

	principalRepo, err := c.PrincipalRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get principal repository for principal use case: %w", err)
	}

	credentialRepo, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for principal use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for principal use case: %w", err)
	}

	treeService, err := c.TreeService()
	if err != nil {
		return nil, fmt.Errorf("failed to get tree service for principal use case: %w", err)
	}

	settingsUC, err := c.SettingsUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings use case for principal use case: %w", err)
	}

	useCase := principalUseCase.NewPrincipalUseCase(
		txManager,
		principalRepo,
		credentialRepo,
		outboxRepo,
		treeService,
		settingsUC,
	)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for principal use case: %w", err)
	}
	if businessMetrics != nil {
		useCase = principalUseCase.NewPrincipalUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}
