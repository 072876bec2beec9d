package app

import (
	"fmt"

	credentialHTTP "github.com/allisson/warden/internal/credential/http"
	credentialRepository "github.com/allisson/warden/internal/credential/repository"
	credentialService "github.com/allisson/warden/internal/credential/service"
	credentialUseCase "github.com/allisson/warden/internal/credential/usecase"
)

// SecretService returns the secret service for credential issuance and lookup.
func (c *Container) SecretService() credentialService.SecretService {
	c.secretServiceInit.Do(func() {
		c.secretService = credentialService.NewSecretService()
	})
	return c.secretService
}

// CredentialRepository returns the credential repository based on database driver.
func (c *Container) CredentialRepository() (credentialUseCase.CredentialRepository, error) {
	var err error
	c.credentialRepoInit.Do(func() {
		c.credentialRepo, err = c.initCredentialRepository()
		if err != nil {
			c.initErrors["credentialRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialRepo"]; exists {
		return nil, storedErr
	}
	return c.credentialRepo, nil
}

// CredentialUseCase returns the credential use case, decorated with metrics
// when metrics are enabled.
func (c *Container) CredentialUseCase() (credentialUseCase.CredentialUseCase, error) {
	var err error
	c.credentialUCInit.Do(func() {
		c.credentialUC, err = c.initCredentialUseCase()
		if err != nil {
			c.initErrors["credentialUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialUseCase"]; exists {
		return nil, storedErr
	}
	return c.credentialUC, nil
}

// CredentialHandler returns the HTTP handler for credential operations.
func (c *Container) CredentialHandler() (*credentialHTTP.CredentialHandler, error) {
	var err error
	c.credentialHandlerInit.Do(func() {
		var useCase credentialUseCase.CredentialUseCase
		useCase, err = c.CredentialUseCase()
		if err != nil {
			c.initErrors["credentialHandler"] = err
			return
		}
		c.credentialHandler = credentialHTTP.NewCredentialHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialHandler"]; exists {
		return nil, storedErr
	}
	return c.credentialHandler, nil
}

// initCredentialRepository creates the credential repository instance.
func (c *Container) initCredentialRepository() (credentialUseCase.CredentialRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for credential repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return credentialRepository.NewMySQLCredentialRepository(db), nil
	case "postgres":
		return credentialRepository.NewPostgreSQLCredentialRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCredentialUseCase creates the credential use case with all its dependencies.
func (c *Container) initCredentialUseCase() (credentialUseCase.CredentialUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for credential use case: %w", err)
	}

	credentialRepo, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for credential use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for credential use case: %w", err)
	}

	useCase := credentialUseCase.NewCredentialUseCase(
		c.config,
		txManager,
		credentialRepo,
		outboxRepo,
		c.SecretService(),
	)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for credential use case: %w", err)
	}
	if businessMetrics != nil {
		useCase = credentialUseCase.NewCredentialUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}
