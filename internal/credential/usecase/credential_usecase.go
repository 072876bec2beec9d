// Package usecase implements business logic orchestration for the credential lifecycle.
package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/allisson/warden/internal/config"
	credentialDomain "github.com/allisson/warden/internal/credential/domain"
	credentialService "github.com/allisson/warden/internal/credential/service"
	"github.com/allisson/warden/internal/database"
	apperrors "github.com/allisson/warden/internal/errors"
	outboxDomain "github.com/allisson/warden/internal/outbox/domain"
	appValidation "github.com/allisson/warden/internal/validation"
)

// credentialUseCase implements CredentialUseCase.
type credentialUseCase struct {
	config         *config.Config
	txManager      database.TxManager
	credentialRepo CredentialRepository
	outboxRepo     OutboxEventRepository
	secretService  credentialService.SecretService
}

// validateGenerateInput validates credential issuance input. Name and
// description are optional display metadata; when present they are bounded.
func (c *credentialUseCase) validateGenerateInput(input *credentialDomain.GenerateCredentialInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Name,
			validation.Length(0, 255).Error("name must be at most 255 characters"),
		),
		validation.Field(&input.Description,
			validation.Length(0, 1024).Error("description must be at most 1024 characters"),
		),
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}
	if input.OwnerID == uuid.Nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "owner id is required")
	}
	return nil
}

// Generate issues a new credential.
//
// The secret is drawn from crypto/rand with 256 bits of entropy and only its
// SHA-256 hash is persisted. The unique index on secret_hash turns the
// (negligible-probability) collision case into ErrSecretHashConflict, which is
// retried internally with a fresh secret up to IssuanceMaxAttempts times; an
// existing record is never corrupted. The plaintext secret is returned exactly
// once and never logged.
func (c *credentialUseCase) Generate(
	ctx context.Context,
	input *credentialDomain.GenerateCredentialInput,
) (*credentialDomain.GenerateCredentialOutput, error) {
	if err := c.validateGenerateInput(input); err != nil {
		return nil, err
	}

	attempts := c.config.IssuanceMaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		plainSecret, secretHash, err := c.secretService.GenerateSecret()
		if err != nil {
			return nil, err
		}

		credential := &credentialDomain.Credential{
			ID:          uuid.Must(uuid.NewV7()),
			OwnerID:     input.OwnerID,
			Name:        strings.TrimSpace(input.Name),
			Description: strings.TrimSpace(input.Description),
			SecretHash:  secretHash,
			ExpiresAt:   input.ExpiresAt,
			Revoked:     false,
			CreatedAt:   time.Now().UTC(),
		}

		err = c.txManager.WithTx(ctx, func(ctx context.Context) error {
			if err := c.credentialRepo.Create(ctx, credential); err != nil {
				return err
			}
			return c.createOutboxEvent(ctx, outboxDomain.EventTypeCredentialIssued, map[string]any{
				"credential_id": credential.ID,
				"owner_id":      credential.OwnerID,
			})
		})
		if err != nil {
			if errors.Is(err, credentialDomain.ErrSecretHashConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}

		return &credentialDomain.GenerateCredentialOutput{
			Credential:  credential,
			PlainSecret: plainSecret,
		}, nil
	}

	return nil, lastErr
}

// FindByID retrieves a credential by ID.
func (c *credentialUseCase) FindByID(
	ctx context.Context,
	credentialID uuid.UUID,
) (*credentialDomain.Credential, error) {
	return c.credentialRepo.Get(ctx, credentialID)
}

// FindByHash retrieves a credential by its secret hash.
func (c *credentialUseCase) FindByHash(
	ctx context.Context,
	secretHash string,
) (*credentialDomain.Credential, error) {
	return c.credentialRepo.GetBySecretHash(ctx, secretHash)
}

// FindByToken re-hashes the presented secret and delegates to FindByHash.
// The plaintext never reaches the repository or the logs.
func (c *credentialUseCase) FindByToken(
	ctx context.Context,
	plainSecret string,
) (*credentialDomain.Credential, error) {
	return c.credentialRepo.GetBySecretHash(ctx, c.secretService.HashSecret(plainSecret))
}

// ListByOwner retrieves a page of credentials scoped to an owner, newest first.
func (c *credentialUseCase) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*credentialDomain.Credential, error) {
	return c.credentialRepo.ListByOwner(ctx, ownerID, offset, limit)
}

// Revoke marks a credential as revoked inside a transaction so the existence
// check and the flag flip are atomic. Revoking an already-revoked credential
// succeeds and leaves state unchanged.
func (c *credentialUseCase) Revoke(
	ctx context.Context,
	credentialID uuid.UUID,
) (*credentialDomain.Credential, error) {
	var credential *credentialDomain.Credential

	err := c.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		credential, err = c.credentialRepo.Get(ctx, credentialID)
		if err != nil {
			return err
		}

		if credential.Revoked {
			return nil
		}

		credential.Revoked = true
		if err := c.credentialRepo.Update(ctx, credential); err != nil {
			return err
		}

		return c.createOutboxEvent(ctx, outboxDomain.EventTypeCredentialRevoked, map[string]any{
			"credential_id": credential.ID,
			"owner_id":      credential.OwnerID,
		})
	})
	if err != nil {
		return nil, err
	}

	return credential, nil
}

// Delete hard-removes a credential. Returns ErrCredentialNotFound if absent.
func (c *credentialUseCase) Delete(ctx context.Context, credentialID uuid.UUID) error {
	return c.credentialRepo.Delete(ctx, credentialID)
}

// createOutboxEvent records an event in the same transaction as the state change.
func (c *credentialUseCase) createOutboxEvent(ctx context.Context, eventType string, payload map[string]any) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal event payload")
	}
	return c.outboxRepo.Create(ctx, outboxDomain.NewOutboxEvent(eventType, string(payloadJSON)))
}

// NewCredentialUseCase creates a new CredentialUseCase with the provided dependencies.
func NewCredentialUseCase(
	cfg *config.Config,
	txManager database.TxManager,
	credentialRepo CredentialRepository,
	outboxRepo OutboxEventRepository,
	secretService credentialService.SecretService,
) CredentialUseCase {
	return &credentialUseCase{
		config:         cfg,
		txManager:      txManager,
		credentialRepo: credentialRepo,
		outboxRepo:     outboxRepo,
		secretService:  secretService,
	}
}
