// Package usecase defines business logic interfaces for credential management.
package usecase

import (
	"context"

	"github.com/google/uuid"

	credentialDomain "github.com/allisson/warden/internal/credential/domain"
	outboxDomain "github.com/allisson/warden/internal/outbox/domain"
)

// CredentialRepository defines persistence operations for credentials.
// Implementations must support transaction-aware operations via context propagation.
type CredentialRepository interface {
	// Create stores a new credential. Returns ErrSecretHashConflict if the
	// secret hash collides with an existing record.
	Create(ctx context.Context, credential *credentialDomain.Credential) error

	// Get retrieves a credential by ID. Returns ErrCredentialNotFound if not found.
	Get(ctx context.Context, credentialID uuid.UUID) (*credentialDomain.Credential, error)

	// GetBySecretHash retrieves a credential by its secret hash.
	// Returns ErrCredentialNotFound if not found.
	GetBySecretHash(ctx context.Context, secretHash string) (*credentialDomain.Credential, error)

	// ListByOwner retrieves a page of credentials scoped to an owner, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*credentialDomain.Credential, error)

	// Update modifies an existing credential. Returns ErrCredentialNotFound if not found.
	Update(ctx context.Context, credential *credentialDomain.Credential) error

	// RevokeByOwner revokes every non-revoked credential scoped to an owner and
	// returns the number of credentials that actually changed.
	RevokeByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// Delete removes a credential. Returns ErrCredentialNotFound if not found.
	Delete(ctx context.Context, credentialID uuid.UUID) error
}

// OutboxEventRepository defines the outbox operations the credential module needs.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// CredentialUseCase defines business logic operations for the credential lifecycle.
type CredentialUseCase interface {
	// Generate issues a new credential: draws a 256-bit secret, persists its
	// SHA-256 hash, and returns the plaintext secret exactly once. A secret
	// hash collision is retried internally with a fresh secret a bounded
	// number of times before surfacing as ErrSecretHashConflict.
	Generate(
		ctx context.Context,
		input *credentialDomain.GenerateCredentialInput,
	) (*credentialDomain.GenerateCredentialOutput, error)

	// FindByID retrieves a credential by ID.
	FindByID(ctx context.Context, credentialID uuid.UUID) (*credentialDomain.Credential, error)

	// FindByHash retrieves a credential by its secret hash.
	FindByHash(ctx context.Context, secretHash string) (*credentialDomain.Credential, error)

	// FindByToken re-hashes a presented plaintext secret and retrieves the
	// matching credential. The plaintext is never persisted or logged.
	FindByToken(ctx context.Context, plainSecret string) (*credentialDomain.Credential, error)

	// ListByOwner retrieves a page of credentials scoped to an owner ordered by
	// creation time descending.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*credentialDomain.Credential, error)

	// Revoke marks a credential as revoked. Idempotent: revoking an
	// already-revoked credential succeeds and leaves state unchanged.
	// Returns ErrCredentialNotFound if the credential doesn't exist.
	Revoke(ctx context.Context, credentialID uuid.UUID) (*credentialDomain.Credential, error)

	// Delete hard-removes a credential. Returns ErrCredentialNotFound if absent.
	Delete(ctx context.Context, credentialID uuid.UUID) error
}
