package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	credentialDomain "github.com/allisson/warden/internal/credential/domain"
	"github.com/allisson/warden/internal/metrics"
)

// credentialUseCaseWithMetrics decorates CredentialUseCase with metrics instrumentation.
type credentialUseCaseWithMetrics struct {
	next    CredentialUseCase
	metrics metrics.BusinessMetrics
}

// NewCredentialUseCaseWithMetrics wraps a CredentialUseCase with metrics recording.
func NewCredentialUseCaseWithMetrics(useCase CredentialUseCase, m metrics.BusinessMetrics) CredentialUseCase {
	return &credentialUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record registers the operation count and duration with a success/error status.
func (c *credentialUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.metrics.RecordOperation(ctx, "credential", operation, status)
	c.metrics.RecordDuration(ctx, "credential", operation, time.Since(start), status)
}

// Generate records metrics for credential issuance.
func (c *credentialUseCaseWithMetrics) Generate(
	ctx context.Context,
	input *credentialDomain.GenerateCredentialInput,
) (*credentialDomain.GenerateCredentialOutput, error) {
	start := time.Now()
	output, err := c.next.Generate(ctx, input)
	c.record(ctx, "generate", start, err)
	return output, err
}

// FindByID records metrics for credential retrieval by ID.
func (c *credentialUseCaseWithMetrics) FindByID(
	ctx context.Context,
	credentialID uuid.UUID,
) (*credentialDomain.Credential, error) {
	start := time.Now()
	credential, err := c.next.FindByID(ctx, credentialID)
	c.record(ctx, "find_by_id", start, err)
	return credential, err
}

// FindByHash records metrics for credential retrieval by hash.
func (c *credentialUseCaseWithMetrics) FindByHash(
	ctx context.Context,
	secretHash string,
) (*credentialDomain.Credential, error) {
	start := time.Now()
	credential, err := c.next.FindByHash(ctx, secretHash)
	c.record(ctx, "find_by_hash", start, err)
	return credential, err
}

// FindByToken records metrics for credential retrieval by presented secret.
func (c *credentialUseCaseWithMetrics) FindByToken(
	ctx context.Context,
	plainSecret string,
) (*credentialDomain.Credential, error) {
	start := time.Now()
	credential, err := c.next.FindByToken(ctx, plainSecret)
	c.record(ctx, "find_by_token", start, err)
	return credential, err
}

// ListByOwner records metrics for credential listing.
func (c *credentialUseCaseWithMetrics) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*credentialDomain.Credential, error) {
	start := time.Now()
	credentials, err := c.next.ListByOwner(ctx, ownerID, offset, limit)
	c.record(ctx, "list_by_owner", start, err)
	return credentials, err
}

// Revoke records metrics for credential revocation.
func (c *credentialUseCaseWithMetrics) Revoke(
	ctx context.Context,
	credentialID uuid.UUID,
) (*credentialDomain.Credential, error) {
	start := time.Now()
	credential, err := c.next.Revoke(ctx, credentialID)
	c.record(ctx, "revoke", start, err)
	return credential, err
}

// Delete records metrics for credential deletion.
func (c *credentialUseCaseWithMetrics) Delete(ctx context.Context, credentialID uuid.UUID) error {
	start := time.Now()
	err := c.next.Delete(ctx, credentialID)
	c.record(ctx, "delete", start, err)
	return err
}
