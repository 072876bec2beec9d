package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/warden/internal/metrics"
	principalDomain "github.com/allisson/warden/internal/principal/domain"
)

// principalUseCaseWithMetrics decorates PrincipalUseCase with metrics instrumentation.
type principalUseCaseWithMetrics struct {
	next    PrincipalUseCase
	metrics metrics.BusinessMetrics
}

// NewPrincipalUseCaseWithMetrics wraps a PrincipalUseCase with metrics recording.
func NewPrincipalUseCaseWithMetrics(useCase PrincipalUseCase, m metrics.BusinessMetrics) PrincipalUseCase {
	return &principalUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record registers the operation count and duration with a success/error status.
func (p *principalUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	p.metrics.RecordOperation(ctx, "principal", operation, status)
	p.metrics.RecordDuration(ctx, "principal", operation, time.Since(start), status)
}

// Create records metrics for principal creation.
func (p *principalUseCaseWithMetrics) Create(
	ctx context.Context,
	input *principalDomain.CreatePrincipalInput,
) (*principalDomain.Principal, error) {
	start := time.Now()
	principal, err := p.next.Create(ctx, input)
	p.record(ctx, "create", start, err)
	return principal, err
}

// Register records metrics for self-service registration.
func (p *principalUseCaseWithMetrics) Register(
	ctx context.Context,
	input *principalDomain.RegisterInput,
) (*principalDomain.Principal, error) {
	start := time.Now()
	principal, err := p.next.Register(ctx, input)
	p.record(ctx, "register", start, err)
	return principal, err
}

// Get records metrics for principal retrieval.
func (p *principalUseCaseWithMetrics) Get(
	ctx context.Context,
	principalID uuid.UUID,
) (*principalDomain.Principal, error) {
	start := time.Now()
	principal, err := p.next.Get(ctx, principalID)
	p.record(ctx, "get", start, err)
	return principal, err
}

// ChildrenOf records metrics for children listing.
func (p *principalUseCaseWithMetrics) ChildrenOf(
	ctx context.Context,
	principalID uuid.UUID,
) ([]*principalDomain.Principal, error) {
	start := time.Now()
	children, err := p.next.ChildrenOf(ctx, principalID)
	p.record(ctx, "children_of", start, err)
	return children, err
}

// AddPermission records metrics for permission grants, including cascade size.
func (p *principalUseCaseWithMetrics) AddPermission(
	ctx context.Context,
	actorID, targetID uuid.UUID,
	permission string,
	propagate bool,
) (*principalDomain.AddPermissionOutput, error) {
	start := time.Now()
	output, err := p.next.AddPermission(ctx, actorID, targetID, permission, propagate)
	p.record(ctx, "add_permission", start, err)
	if err == nil {
		p.metrics.RecordAffected(ctx, "principal", "add_permission", int64(output.AffectedCount))
	}
	return output, err
}

// RevokeCreated records metrics for subtree revocation, including cascade size.
func (p *principalUseCaseWithMetrics) RevokeCreated(
	ctx context.Context,
	actorID, principalID uuid.UUID,
) (*principalDomain.RevokeOutput, error) {
	start := time.Now()
	output, err := p.next.RevokeCreated(ctx, actorID, principalID)
	p.record(ctx, "revoke_created", start, err)
	if err == nil {
		p.metrics.RecordAffected(ctx, "principal", "revoke_created", int64(output.AffectedCount))
	}
	return output, err
}

// RevokeAllCreated records metrics for full-children revocation, including cascade size.
func (p *principalUseCaseWithMetrics) RevokeAllCreated(
	ctx context.Context,
	actorID uuid.UUID,
) (*principalDomain.RevokeOutput, error) {
	start := time.Now()
	output, err := p.next.RevokeAllCreated(ctx, actorID)
	p.record(ctx, "revoke_all_created", start, err)
	if err == nil {
		p.metrics.RecordAffected(ctx, "principal", "revoke_all_created", int64(output.AffectedCount))
	}
	return output, err
}

// RevokeSelf records metrics for self-revocation.
func (p *principalUseCaseWithMetrics) RevokeSelf(ctx context.Context, actorID uuid.UUID) (*time.Time, error) {
	start := time.Now()
	revokedAt, err := p.next.RevokeSelf(ctx, actorID)
	p.record(ctx, "revoke_self", start, err)
	return revokedAt, err
}

// TouchLastUsed passes through without metrics; it runs on every
// authenticated request and is already covered by HTTP metrics.
func (p *principalUseCaseWithMetrics) TouchLastUsed(ctx context.Context, principalID uuid.UUID) error {
	return p.next.TouchLastUsed(ctx, principalID)
}
