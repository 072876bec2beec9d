// Package usecase defines business logic interfaces for principal management
// and permission propagation.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	outboxDomain "github.com/allisson/warden/internal/outbox/domain"
	principalDomain "github.com/allisson/warden/internal/principal/domain"
	settingsDomain "github.com/allisson/warden/internal/settings/domain"
)

// PrincipalRepository defines persistence operations for principals.
// Implementations must support transaction-aware operations via context propagation.
type PrincipalRepository interface {
	// Create stores a new principal and its initial permission set.
	Create(ctx context.Context, principal *principalDomain.Principal) error

	// Get retrieves a principal by ID with its permission set loaded.
	// Returns ErrPrincipalNotFound if not found.
	Get(ctx context.Context, principalID uuid.UUID) (*principalDomain.Principal, error)

	// ChildrenOf retrieves the direct creations of a principal.
	ChildrenOf(ctx context.Context, principalID uuid.UUID) ([]*principalDomain.Principal, error)

	// AddPermission grants a permission. Returns true only when the permission
	// set actually changed (idempotent set-union).
	AddPermission(ctx context.Context, principalID uuid.UUID, permission string) (bool, error)

	// SetRevokedAt marks a principal revoked. Returns true only when the
	// principal actually transitioned from active to revoked.
	SetRevokedAt(ctx context.Context, principalID uuid.UUID, revokedAt time.Time) (bool, error)

	// TouchLastUsed updates the principal's last-used instant.
	TouchLastUsed(ctx context.Context, principalID uuid.UUID, lastUsedAt time.Time) error
}

// CredentialRevoker revokes credentials as a side effect of principal
// revocation, making a revoked principal's keys immediately unusable.
type CredentialRevoker interface {
	RevokeByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

// OutboxEventRepository defines the outbox operations the principal module needs.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// SettingsReader provides the global settings for self-service registration.
type SettingsReader interface {
	Get(ctx context.Context) (*settingsDomain.GlobalSettings, error)
}

// PrincipalUseCase defines business logic operations for principals: creation,
// permission grants, and cascading revocation over the creation forest.
type PrincipalUseCase interface {
	// Create stores a new principal. When CreatedBy is set, the creator must
	// exist and must not be revoked.
	Create(
		ctx context.Context,
		input *principalDomain.CreatePrincipalInput,
	) (*principalDomain.Principal, error)

	// Register performs self-service registration: allowed only when enabled
	// in global settings, granting the configured default permissions. The
	// registered principal is a root (no creator).
	Register(ctx context.Context, input *principalDomain.RegisterInput) (*principalDomain.Principal, error)

	// Get retrieves a principal by ID.
	Get(ctx context.Context, principalID uuid.UUID) (*principalDomain.Principal, error)

	// ChildrenOf retrieves the direct creations of a principal.
	ChildrenOf(ctx context.Context, principalID uuid.UUID) ([]*principalDomain.Principal, error)

	// AddPermission grants a permission to the target and, when propagate is
	// set, to every member of the target's subtree within one transaction.
	// AffectedCount is the number of principals whose permission set actually
	// changed. Returns ErrPrincipalNotFound if the target doesn't exist.
	AddPermission(
		ctx context.Context,
		actorID, targetID uuid.UUID,
		permission string,
		propagate bool,
	) (*principalDomain.AddPermissionOutput, error)

	// RevokeCreated revokes the target principal and its entire subtree within
	// one transaction, revoking owned credentials as a side effect. Returns
	// ErrNotInSubtree when the target is not a direct or transitive creation
	// of the actor.
	RevokeCreated(ctx context.Context, actorID, principalID uuid.UUID) (*principalDomain.RevokeOutput, error)

	// RevokeAllCreated revokes every direct child of the actor and their
	// subtrees, computed over one transaction so the view of direct children
	// is consistent.
	RevokeAllCreated(ctx context.Context, actorID uuid.UUID) (*principalDomain.RevokeOutput, error)

	// RevokeSelf revokes the acting principal and its own credentials only;
	// descendants are never touched. Returns the revocation instant.
	RevokeSelf(ctx context.Context, actorID uuid.UUID) (*time.Time, error)

	// TouchLastUsed records that the principal authenticated now.
	TouchLastUsed(ctx context.Context, principalID uuid.UUID) error
}
