// Package usecase implements the permission propagation engine over the
// principal creation forest.
package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/allisson/warden/internal/database"
	apperrors "github.com/allisson/warden/internal/errors"
	outboxDomain "github.com/allisson/warden/internal/outbox/domain"
	principalDomain "github.com/allisson/warden/internal/principal/domain"
	principalService "github.com/allisson/warden/internal/principal/service"
	appValidation "github.com/allisson/warden/internal/validation"
)

// principalUseCase implements PrincipalUseCase.
type principalUseCase struct {
	txManager      database.TxManager
	principalRepo  PrincipalRepository
	credentialRepo CredentialRevoker
	outboxRepo     OutboxEventRepository
	treeService    principalService.TreeService
	settingsReader SettingsReader
}

// validateCreateInput validates principal creation input.
func (p *principalUseCase) validateCreateInput(input *principalDomain.CreatePrincipalInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Contact,
			validation.Required.Error("contact is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("contact must be between 1 and 255 characters"),
		),
		validation.Field(&input.Permissions,
			validation.Each(appValidation.NotBlank, appValidation.PermissionName),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Create stores a new principal. The created-by edge is fixed here and never
// mutated afterwards, which is what keeps the structure a forest: a principal
// can only be created by an already-existing principal, and a revoked creator
// may not create new ones.
func (p *principalUseCase) Create(
	ctx context.Context,
	input *principalDomain.CreatePrincipalInput,
) (*principalDomain.Principal, error) {
	if err := p.validateCreateInput(input); err != nil {
		return nil, err
	}

	principal := &principalDomain.Principal{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        strings.TrimSpace(input.Name),
		Contact:     strings.TrimSpace(input.Contact),
		Department:  strings.TrimSpace(input.Department),
		IsAdmin:     input.IsAdmin,
		Permissions: input.Permissions,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   time.Now().UTC(),
	}

	err := p.txManager.WithTx(ctx, func(ctx context.Context) error {
		if input.CreatedBy != nil {
			creator, err := p.principalRepo.Get(ctx, *input.CreatedBy)
			if err != nil {
				return err
			}
			if creator.IsRevoked() {
				return principalDomain.ErrCreatorRevoked
			}
		}

		if err := p.principalRepo.Create(ctx, principal); err != nil {
			return err
		}

		return p.createOutboxEvent(ctx, outboxDomain.EventTypePrincipalCreated, map[string]any{
			"principal_id": principal.ID,
			"created_by":   principal.CreatedBy,
		})
	})
	if err != nil {
		return nil, err
	}

	return principal, nil
}

// Register performs self-service registration with the globally configured
// default permissions. Registered principals are roots.
func (p *principalUseCase) Register(
	ctx context.Context,
	input *principalDomain.RegisterInput,
) (*principalDomain.Principal, error) {
	settings, err := p.settingsReader.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.AllowSelfServiceRegistration {
		return nil, principalDomain.ErrSelfServiceDisabled
	}

	return p.Create(ctx, &principalDomain.CreatePrincipalInput{
		Name:        input.Name,
		Contact:     input.Contact,
		Department:  input.Department,
		IsAdmin:     false,
		Permissions: settings.DefaultSelfServicePermissions,
		CreatedBy:   nil,
	})
}

// Get retrieves a principal by ID.
func (p *principalUseCase) Get(
	ctx context.Context,
	principalID uuid.UUID,
) (*principalDomain.Principal, error) {
	return p.principalRepo.Get(ctx, principalID)
}

// ChildrenOf retrieves the direct creations of a principal.
func (p *principalUseCase) ChildrenOf(
	ctx context.Context,
	principalID uuid.UUID,
) ([]*principalDomain.Principal, error) {
	return p.principalRepo.ChildrenOf(ctx, principalID)
}

// AddPermission grants a permission to the target and, when propagate is set,
// to every member of its subtree. The subtree snapshot and all member writes
// share one transaction, so either every currently-visible member is updated
// or nothing is. AffectedCount counts principals whose set actually changed,
// not nodes visited.
func (p *principalUseCase) AddPermission(
	ctx context.Context,
	actorID, targetID uuid.UUID,
	permission string,
	propagate bool,
) (*principalDomain.AddPermissionOutput, error) {
	if err := validation.Validate(permission, validation.Required.Error("permission is required"),
		appValidation.NotBlank, appValidation.PermissionName); err != nil {
		return nil, appValidation.WrapValidationError(err)
	}

	var output *principalDomain.AddPermissionOutput

	err := p.txManager.WithTx(ctx, func(ctx context.Context) error {
		target, err := p.principalRepo.Get(ctx, targetID)
		if err != nil {
			return err
		}

		members := []*principalDomain.Principal{target}
		if propagate {
			subtree, err := p.treeService.SubtreeOf(ctx, targetID)
			if err != nil {
				return err
			}
			members = append(members, subtree...)
		}

		affected := 0
		for _, member := range members {
			changed, err := p.principalRepo.AddPermission(ctx, member.ID, permission)
			if err != nil {
				return err
			}
			if changed {
				affected++
			}
		}

		if err := p.createOutboxEvent(ctx, outboxDomain.EventTypePermissionGranted, map[string]any{
			"actor_id":   actorID,
			"target_id":  targetID,
			"permission": permission,
			"propagate":  propagate,
			"affected":   affected,
		}); err != nil {
			return err
		}

		// Reload so the returned principal reflects the grant.
		if target, err = p.principalRepo.Get(ctx, targetID); err != nil {
			return err
		}

		output = &principalDomain.AddPermissionOutput{
			Principal:     target,
			AffectedCount: affected,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

// RevokeCreated revokes the target principal and its entire subtree. An actor
// may only revoke principals inside its own creation subtree; the membership
// check and the cascade share one transaction so the precondition cannot be
// invalidated by a concurrent modification.
func (p *principalUseCase) RevokeCreated(
	ctx context.Context,
	actorID, principalID uuid.UUID,
) (*principalDomain.RevokeOutput, error) {
	var output *principalDomain.RevokeOutput

	err := p.txManager.WithTx(ctx, func(ctx context.Context) error {
		target, err := p.principalRepo.Get(ctx, principalID)
		if err != nil {
			return err
		}

		inSubtree, err := p.treeService.IsAncestorOf(ctx, actorID, principalID)
		if err != nil {
			return err
		}
		if !inSubtree {
			return principalDomain.ErrNotInSubtree
		}

		output, err = p.revokeSubtree(ctx, actorID, []*principalDomain.Principal{target})
		return err
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

// RevokeAllCreated revokes every direct child of the actor and their subtrees.
// The direct-children snapshot and all writes share one transaction, so a
// child created concurrently and committed after the snapshot is excluded
// without producing a partial cascade.
func (p *principalUseCase) RevokeAllCreated(
	ctx context.Context,
	actorID uuid.UUID,
) (*principalDomain.RevokeOutput, error) {
	var output *principalDomain.RevokeOutput

	err := p.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := p.principalRepo.Get(ctx, actorID); err != nil {
			return err
		}

		children, err := p.principalRepo.ChildrenOf(ctx, actorID)
		if err != nil {
			return err
		}

		output, err = p.revokeSubtree(ctx, actorID, children)
		return err
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

// RevokeSelf revokes the acting principal and its own credentials only.
// Idempotent: an already-revoked actor keeps its original revocation instant.
func (p *principalUseCase) RevokeSelf(ctx context.Context, actorID uuid.UUID) (*time.Time, error) {
	var revokedAt *time.Time

	err := p.txManager.WithTx(ctx, func(ctx context.Context) error {
		actor, err := p.principalRepo.Get(ctx, actorID)
		if err != nil {
			return err
		}

		if actor.RevokedAt != nil {
			revokedAt = actor.RevokedAt
		} else {
			now := time.Now().UTC()
			if _, err := p.principalRepo.SetRevokedAt(ctx, actorID, now); err != nil {
				return err
			}
			revokedAt = &now
		}

		if _, err := p.credentialRepo.RevokeByOwner(ctx, actorID); err != nil {
			return err
		}

		return p.createOutboxEvent(ctx, outboxDomain.EventTypePrincipalRevoked, map[string]any{
			"actor_id":    actorID,
			"revoked_ids": []uuid.UUID{actorID},
		})
	})
	if err != nil {
		return nil, err
	}

	return revokedAt, nil
}

// TouchLastUsed records that the principal authenticated now.
func (p *principalUseCase) TouchLastUsed(ctx context.Context, principalID uuid.UUID) error {
	return p.principalRepo.TouchLastUsed(ctx, principalID, time.Now().UTC())
}

// revokeSubtree revokes the given roots and all of their transitive
// descendants. Must run inside a transaction. Every walked member lands in
// RevokedIDs for reporting; AffectedCount counts only the principals that
// actually transitioned to revoked. Credentials owned by walked members are
// revoked so the principals' keys become immediately unusable.
func (p *principalUseCase) revokeSubtree(
	ctx context.Context,
	actorID uuid.UUID,
	roots []*principalDomain.Principal,
) (*principalDomain.RevokeOutput, error) {
	now := time.Now().UTC()

	members := make([]*principalDomain.Principal, 0, len(roots))
	seen := map[uuid.UUID]bool{}

	for _, root := range roots {
		if seen[root.ID] {
			continue
		}
		seen[root.ID] = true
		members = append(members, root)

		subtree, err := p.treeService.SubtreeOf(ctx, root.ID)
		if err != nil {
			return nil, err
		}
		for _, member := range subtree {
			if seen[member.ID] {
				continue
			}
			seen[member.ID] = true
			members = append(members, member)
		}
	}

	output := &principalDomain.RevokeOutput{
		RevokedIDs: make([]uuid.UUID, 0, len(members)),
		RevokedAt:  now,
	}

	for _, member := range members {
		changed, err := p.principalRepo.SetRevokedAt(ctx, member.ID, now)
		if err != nil {
			return nil, err
		}
		if changed {
			output.AffectedCount++
		}

		if _, err := p.credentialRepo.RevokeByOwner(ctx, member.ID); err != nil {
			return nil, err
		}

		output.RevokedIDs = append(output.RevokedIDs, member.ID)
	}

	if len(members) > 0 {
		if err := p.createOutboxEvent(ctx, outboxDomain.EventTypePrincipalRevoked, map[string]any{
			"actor_id":    actorID,
			"revoked_ids": output.RevokedIDs,
			"affected":    output.AffectedCount,
		}); err != nil {
			return nil, err
		}
	}

	return output, nil
}

// createOutboxEvent records an event in the same transaction as the state change.
func (p *principalUseCase) createOutboxEvent(ctx context.Context, eventType string, payload map[string]any) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal event payload")
	}
	return p.outboxRepo.Create(ctx, outboxDomain.NewOutboxEvent(eventType, string(payloadJSON)))
}

// NewPrincipalUseCase creates a new PrincipalUseCase with the provided dependencies.
func NewPrincipalUseCase(
	txManager database.TxManager,
	principalRepo PrincipalRepository,
	credentialRepo CredentialRevoker,
	outboxRepo OutboxEventRepository,
	treeService principalService.TreeService,
	settingsReader SettingsReader,
) PrincipalUseCase {
	return &principalUseCase{
		txManager:      txManager,
		principalRepo:  principalRepo,
		credentialRepo: credentialRepo,
		outboxRepo:     outboxRepo,
		treeService:    treeService,
		settingsReader: settingsReader,
	}
}
