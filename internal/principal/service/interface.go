// Package service provides read-only traversal over the principal creation forest.
//
// The tree service gives the permission propagation engine a consistent
// traversal contract independent of storage details. It never mutates state;
// callers that need a transactionally consistent snapshot invoke it inside a
// database.TxManager.WithTx scope so the repository reads join the transaction.
package service

import (
	"context"

	"github.com/google/uuid"

	principalDomain "github.com/allisson/warden/internal/principal/domain"
)

// TreeRepository defines the persistence operations the tree service traverses over.
type TreeRepository interface {
	// Get retrieves a principal by ID. Returns ErrPrincipalNotFound if not found.
	Get(ctx context.Context, principalID uuid.UUID) (*principalDomain.Principal, error)

	// ChildrenOf retrieves the direct creations of a principal.
	ChildrenOf(ctx context.Context, principalID uuid.UUID) ([]*principalDomain.Principal, error)
}

// TreeService defines read-only queries over the created-by forest.
type TreeService interface {
	// ChildrenOf returns the direct descendants of a principal.
	ChildrenOf(ctx context.Context, principalID uuid.UUID) ([]*principalDomain.Principal, error)

	// SubtreeOf returns all transitive descendants of a principal, each
	// visited exactly once. Returns ErrSubtreeTooLarge when the walk exceeds
	// the configured node limit.
	SubtreeOf(ctx context.Context, principalID uuid.UUID) ([]*principalDomain.Principal, error)

	// IsAncestorOf reports whether ancestor is a direct or transitive creator
	// of descendant, walking the created-by chain upward from descendant.
	IsAncestorOf(ctx context.Context, ancestorID, descendantID uuid.UUID) (bool, error)
}
