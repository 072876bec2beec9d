package domain

import (
	"github.com/allisson/warden/internal/errors"
)

// Principal errors.
var (
	// ErrPrincipalNotFound indicates a principal with the specified ID was not found.
	ErrPrincipalNotFound = errors.Wrap(errors.ErrNotFound, "principal not found")

	// ErrNotInSubtree indicates the actor attempted to revoke a principal
	// outside its own creation subtree.
	ErrNotInSubtree = errors.Wrap(errors.ErrForbidden, "principal is not in the actor's subtree")

	// ErrCreatorRevoked indicates the creating principal has been revoked and
	// may no longer create principals.
	ErrCreatorRevoked = errors.Wrap(errors.ErrInvalidState, "creating principal is revoked")

	// ErrSubtreeTooLarge indicates a cascade would exceed the configured
	// traversal limit, bounding transaction duration on large subtrees.
	ErrSubtreeTooLarge = errors.Wrap(errors.ErrInvalidState, "subtree exceeds traversal limit")

	// ErrSelfServiceDisabled indicates self-service registration is disabled
	// in the global settings.
	ErrSelfServiceDisabled = errors.Wrap(errors.ErrForbidden, "self-service registration is disabled")
)
