// Package domain defines the principal domain model.
//
// Principals form a forest through the created-by relation: a principal can
// only be created by an already-existing principal and its creator is fixed at
// creation, so no cycles can form. Revocation is a flag, not deletion; a
// revoked principal keeps its tree position so cascades over its subtree
// remain well-defined.
package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Principal represents a user or API-key holder capable of holding permissions
// and creating other principals.
type Principal struct {
	ID          uuid.UUID
	Name        string
	Contact     string
	Department  string
	IsAdmin     bool
	Permissions []string
	CreatedBy   *uuid.UUID
	CreatedAt   time.Time
	LastUsedAt  *time.Time
	RevokedAt   *time.Time
}

// IsRevoked reports whether the principal has been revoked.
func (p *Principal) IsRevoked() bool {
	return p.RevokedAt != nil
}

// HasPermission reports whether the principal holds the named permission.
// Permissions are a set: membership is all that matters.
func (p *Principal) HasPermission(permission string) bool {
	return slices.Contains(p.Permissions, permission)
}
