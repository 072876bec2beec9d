package domain

import (
	"time"

	"github.com/google/uuid"
)

// CreatePrincipalInput contains the input data for principal creation.
// CreatedBy is nil for roots (e.g. bootstrap admins) and fixed forever after.
type CreatePrincipalInput struct {
	Name        string
	Contact     string
	Department  string
	IsAdmin     bool
	Permissions []string
	CreatedBy   *uuid.UUID
}

// RegisterInput contains the input data for self-service registration.
// Granted permissions come from the global settings defaults, not the caller.
type RegisterInput struct {
	Name       string
	Contact    string
	Department string
}

// AddPermissionOutput reports the result of a permission grant.
// AffectedCount is the number of principals whose permission set actually
// changed; principals that already held the permission are not counted.
type AddPermissionOutput struct {
	Principal     *Principal
	AffectedCount int
}

// RevokeOutput reports the result of a cascading revocation. RevokedIDs lists
// every principal in the walked subtree, including members that were already
// revoked; AffectedCount is the number that actually transitioned to revoked.
type RevokeOutput struct {
	RevokedIDs    []uuid.UUID
	AffectedCount int
	RevokedAt     time.Time
}
