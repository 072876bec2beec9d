// Package domain defines the credential domain model.
//
// A credential is an issued access token: the plaintext secret is returned to
// the caller exactly once at issuance and only its SHA-256 digest is ever
// persisted. Lookup is always by re-hashing a presented secret.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Credential represents an issued access token. SecretHash is the only
// representation of the secret that exists after issuance.
type Credential struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	SecretHash  string
	ExpiresAt   *time.Time
	Revoked     bool
	CreatedAt   time.Time
}

// IsValid reports whether the credential can be used for authentication at the
// given instant: not revoked and either non-expiring or not yet expired.
// Pure function over the record; callers must re-fetch the record before
// checking to avoid staleness.
func (c *Credential) IsValid(now time.Time) bool {
	if c.Revoked {
		return false
	}
	if c.ExpiresAt == nil {
		return true
	}
	return c.ExpiresAt.After(now)
}
