package domain

import (
	"github.com/allisson/warden/internal/errors"
)

// Credential errors.
var (
	// ErrCredentialNotFound indicates a credential with the specified ID or hash was not found.
	ErrCredentialNotFound = errors.Wrap(errors.ErrNotFound, "credential not found")

	// ErrSecretHashConflict indicates the generated secret hash collides with an
	// existing record. With 256 bits of entropy this is effectively unreachable;
	// issuance retries internally with a fresh secret before surfacing it.
	ErrSecretHashConflict = errors.Wrap(errors.ErrConflict, "secret hash already exists")
)
