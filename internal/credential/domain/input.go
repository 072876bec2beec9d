package domain

import (
	"time"

	"github.com/google/uuid"
)

// GenerateCredentialInput contains the input data for credential issuance.
type GenerateCredentialInput struct {
	OwnerID     uuid.UUID
	Name        string
	Description string
	ExpiresAt   *time.Time
}

// GenerateCredentialOutput contains the issued credential and the plaintext
// secret. The secret is returned exactly once; it is the caller's sole
// responsibility to transmit it.
type GenerateCredentialOutput struct {
	Credential  *Credential
	PlainSecret string
}
