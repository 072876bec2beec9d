package dto

import (
	"time"

	credentialDomain "github.com/allisson/warden/internal/credential/domain"
)

// CredentialResponse represents a credential in API responses.
// The secret hash is never exposed.
type CredentialResponse struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Revoked     bool       `json:"revoked"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateCredentialResponse carries the issued credential and the plaintext
// secret. This is the only response that ever contains the secret.
type CreateCredentialResponse struct {
	CredentialResponse
	Secret string `json:"secret"`
}

// ListCredentialsResponse represents a list of credentials in API responses.
type ListCredentialsResponse struct {
	Data []CredentialResponse `json:"data"`
}

// MapCredentialToResponse converts a domain credential to a response.
func MapCredentialToResponse(credential *credentialDomain.Credential) CredentialResponse {
	return CredentialResponse{
		ID:          credential.ID.String(),
		OwnerID:     credential.OwnerID.String(),
		Name:        credential.Name,
		Description: credential.Description,
		ExpiresAt:   credential.ExpiresAt,
		Revoked:     credential.Revoked,
		CreatedAt:   credential.CreatedAt,
	}
}

// MapCredentialToCreateResponse converts an issuance output to a create
// response including the one-time plaintext secret.
func MapCredentialToCreateResponse(output *credentialDomain.GenerateCredentialOutput) CreateCredentialResponse {
	return CreateCredentialResponse{
		CredentialResponse: MapCredentialToResponse(output.Credential),
		Secret:             output.PlainSecret,
	}
}

// MapCredentialsToListResponse converts a slice of domain credentials to a list response.
func MapCredentialsToListResponse(credentials []*credentialDomain.Credential) ListCredentialsResponse {
	data := make([]CredentialResponse, 0, len(credentials))
	for _, credential := range credentials {
		data = append(data, MapCredentialToResponse(credential))
	}

	return ListCredentialsResponse{
		Data: data,
	}
}
