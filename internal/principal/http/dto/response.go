package dto

import (
	"time"

	"github.com/google/uuid"

	principalDomain "github.com/allisson/warden/internal/principal/domain"
)

// PrincipalResponse represents a principal in API responses.
type PrincipalResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Contact     string     `json:"contact,omitempty"`
	Department  string     `json:"department,omitempty"`
	IsAdmin     bool       `json:"is_admin"`
	Permissions []string   `json:"permissions"`
	CreatedBy   *string    `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

// ListPrincipalsResponse represents a list of principals in API responses.
type ListPrincipalsResponse struct {
	Data []PrincipalResponse `json:"data"`
}

// AddPermissionResponse reports the result of a permission grant.
type AddPermissionResponse struct {
	Principal     PrincipalResponse `json:"principal"`
	AffectedCount int               `json:"affected_count"`
}

// RevokeResponse reports the result of a cascading revocation.
type RevokeResponse struct {
	RevokedIDs    []string  `json:"revoked_ids"`
	AffectedCount int       `json:"affected_count"`
	RevokedAt     time.Time `json:"revoked_at"`
}

// RevokeSelfResponse reports the instant a principal revoked itself.
type RevokeSelfResponse struct {
	RevokedAt time.Time `json:"revoked_at"`
}

// MapPrincipalToResponse converts a domain principal to a response.
func MapPrincipalToResponse(principal *principalDomain.Principal) PrincipalResponse {
	var createdBy *string
	if principal.CreatedBy != nil {
		s := principal.CreatedBy.String()
		createdBy = &s
	}

	permissions := principal.Permissions
	if permissions == nil {
		permissions = []string{}
	}

	return PrincipalResponse{
		ID:          principal.ID.String(),
		Name:        principal.Name,
		Contact:     principal.Contact,
		Department:  principal.Department,
		IsAdmin:     principal.IsAdmin,
		Permissions: permissions,
		CreatedBy:   createdBy,
		CreatedAt:   principal.CreatedAt,
		LastUsedAt:  principal.LastUsedAt,
		RevokedAt:   principal.RevokedAt,
	}
}

// MapPrincipalsToListResponse converts a slice of domain principals to a list response.
func MapPrincipalsToListResponse(principals []*principalDomain.Principal) ListPrincipalsResponse {
	data := make([]PrincipalResponse, 0, len(principals))
	for _, principal := range principals {
		data = append(data, MapPrincipalToResponse(principal))
	}

	return ListPrincipalsResponse{
		Data: data,
	}
}

// MapAddPermissionToResponse converts a grant output to a response.
func MapAddPermissionToResponse(output *principalDomain.AddPermissionOutput) AddPermissionResponse {
	return AddPermissionResponse{
		Principal:     MapPrincipalToResponse(output.Principal),
		AffectedCount: output.AffectedCount,
	}
}

// MapRevokeToResponse converts a cascading revocation output to a response.
func MapRevokeToResponse(output *principalDomain.RevokeOutput) RevokeResponse {
	return RevokeResponse{
		RevokedIDs:    mapUUIDs(output.RevokedIDs),
		AffectedCount: output.AffectedCount,
		RevokedAt:     output.RevokedAt,
	}
}

// mapUUIDs converts a slice of UUIDs to their string form.
func mapUUIDs(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
