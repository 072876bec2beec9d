// Package http provides HTTP handlers for credential lifecycle operations.
// The plaintext secret appears in exactly one response: the issuance reply.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	credentialDomain "github.com/allisson/warden/internal/credential/domain"
	"github.com/allisson/warden/internal/credential/http/dto"
	credentialUseCase "github.com/allisson/warden/internal/credential/usecase"
	apperrors "github.com/allisson/warden/internal/errors"
	"github.com/allisson/warden/internal/httputil"
	principalDomain "github.com/allisson/warden/internal/principal/domain"
	principalHTTP "github.com/allisson/warden/internal/principal/http"
	customValidation "github.com/allisson/warden/internal/validation"
)

// CredentialHandler handles HTTP requests for credential lifecycle operations.
type CredentialHandler struct {
	credentialUseCase credentialUseCase.CredentialUseCase
	logger            *slog.Logger
}

// NewCredentialHandler creates a new credential handler with required dependencies.
func NewCredentialHandler(
	useCase credentialUseCase.CredentialUseCase,
	logger *slog.Logger,
) *CredentialHandler {
	return &CredentialHandler{
		credentialUseCase: useCase,
		logger:            logger,
	}
}

// CreateHandler issues a new credential owned by the authenticated principal.
// POST /v1/credentials
// Returns 201 Created with credential metadata and the one-time plaintext secret.
func (h *CredentialHandler) CreateHandler(c *gin.Context) {
	actor, ok := principalHTTP.GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.credentialUseCase.Generate(c.Request.Context(), &credentialDomain.GenerateCredentialInput{
		OwnerID:     actor.ID,
		Name:        req.Name,
		Description: req.Description,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapCredentialToCreateResponse(output)
	c.JSON(http.StatusCreated, response)
}

// ListHandler retrieves a page of the authenticated principal's credentials,
// newest first.
// GET /v1/credentials?offset=0&limit=50
// Returns 200 OK. The secret hash is never included.
func (h *CredentialHandler) ListHandler(c *gin.Context) {
	actor, ok := principalHTTP.GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	credentials, err := h.credentialUseCase.ListByOwner(c.Request.Context(), actor.ID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapCredentialsToListResponse(credentials)
	c.JSON(http.StatusOK, response)
}

// GetHandler retrieves a credential by ID.
// GET /v1/credentials/:id
// Returns 200 OK. Non-owners receive 404 so foreign credential IDs leak nothing.
func (h *CredentialHandler) GetHandler(c *gin.Context) {
	credential, ok := h.loadOwnedCredential(c)
	if !ok {
		return
	}

	response := dto.MapCredentialToResponse(credential)
	c.JSON(http.StatusOK, response)
}

// RevokeHandler marks a credential as revoked. Idempotent.
// POST /v1/credentials/:id/revoke
// Returns 200 OK with the updated credential.
func (h *CredentialHandler) RevokeHandler(c *gin.Context) {
	credential, ok := h.loadOwnedCredential(c)
	if !ok {
		return
	}

	revoked, err := h.credentialUseCase.Revoke(c.Request.Context(), credential.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapCredentialToResponse(revoked)
	c.JSON(http.StatusOK, response)
}

// DeleteHandler hard-removes a credential.
// DELETE /v1/credentials/:id
// Returns 204 No Content.
func (h *CredentialHandler) DeleteHandler(c *gin.Context) {
	credential, ok := h.loadOwnedCredential(c)
	if !ok {
		return
	}

	if err := h.credentialUseCase.Delete(c.Request.Context(), credential.ID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// loadOwnedCredential parses the :id parameter, fetches the credential and
// enforces ownership. Administrators can access any credential; everyone else
// gets 404 for credentials they don't own. Writes the error response and
// returns ok=false on failure.
func (h *CredentialHandler) loadOwnedCredential(c *gin.Context) (*credentialDomain.Credential, bool) {
	actor, ok := principalHTTP.GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return nil, false
	}

	credentialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return nil, false
	}

	credential, err := h.credentialUseCase.FindByID(c.Request.Context(), credentialID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return nil, false
	}

	if !canAccessCredential(actor, credential) {
		httputil.HandleErrorGin(c, credentialDomain.ErrCredentialNotFound, h.logger)
		return nil, false
	}

	return credential, true
}

// canAccessCredential reports whether the actor may operate on the credential.
func canAccessCredential(actor *principalDomain.Principal, credential *credentialDomain.Credential) bool {
	return actor.IsAdmin || actor.ID == credential.OwnerID
}
