package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/allisson/warden/internal/errors"
	"github.com/allisson/warden/internal/httputil"
	principalDomain "github.com/allisson/warden/internal/principal/domain"
	"github.com/allisson/warden/internal/principal/http/dto"
	principalUseCase "github.com/allisson/warden/internal/principal/usecase"
	customValidation "github.com/allisson/warden/internal/validation"
)

// PrincipalHandler handles HTTP requests for principal management: creation,
// registration, permission grants and cascading revocation.
type PrincipalHandler struct {
	principalUseCase principalUseCase.PrincipalUseCase
	logger           *slog.Logger
}

// NewPrincipalHandler creates a new principal handler with required dependencies.
func NewPrincipalHandler(
	useCase principalUseCase.PrincipalUseCase,
	logger *slog.Logger,
) *PrincipalHandler {
	return &PrincipalHandler{
		principalUseCase: useCase,
		logger:           logger,
	}
}

// CreateHandler creates a new principal with the authenticated principal as creator.
// POST /v1/principals
// Only administrators may create other administrators.
// Returns 201 Created.
func (h *PrincipalHandler) CreateHandler(c *gin.Context) {
	actor, ok := GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreatePrincipalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if req.IsAdmin && !actor.IsAdmin {
		httputil.HandleErrorGin(c, apperrors.ErrForbidden, h.logger)
		return
	}

	createdBy := actor.ID
	principal, err := h.principalUseCase.Create(c.Request.Context(), &principalDomain.CreatePrincipalInput{
		Name:        req.Name,
		Contact:     req.Contact,
		Department:  req.Department,
		IsAdmin:     req.IsAdmin,
		Permissions: req.Permissions,
		CreatedBy:   &createdBy,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapPrincipalToResponse(principal)
	c.JSON(http.StatusCreated, response)
}

// RegisterHandler performs self-service registration.
// POST /v1/register - No authentication required.
// Allowed only while enabled in global settings; the new principal is a root
// holding the configured default permissions.
// Returns 201 Created.
func (h *PrincipalHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterPrincipalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	principal, err := h.principalUseCase.Register(c.Request.Context(), &principalDomain.RegisterInput{
		Name:       req.Name,
		Contact:    req.Contact,
		Department: req.Department,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapPrincipalToResponse(principal)
	c.JSON(http.StatusCreated, response)
}

// GetHandler retrieves a principal by ID.
// GET /v1/principals/:id
// Returns 200 OK.
func (h *PrincipalHandler) GetHandler(c *gin.Context) {
	principalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	principal, err := h.principalUseCase.Get(c.Request.Context(), principalID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapPrincipalToResponse(principal)
	c.JSON(http.StatusOK, response)
}

// ChildrenHandler retrieves the direct creations of a principal.
// GET /v1/principals/:id/children
// Returns 200 OK.
func (h *PrincipalHandler) ChildrenHandler(c *gin.Context) {
	principalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	children, err := h.principalUseCase.ChildrenOf(c.Request.Context(), principalID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapPrincipalsToListResponse(children)
	c.JSON(http.StatusOK, response)
}

// AddPermissionHandler grants a permission to a principal, optionally
// propagating through its entire subtree in one transaction.
// POST /v1/principals/:id/permissions
// Returns 200 OK with the updated principal and the number of principals
// whose permission set actually changed.
func (h *PrincipalHandler) AddPermissionHandler(c *gin.Context) {
	actor, ok := GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.AddPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.principalUseCase.AddPermission(
		c.Request.Context(),
		actor.ID,
		targetID,
		req.Permission,
		req.Propagate,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapAddPermissionToResponse(output)
	c.JSON(http.StatusOK, response)
}

// RevokeCreatedHandler revokes a principal and its entire subtree.
// POST /v1/principals/:id/revoke
// The target must be a direct or transitive creation of the authenticated
// principal; otherwise 403 Forbidden.
// Returns 200 OK with the revoked IDs.
func (h *PrincipalHandler) RevokeCreatedHandler(c *gin.Context) {
	actor, ok := GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	principalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	output, err := h.principalUseCase.RevokeCreated(c.Request.Context(), actor.ID, principalID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapRevokeToResponse(output)
	c.JSON(http.StatusOK, response)
}

// MeHandler returns the authenticated principal.
// GET /v1/me
// Returns 200 OK.
func (h *PrincipalHandler) MeHandler(c *gin.Context) {
	actor, ok := GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	response := dto.MapPrincipalToResponse(actor)
	c.JSON(http.StatusOK, response)
}

// RevokeAllCreatedHandler revokes every direct child of the authenticated
// principal along with their subtrees.
// POST /v1/me/created/revoke
// Returns 200 OK with the revoked IDs. Calling it again succeeds with an
// affected count of zero.
func (h *PrincipalHandler) RevokeAllCreatedHandler(c *gin.Context) {
	actor, ok := GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	output, err := h.principalUseCase.RevokeAllCreated(c.Request.Context(), actor.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapRevokeToResponse(output)
	c.JSON(http.StatusOK, response)
}

// RevokeSelfHandler revokes the authenticated principal and its credentials.
// POST /v1/me/revoke
// Descendants are never touched. Idempotent.
// Returns 200 OK with the revocation instant.
func (h *PrincipalHandler) RevokeSelfHandler(c *gin.Context) {
	actor, ok := GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	revokedAt, err := h.principalUseCase.RevokeSelf(c.Request.Context(), actor.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.RevokeSelfResponse{RevokedAt: *revokedAt}
	c.JSON(http.StatusOK, response)
}
