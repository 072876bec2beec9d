// Package http provides HTTP handlers for the global settings singleton.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/warden/internal/httputil"
	"github.com/allisson/warden/internal/settings/http/dto"
	settingsUseCase "github.com/allisson/warden/internal/settings/usecase"
	customValidation "github.com/allisson/warden/internal/validation"
)

// SettingsHandler handles HTTP requests for global settings.
// Both routes are restricted to administrators at the router level.
type SettingsHandler struct {
	settingsUseCase settingsUseCase.SettingsUseCase
	logger          *slog.Logger
}

// NewSettingsHandler creates a new settings handler with required dependencies.
func NewSettingsHandler(
	useCase settingsUseCase.SettingsUseCase,
	logger *slog.Logger,
) *SettingsHandler {
	return &SettingsHandler{
		settingsUseCase: useCase,
		logger:          logger,
	}
}

// GetHandler returns the settings singleton, materializing defaults on first read.
// GET /v1/settings
// Returns 200 OK.
func (h *SettingsHandler) GetHandler(c *gin.Context) {
	settings, err := h.settingsUseCase.Get(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapSettingsToResponse(settings)
	c.JSON(http.StatusOK, response)
}

// UpdateHandler updates the self-service registration settings.
// PUT /v1/settings
// Returns 200 OK with the updated settings.
func (h *SettingsHandler) UpdateHandler(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	settings, err := h.settingsUseCase.UpdateSelfService(
		c.Request.Context(),
		req.AllowSelfServiceRegistration,
		req.DefaultSelfServicePermissions,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapSettingsToResponse(settings)
	c.JSON(http.StatusOK, response)
}
