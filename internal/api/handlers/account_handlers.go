package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/warehouse-ops/internal/application"
	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/errors"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
)

// AccountHandlers contains handlers for login and per-user settings
type AccountHandlers struct {
	auth     AuthService
	settings SettingsService
	logger   *logging.Logger
}

// NewAccountHandlers creates a new AccountHandlers
func NewAccountHandlers(auth AuthService, settings SettingsService, logger *logging.Logger) *AccountHandlers {
	return &AccountHandlers{
		auth:     auth,
		settings: settings,
		logger:   logger,
	}
}

// RegisterRoutes registers auth and settings routes on the /api group
func (h *AccountHandlers) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.GET("/me", h.Me)
	}

	router.GET("/settings", h.GetSettings)
	router.PATCH("/settings", h.UpdateSettings)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /auth/login
func (h *AccountHandlers) Login(c *gin.Context) {
	var req loginRequest
	if !bind(c, h.logger, &req) {
		return
	}

	result, err := h.auth.Login(c.Request.Context(), application.LoginCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Me handles GET /auth/me
func (h *AccountHandlers) Me(c *gin.Context) {
	username := actor(c)
	if username == "" {
		respondError(c, h.logger, errors.ErrUnauthorized("not authenticated"))
		return
	}

	user, err := h.auth.Me(c.Request.Context(), username)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func settingsOwner(c *gin.Context) string {
	if username := actor(c); username != "" {
		return username
	}
	return anonymousUser
}

// GetSettings handles GET /settings
func (h *AccountHandlers) GetSettings(c *gin.Context) {
	settings, err := h.settings.GetSettings(c.Request.Context(), settingsOwner(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateSettings handles PATCH /settings. Only the supplied sections change.
func (h *AccountHandlers) UpdateSettings(c *gin.Context) {
	var patch domain.SettingsPatch
	if !bind(c, h.logger, &patch) {
		return
	}

	settings, err := h.settings.UpdateSettings(c.Request.Context(), settingsOwner(c), patch)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}
