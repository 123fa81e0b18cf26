package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/buildflow-ai/ai-builder-backend/internal/settings/service"
)

// Handler bundles the dependencies for settings HTTP endpoints.
type Handler struct {
	settings *service.SettingsService
}

func New(settings *service.SettingsService) *Handler {
	return &Handler{settings: settings}
}

// Register attaches settings routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/theme", h.theme)
	rg.PUT("/theme", h.setTheme)
}

func (h *Handler) theme(c *gin.Context) {
	theme, err := h.settings.Theme(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "theme": theme})
}

type themeReq struct {
	Theme string `json:"theme"`
}

func (h *Handler) setTheme(c *gin.Context) {
	var req themeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.settings.SetTheme(c.Request.Context(), req.Theme); err != nil {
		if errors.Is(err, service.ErrInvalidTheme) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
