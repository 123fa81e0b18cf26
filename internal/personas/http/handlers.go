package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/buildflow-ai/ai-builder-backend/internal/personas/domain"
	"github.com/buildflow-ai/ai-builder-backend/internal/personas/service"
)

// Trainer creates a persona from a free-form description via the LLM.
type Trainer interface {
	CreatePersona(ctx context.Context, description, stylePreferences, examples string) (*domain.Persona, error)
}

// Handler bundles the dependencies for persona HTTP endpoints.
type Handler struct {
	personas *service.PersonaService
	trainer  Trainer
}

func New(personas *service.PersonaService, trainer Trainer) *Handler {
	return &Handler{personas: personas, trainer: trainer}
}

// Register attaches persona routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.POST("/train", h.train)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.personas.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "personas": items})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.personas.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "persona not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "persona": p})
}

func (h *Handler) create(c *gin.Context) {
	var p domain.Persona
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	created, err := h.personas.Create(c.Request.Context(), p)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPersona) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "persona": created})
}

func (h *Handler) update(c *gin.Context) {
	var p domain.Persona
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	updated, err := h.personas.Update(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPersonaNotFound):
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "persona not found"})
		case errors.Is(err, domain.ErrPersonaBuiltIn):
			c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": err.Error()})
		case errors.Is(err, domain.ErrInvalidPersona):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "persona": updated})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.personas.Delete(c.Request.Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, domain.ErrPersonaNotFound):
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "persona not found"})
		case errors.Is(err, domain.ErrPersonaBuiltIn):
			c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type trainReq struct {
	Description      string `json:"description"`
	StylePreferences string `json:"style_preferences"`
	Examples         string `json:"examples"`
}

// train asks the LLM to design a persona from a free-form description,
// then persists it alongside the user's other personas.
func (h *Handler) train(c *gin.Context) {
	var req trainReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Description) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.trainer.CreatePersona(c.Request.Context(), req.Description, req.StylePreferences, req.Examples)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
		return
	}

	created, err := h.personas.Create(c.Request.Context(), *p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "persona": created})
}
