package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/buildflow-ai/ai-builder-backend/internal/projects/domain"
)

type createReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Framework   string `json:"framework"`
	PersonaID   string `json:"persona_id"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.projects.Create(c.Request.Context(), strings.TrimSpace(req.Name), req.Description, req.Language, req.Framework, req.PersonaID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.projects.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

type updateReq struct {
	Name          *string              `json:"name"`
	Description   *string              `json:"description"`
	Status        *string              `json:"status"`
	Files         []domain.ProjectFile `json:"files"`
	DeploymentURL *string              `json:"deployment_url"`
	GitRepository *string              `json:"git_repository"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.projects.Update(c.Request.Context(), c.Param("id"), domain.ProjectUpdate{
		Name:          req.Name,
		Description:   req.Description,
		Status:        req.Status,
		Files:         req.Files,
		DeploymentURL: req.DeploymentURL,
		GitRepository: req.GitRepository,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		case errors.Is(err, domain.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.projects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) current(c *gin.Context) {
	p, err := h.projects.Current(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	// No project selected is a normal state, not an error.
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) setCurrent(c *gin.Context) {
	if err := h.projects.SetCurrent(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
