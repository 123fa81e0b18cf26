package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/buildflow-ai/ai-builder-backend/internal/deploy/domain"
	"github.com/buildflow-ai/ai-builder-backend/internal/deploy/service"
	projdomain "github.com/buildflow-ai/ai-builder-backend/internal/projects/domain"
)

// ProjectStore is the slice of the project service the deploy endpoints
// need: load a project and record its deployment URL and repository.
type ProjectStore interface {
	Get(ctx context.Context, id string) (*projdomain.Project, error)
	Update(ctx context.Context, id string, patch projdomain.ProjectUpdate) (*projdomain.Project, error)
}

// Handler bundles the dependencies for deployment HTTP endpoints.
type Handler struct {
	deploys  *service.DeployService
	projects ProjectStore
}

func New(deploys *service.DeployService, projects ProjectStore) *Handler {
	return &Handler{deploys: deploys, projects: projects}
}

// Register attaches deployment routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.GET("/:id", h.status)
	rg.POST("/:id/rollback", h.rollback)
	rg.POST("/:id/domain", h.configureDomain)
	rg.DELETE("/:id", h.delete)
}

// RegisterProjectRoutes attaches the project-scoped deploy routes to the
// projects router group.
func (h *Handler) RegisterProjectRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/deploy", h.deploy)
	rg.POST("/:id/github", h.github)
}

type deployReq struct {
	Platform string `json:"platform"`
}

func (h *Handler) deploy(c *gin.Context) {
	var req deployReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Platform) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	project, err := h.projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.projectError(c, err)
		return
	}

	config := h.deploys.GenerateDeployConfig(req.Platform, project.Language, project.Framework)
	dep, err := h.deploys.Deploy(c.Request.Context(), project.Name, project.Files, config)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedPlatform) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	if _, err := h.projects.Update(c.Request.Context(), project.ID, projdomain.ProjectUpdate{DeploymentURL: &dep.URL}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "deployment": dep})
}

func (h *Handler) github(c *gin.Context) {
	project, err := h.projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.projectError(c, err)
		return
	}

	repoURL, err := h.deploys.CreateGitHubRepository(c.Request.Context(), project.Name, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if err := h.deploys.PushToGitHub(c.Request.Context(), project.Name, project.Files); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	if _, err := h.projects.Update(c.Request.Context(), project.ID, projdomain.ProjectUpdate{GitRepository: &repoURL}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "repository": repoURL})
}

func (h *Handler) list(c *gin.Context) {
	project := strings.TrimSpace(c.Query("project"))
	if project == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "missing project query parameter"})
		return
	}

	items, err := h.deploys.ProjectDeployments(c.Request.Context(), project)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "deployments": items})
}

func (h *Handler) status(c *gin.Context) {
	dep, err := h.deploys.DeploymentStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.deploymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "deployment": dep})
}

func (h *Handler) rollback(c *gin.Context) {
	if err := h.deploys.RollbackDeployment(c.Request.Context(), c.Param("id")); err != nil {
		h.deploymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type domainReq struct {
	Domain string `json:"domain"`
}

func (h *Handler) configureDomain(c *gin.Context) {
	var req domainReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Domain) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.deploys.ConfigureDomain(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.Domain)); err != nil {
		h.deploymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.deploys.DeleteDeployment(c.Request.Context(), c.Param("id")); err != nil {
		h.deploymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) projectError(c *gin.Context, err error) {
	if errors.Is(err, projdomain.ErrProjectNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
}

func (h *Handler) deploymentError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrDeploymentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "deployment not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
}
