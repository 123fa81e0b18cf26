package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	projdomain "github.com/buildflow-ai/ai-builder-backend/internal/projects/domain"
	"github.com/buildflow-ai/ai-builder-backend/internal/terminal/service"
)

// Handler bundles the dependencies for terminal HTTP endpoints.
type Handler struct {
	runner *service.Runner
}

func New(runner *service.Runner) *Handler {
	return &Handler{runner: runner}
}

// Register attaches terminal routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/execute", h.execute)
	rg.GET("/commands", h.commands)
	rg.POST("/clear", h.clear)
	rg.GET("/cwd", h.cwd)

	rg.POST("/setup", h.setup)
	rg.POST("/install", h.install)
	rg.POST("/run", h.run)
	rg.POST("/deploy-vercel", h.deployVercel)

	rg.GET("/projects", h.savedProjects)
	rg.POST("/projects", h.saveProject)
	rg.GET("/projects/:name", h.loadProject)
	rg.DELETE("/projects/:name", h.deleteProject)
}

type executeReq struct {
	Command string `json:"command"`
}

func (h *Handler) execute(c *gin.Context) {
	var req executeReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Command) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	cmd := h.runner.Execute(c.Request.Context(), strings.TrimSpace(req.Command))
	c.JSON(http.StatusOK, gin.H{"ok": true, "command": cmd})
}

func (h *Handler) commands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "commands": h.runner.Commands()})
}

func (h *Handler) clear(c *gin.Context) {
	h.runner.ClearHistory()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) cwd(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "cwd": h.runner.CurrentDirectory()})
}

type setupReq struct {
	ProjectName string `json:"project_name"`
	Language    string `json:"language"`
	Framework   string `json:"framework"`
}

func (h *Handler) setup(c *gin.Context) {
	var req setupReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ProjectName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	results := h.runner.SetupProject(c.Request.Context(), strings.TrimSpace(req.ProjectName), req.Language, req.Framework)
	c.JSON(http.StatusOK, gin.H{"ok": true, "commands": results})
}

type stackReq struct {
	Language  string `json:"language"`
	Framework string `json:"framework"`
}

func (h *Handler) install(c *gin.Context) {
	var req stackReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	cmd := h.runner.InstallDependencies(c.Request.Context(), req.Language, req.Framework)
	c.JSON(http.StatusOK, gin.H{"ok": true, "command": cmd})
}

func (h *Handler) run(c *gin.Context) {
	var req stackReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	cmd := h.runner.RunProject(c.Request.Context(), req.Language, req.Framework)
	c.JSON(http.StatusOK, gin.H{"ok": true, "command": cmd})
}

type deployVercelReq struct {
	ProjectName string `json:"project_name"`
}

func (h *Handler) deployVercel(c *gin.Context) {
	var req deployVercelReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ProjectName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	cmd := h.runner.DeployToVercel(c.Request.Context(), strings.TrimSpace(req.ProjectName))
	c.JSON(http.StatusOK, gin.H{"ok": true, "command": cmd})
}

type saveProjectReq struct {
	Name  string                   `json:"name"`
	Files []projdomain.ProjectFile `json:"files"`
}

func (h *Handler) saveProject(c *gin.Context) {
	var req saveProjectReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.runner.SaveProject(c.Request.Context(), strings.TrimSpace(req.Name), req.Files); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

func (h *Handler) loadProject(c *gin.Context) {
	snap, err := h.runner.LoadProject(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if snap == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": snap})
}

func (h *Handler) savedProjects(c *gin.Context) {
	names, err := h.runner.SavedProjects(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": names})
}

func (h *Handler) deleteProject(c *gin.Context) {
	if err := h.runner.DeleteProject(c.Request.Context(), c.Param("name")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
