package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	gendomain "github.com/buildflow-ai/ai-builder-backend/internal/generation/domain"
	"github.com/buildflow-ai/ai-builder-backend/internal/generation/service"
	personas "github.com/buildflow-ai/ai-builder-backend/internal/personas/domain"
	projdomain "github.com/buildflow-ai/ai-builder-backend/internal/projects/domain"
)

// ProjectStore is the slice of the project service the generation
// endpoints need: load a project and patch its files back.
type ProjectStore interface {
	Get(ctx context.Context, id string) (*projdomain.Project, error)
	Update(ctx context.Context, id string, patch projdomain.ProjectUpdate) (*projdomain.Project, error)
}

// PersonaStore resolves the persona a generation request should style with.
type PersonaStore interface {
	Get(ctx context.Context, id string) (*personas.Persona, error)
}

// Handler bundles the dependencies for generation HTTP endpoints. All
// routes are project-scoped.
type Handler struct {
	gen      *service.GenerationService
	projects ProjectStore
	personas PersonaStore
}

func New(gen *service.GenerationService, projects ProjectStore, personaStore PersonaStore) *Handler {
	return &Handler{gen: gen, projects: projects, personas: personaStore}
}

// Register attaches generation routes to the projects router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/:id/generate", h.generate)
	rg.POST("/:id/test", h.test)
	rg.POST("/:id/improve", h.improve)
}

type generateReq struct {
	Prompt                 string   `json:"prompt"`
	AdditionalRequirements []string `json:"additional_requirements"`
	PersonaID              string   `json:"persona_id"`
}

// generate runs a full project generation. A failed generation is still a
// 200: the response carries success=false and the project keeps its
// previous files.
func (h *Handler) generate(c *gin.Context) {
	var req generateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	project, persona, ok := h.load(c, req.PersonaID)
	if !ok {
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		prompt = project.Description
	}

	resp := h.gen.GenerateProject(c.Request.Context(), gendomain.AIRequest{
		Prompt:                 prompt,
		ProjectType:            project.Framework,
		Language:               project.Language,
		Framework:              project.Framework,
		Persona:                *persona,
		AdditionalRequirements: req.AdditionalRequirements,
	})
	if resp.Success {
		if _, err := h.projects.Update(c.Request.Context(), project.ID, projdomain.ProjectUpdate{
			Files:  resp.Files,
			Status: statusPtr(projdomain.StatusDeveloping),
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "result": resp})
}

func (h *Handler) test(c *gin.Context) {
	project, err := h.projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.projectError(c, err)
		return
	}

	results := h.gen.TestProject(c.Request.Context(), project.Files, project.Language, project.Framework)
	c.JSON(http.StatusOK, gin.H{"ok": true, "results": results})
}

type improveReq struct {
	Feedback  string `json:"feedback"`
	PersonaID string `json:"persona_id"`
}

func (h *Handler) improve(c *gin.Context) {
	var req improveReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Feedback) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	project, persona, ok := h.load(c, req.PersonaID)
	if !ok {
		return
	}

	resp := h.gen.ImproveProject(c.Request.Context(), project.Files, req.Feedback, *persona)
	if resp.Success {
		if _, err := h.projects.Update(c.Request.Context(), project.ID, projdomain.ProjectUpdate{Files: resp.Files}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "result": resp})
}

// load fetches the project and its persona. An explicit personaID in the
// request overrides the one stored on the project.
func (h *Handler) load(c *gin.Context, personaID string) (*projdomain.Project, *personas.Persona, bool) {
	project, err := h.projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.projectError(c, err)
		return nil, nil, false
	}

	id := personaID
	if id == "" {
		id = project.PersonaID
	}
	persona, err := h.personas.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "persona not found"})
		return nil, nil, false
	}
	return project, persona, true
}

func (h *Handler) projectError(c *gin.Context, err error) {
	if errors.Is(err, projdomain.ErrProjectNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
}

func statusPtr(s string) *string {
	return &s
}
