package http

import "github.com/buildflow-ai/ai-builder-backend/internal/projects/service"

// Handler bundles the dependencies for project HTTP endpoints.
type Handler struct {
	projects *service.ProjectService
	builder  *service.BuilderService
}

func New(projects *service.ProjectService, builder *service.BuilderService) *Handler {
	return &Handler{projects: projects, builder: builder}
}
