package repository

import (
	"context"

	"github.com/buildflow-ai/ai-builder-backend/internal/projects/domain"
)

// ProjectRepository is the persistence boundary for projects. Postgres
// backs it in production; the in-memory implementation backs it when no
// database is configured and in tests.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	Get(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}
