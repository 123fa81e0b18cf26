package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/buildflow-ai/ai-builder-backend/internal/projects/domain"
)

// MemoryRepository keeps projects in process memory. It backs the store in
// development when no DB_DSN is configured, and in tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	projects map[string]domain.Project
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{projects: make(map[string]domain.Project)}
}

func (r *MemoryRepository) Create(ctx context.Context, p *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[p.ID] = clone(p)
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	c := clone(&p)
	return &c, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Project, 0, len(r.projects))
	for _, p := range r.projects {
		out = append(out, clone(&p))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, p *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[p.ID]; !ok {
		return domain.ErrProjectNotFound
	}
	r.projects[p.ID] = clone(p)
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return domain.ErrProjectNotFound
	}
	delete(r.projects, id)
	return nil
}

func clone(p *domain.Project) domain.Project {
	c := *p
	c.Files = make([]domain.ProjectFile, len(p.Files))
	copy(c.Files, p.Files)
	return c
}
