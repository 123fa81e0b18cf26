package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/buildflow-ai/ai-builder-backend/internal/projects/domain"
	"github.com/buildflow-ai/ai-builder-backend/internal/projects/repository"
)

// ProjectService owns the project collection and the single current-project
// pointer. Every mutation rewrites durable storage.
type ProjectService struct {
	repo repository.ProjectRepository

	mu        sync.RWMutex
	currentID string
}

func NewProjectService(repo repository.ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo}
}

// Create adds a new project in the planning state and makes it current.
func (s *ProjectService) Create(ctx context.Context, name, description, language, framework, personaID string) (*domain.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrNameRequired
	}

	now := time.Now()
	p := &domain.Project{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(name),
		Description: description,
		Language:    language,
		Framework:   framework,
		PersonaID:   personaID,
		Status:      domain.StatusPlanning,
		Files:       []domain.ProjectFile{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.currentID = p.ID
	s.mu.Unlock()

	return p, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.repo.Get(ctx, id)
}

func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.repo.List(ctx)
}

// Update applies a partial patch. UpdatedAt is bumped on every call, even
// for an empty patch; all other fields stay byte-equal unless patched.
func (s *ProjectService) Update(ctx context.Context, id string, patch domain.ProjectUpdate) (*domain.Project, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Status != nil {
		if !domain.ValidStatus(*patch.Status) {
			return nil, domain.ErrInvalidStatus
		}
		p.Status = *patch.Status
	}
	if patch.Files != nil {
		p.Files = patch.Files
	}
	if patch.DeploymentURL != nil {
		p.DeploymentURL = *patch.DeploymentURL
	}
	if patch.GitRepository != nil {
		p.GitRepository = *patch.GitRepository
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the project and its persisted copy. The current pointer is
// cleared when it referenced the deleted project.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	if s.currentID == id {
		s.currentID = ""
	}
	s.mu.Unlock()
	return nil
}

// SetCurrent selects the active project.
func (s *ProjectService) SetCurrent(ctx context.Context, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.currentID = id
	s.mu.Unlock()
	return nil
}

// Current returns the active project, or nil when none is selected.
func (s *ProjectService) Current(ctx context.Context) (*domain.Project, error) {
	s.mu.RLock()
	id := s.currentID
	s.mu.RUnlock()

	if id == "" {
		return nil, nil
	}
	return s.repo.Get(ctx, id)
}
