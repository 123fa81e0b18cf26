package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/buildflow-ai/ai-builder-backend/internal/personas/domain"
	"github.com/buildflow-ai/ai-builder-backend/internal/personas/repository"
)

// PersonaService exposes the merged view of built-in and user personas.
type PersonaService struct {
	repo *repository.PersonaRepository
}

func NewPersonaService(repo *repository.PersonaRepository) *PersonaService {
	return &PersonaService{repo: repo}
}

// List returns built-in defaults followed by user-created personas.
func (s *PersonaService) List(ctx context.Context) ([]domain.Persona, error) {
	user, err := s.repo.ListUser(ctx)
	if err != nil {
		return nil, err
	}
	return append(domain.Defaults(), user...), nil
}

// Get resolves a persona by id across defaults and user personas.
func (s *PersonaService) Get(ctx context.Context, id string) (*domain.Persona, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, domain.ErrPersonaNotFound
}

// Create appends a user persona. A missing id gets a generated one.
func (s *PersonaService) Create(ctx context.Context, p domain.Persona) (*domain.Persona, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	user, err := s.repo.ListUser(ctx)
	if err != nil {
		return nil, err
	}
	user = append(user, p)
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update replaces a user persona in place. Built-in defaults are immutable.
func (s *PersonaService) Update(ctx context.Context, id string, p domain.Persona) (*domain.Persona, error) {
	if s.isBuiltIn(id) {
		return nil, domain.ErrPersonaBuiltIn
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.ListUser(ctx)
	if err != nil {
		return nil, err
	}
	for i := range user {
		if user[i].ID == id {
			p.ID = id
			user[i] = p
			if err := s.repo.SaveUser(ctx, user); err != nil {
				return nil, err
			}
			return &p, nil
		}
	}
	return nil, domain.ErrPersonaNotFound
}

// Delete removes a user persona. Projects referencing the deleted persona
// keep their persona id; the dangling reference is permitted.
func (s *PersonaService) Delete(ctx context.Context, id string) error {
	if s.isBuiltIn(id) {
		return domain.ErrPersonaBuiltIn
	}

	user, err := s.repo.ListUser(ctx)
	if err != nil {
		return err
	}
	kept := make([]domain.Persona, 0, len(user))
	found := false
	for _, p := range user {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return domain.ErrPersonaNotFound
	}
	return s.repo.SaveUser(ctx, kept)
}

func (s *PersonaService) isBuiltIn(id string) bool {
	for _, p := range domain.Defaults() {
		if p.ID == id {
			return true
		}
	}
	return false
}
