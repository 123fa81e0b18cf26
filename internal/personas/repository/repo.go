package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/buildflow-ai/ai-builder-backend/internal/personas/domain"
)

// userPersonasKey holds the JSON array of user-created personas. Built-in
// defaults never enter storage.
const userPersonasKey = "personas:user"

// PersonaRepository persists user-created personas in Redis.
type PersonaRepository struct {
	client *redis.Client
}

func NewPersonaRepository(client *redis.Client) *PersonaRepository {
	return &PersonaRepository{client: client}
}

// ListUser returns all persisted user personas. A corrupted payload is
// logged, the key is deleted and an empty list is returned.
func (r *PersonaRepository) ListUser(ctx context.Context) ([]domain.Persona, error) {
	data, err := r.client.Get(ctx, userPersonasKey).Result()
	if err == redis.Nil {
		return []domain.Persona{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load personas: %w", err)
	}

	var personas []domain.Persona
	if err := json.Unmarshal([]byte(data), &personas); err != nil {
		log.Printf("[warn] corrupted persona store, resetting: %v", err)
		r.client.Del(ctx, userPersonasKey)
		return []domain.Persona{}, nil
	}
	return personas, nil
}

// SaveUser overwrites the persisted user persona list.
func (r *PersonaRepository) SaveUser(ctx context.Context, personas []domain.Persona) error {
	data, err := json.Marshal(personas)
	if err != nil {
		return fmt.Errorf("failed to marshal personas: %w", err)
	}
	if err := r.client.Set(ctx, userPersonasKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save personas: %w", err)
	}
	return nil
}
