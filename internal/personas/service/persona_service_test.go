package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildflow-ai/ai-builder-backend/internal/personas/domain"
	"github.com/buildflow-ai/ai-builder-backend/internal/personas/repository"
)

func setupPersonaService(t *testing.T) (*PersonaService, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewPersonaService(repository.NewPersonaRepository(client)), mr
}

func userPersona(id string) domain.Persona {
	return domain.Persona{
		ID:          id,
		Name:        "Test Persona",
		Description: "for testing",
		Style: domain.PersonaStyle{
			Colors:  []string{"#123456"},
			Fonts:   []string{"Arial"},
			Layout:  domain.LayoutMinimal,
			Spacing: domain.SpacingBalanced,
		},
	}
}

func TestPersonaService_List(t *testing.T) {
	svc, _ := setupPersonaService(t)
	ctx := context.Background()

	t.Run("defaults are always present", func(t *testing.T) {
		all, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "modern-minimalist", all[0].ID)
		assert.Equal(t, "vibrant-creative", all[1].ID)
		assert.Equal(t, "professional-corporate", all[2].ID)
	})

	t.Run("user personas follow the defaults", func(t *testing.T) {
		_, err := svc.Create(ctx, userPersona("custom-1"))
		require.NoError(t, err)

		all, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, "custom-1", all[3].ID)
	})
}

func TestPersonaService_Create(t *testing.T) {
	svc, _ := setupPersonaService(t)
	ctx := context.Background()

	t.Run("generates an id when missing", func(t *testing.T) {
		created, err := svc.Create(ctx, userPersona(""))
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
	})

	t.Run("rejects a persona without style", func(t *testing.T) {
		_, err := svc.Create(ctx, domain.Persona{ID: "bare", Name: "Bare"})
		require.ErrorIs(t, err, domain.ErrInvalidPersona)
	})
}

func TestPersonaService_Get(t *testing.T) {
	svc, _ := setupPersonaService(t)
	ctx := context.Background()

	p, err := svc.Get(ctx, "vibrant-creative")
	require.NoError(t, err)
	assert.Equal(t, "Vibrant Creative", p.Name)

	_, err = svc.Get(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrPersonaNotFound)
}

func TestPersonaService_BuiltInsAreImmutable(t *testing.T) {
	svc, _ := setupPersonaService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, "modern-minimalist", userPersona("modern-minimalist"))
	require.ErrorIs(t, err, domain.ErrPersonaBuiltIn)

	err = svc.Delete(ctx, "modern-minimalist")
	require.ErrorIs(t, err, domain.ErrPersonaBuiltIn)

	// Defaults survive any amount of user churn.
	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestPersonaService_UpdateAndDelete(t *testing.T) {
	svc, _ := setupPersonaService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, userPersona("custom-1"))
	require.NoError(t, err)

	t.Run("update replaces in place and keeps the id", func(t *testing.T) {
		p := userPersona("ignored")
		p.Name = "Renamed"

		updated, err := svc.Update(ctx, "custom-1", p)
		require.NoError(t, err)
		assert.Equal(t, "custom-1", updated.ID)
		assert.Equal(t, "Renamed", updated.Name)
	})

	t.Run("update of a missing persona fails", func(t *testing.T) {
		_, err := svc.Update(ctx, "nope", userPersona("nope"))
		require.ErrorIs(t, err, domain.ErrPersonaNotFound)
	})

	t.Run("delete removes the persona", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, "custom-1"))

		_, err := svc.Get(ctx, "custom-1")
		require.ErrorIs(t, err, domain.ErrPersonaNotFound)
	})

	t.Run("delete of a missing persona fails", func(t *testing.T) {
		require.ErrorIs(t, svc.Delete(ctx, "custom-1"), domain.ErrPersonaNotFound)
	})
}

func TestPersonaRepository_CorruptedStoreResets(t *testing.T) {
	svc, mr := setupPersonaService(t)
	ctx := context.Background()

	mr.Set("personas:user", "{definitely not json")

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3, "corrupted store falls back to defaults only")
	assert.False(t, mr.Exists("personas:user"), "corrupted key is deleted")
}
