package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildflow-ai/ai-builder-backend/internal/projects/domain"
)

// setupTestPostgres connects to the database named by TEST_DB_DSN and
// prepares a clean projects table. Skips when TEST_DB_DSN is not set.
func setupTestPostgres(t *testing.T) *pgxpool.Pool {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping PostgreSQL integration test")
	}

	// Schema setup goes through database/sql so failures here read
	// separately from repository failures.
	admin, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { admin.Close() })

	_, err = admin.Exec(`
		create table if not exists projects (
			id text primary key,
			name text not null,
			description text not null default '',
			language text not null default '',
			framework text not null default '',
			persona_id text not null default '',
			status text not null,
			files jsonb not null default '[]',
			deployment_url text not null default '',
			git_repository text not null default '',
			created_at timestamptz not null,
			updated_at timestamptz not null
		)
	`)
	require.NoError(t, err)
	_, err = admin.Exec(`truncate table projects`)
	require.NoError(t, err)

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func testProject(id string) *domain.Project {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Project{
		ID:          id,
		Name:        "My App",
		Description: "integration test project",
		Language:    "javascript",
		Framework:   "react",
		PersonaID:   "modern-minimalist",
		Status:      domain.StatusPlanning,
		Files: []domain.ProjectFile{
			{Path: "index.html", Content: "<html></html>", Language: "html", Size: 13, LastModified: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestPostgresRepository_CRUD(t *testing.T) {
	pool := setupTestPostgres(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	p := testProject("proj-1")
	require.NoError(t, repo.Create(ctx, p))

	t.Run("get round-trips files as jsonb", func(t *testing.T) {
		got, err := repo.Get(ctx, "proj-1")
		require.NoError(t, err)
		assert.Equal(t, p.Name, got.Name)
		require.Len(t, got.Files, 1)
		assert.Equal(t, "<html></html>", got.Files[0].Content)
		assert.Equal(t, 13, got.Files[0].Size)
	})

	t.Run("update rewrites the row", func(t *testing.T) {
		p.Status = domain.StatusCompleted
		p.DeploymentURL = "https://my-app.vercel.app"
		p.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
		require.NoError(t, repo.Update(ctx, p))

		got, err := repo.Get(ctx, "proj-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, got.Status)
		assert.Equal(t, "https://my-app.vercel.app", got.DeploymentURL)
	})

	t.Run("list orders newest first", func(t *testing.T) {
		second := testProject("proj-2")
		second.CreatedAt = second.CreatedAt.Add(time.Second)
		require.NoError(t, repo.Create(ctx, second))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "proj-2", list[0].ID)
	})

	t.Run("delete removes the row", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "proj-1"))
		_, err := repo.Get(ctx, "proj-1")
		require.ErrorIs(t, err, domain.ErrProjectNotFound)
	})

	t.Run("missing rows map to the domain error", func(t *testing.T) {
		_, err := repo.Get(ctx, "ghost")
		require.ErrorIs(t, err, domain.ErrProjectNotFound)
		require.ErrorIs(t, repo.Update(ctx, testProject("ghost")), domain.ErrProjectNotFound)
		require.ErrorIs(t, repo.Delete(ctx, "ghost"), domain.ErrProjectNotFound)
	})
}
