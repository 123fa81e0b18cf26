package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildflow-ai/ai-builder-backend/internal/deploy/domain"
)

func setupRepo(t *testing.T) (*DeploymentRepository, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewDeploymentRepository(client), mr
}

func record(id, project string, createdAt time.Time) *domain.Deployment {
	return &domain.Deployment{
		ID:        id,
		Project:   project,
		Platform:  domain.PlatformVercel,
		URL:       "https://" + project + ".vercel.app",
		State:     domain.StateReady,
		CreatedAt: createdAt,
	}
}

func TestDeploymentRepository_PruneOlderThan(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, repo.Append(ctx, record("dpl_old", "my-app", now.AddDate(0, 0, -40))))
	require.NoError(t, repo.Append(ctx, record("dpl_new", "my-app", now)))

	cutoff := now.AddDate(0, 0, -30).Unix()
	pruned, err := repo.PruneOlderThan(ctx, "my-app", cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)

	list, err := repo.List(ctx, "my-app")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "dpl_new", list[0].ID)

	// The pruned record's id index is gone too.
	_, err = repo.GetByID(ctx, "dpl_old")
	require.ErrorIs(t, err, domain.ErrDeploymentNotFound)

	t.Run("nothing to prune is a no-op", func(t *testing.T) {
		pruned, err := repo.PruneOlderThan(ctx, "my-app", cutoff)
		require.NoError(t, err)
		assert.Zero(t, pruned)
	})
}

func TestDeploymentRepository_Projects(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, record("dpl_1", "alpha", time.Now())))
	require.NoError(t, repo.Append(ctx, record("dpl_2", "beta", time.Now())))

	projects, err := repo.Projects(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, projects)
}

func TestDeploymentRepository_CorruptedListResets(t *testing.T) {
	repo, mr := setupRepo(t)
	ctx := context.Background()

	mr.Set("deployments:my-app", "[{broken")

	list, err := repo.List(ctx, "my-app")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.False(t, mr.Exists("deployments:my-app"))
}

func TestDeploymentRepository_UpdatePublishesEvent(t *testing.T) {
	repo, mr := setupRepo(t)
	ctx := context.Background()

	dep := record("dpl_1", "my-app", time.Now())
	dep.State = domain.StateBuilding
	require.NoError(t, repo.Append(ctx, dep))

	dep.State = domain.StateReady
	require.NoError(t, repo.Update(ctx, dep))

	got, err := repo.GetByID(ctx, "dpl_1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateReady, got.State)

	// miniredis counts subscribers per channel; publishing without one is
	// still fine, we just verify the write above survived.
	assert.True(t, mr.Exists("deployments:my-app"))
}

func TestDeploymentRepository_ConcurrentWritersKeepAllRecords(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	t.Run("update racing an append loses nothing", func(t *testing.T) {
		building := record("dpl_0", "my-app", time.Now())
		building.State = domain.StateBuilding
		require.NoError(t, repo.Append(ctx, building))

		ready := *building
		ready.State = domain.StateReady

		var wg sync.WaitGroup
		errs := make(chan error, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			errs <- repo.Update(ctx, &ready)
		}()
		go func() {
			defer wg.Done()
			errs <- repo.Append(ctx, record("dpl_1", "my-app", time.Now()))
		}()
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		list, err := repo.List(ctx, "my-app")
		require.NoError(t, err)
		require.Len(t, list, 2)

		got, err := repo.GetByID(ctx, "dpl_0")
		require.NoError(t, err)
		assert.Equal(t, domain.StateReady, got.State)
	})

	t.Run("parallel appends all land in the list", func(t *testing.T) {
		const writers = 5

		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				errs <- repo.Append(ctx, record(fmt.Sprintf("dpl_w%d", n), "fanout", time.Now()))
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		list, err := repo.List(ctx, "fanout")
		require.NoError(t, err)
		assert.Len(t, list, writers)
	})
}

func TestDeploymentRepository_UpdateUnknownID(t *testing.T) {
	repo, _ := setupRepo(t)

	err := repo.Update(context.Background(), record("dpl_ghost", "my-app", time.Now()))
	require.ErrorIs(t, err, domain.ErrDeploymentNotFound)
}
