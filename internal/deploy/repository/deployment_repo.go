package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/buildflow-ai/ai-builder-backend/internal/deploy/domain"
)

const (
	deploymentsKeyPrefix = "deployments:"   // per-project JSON list: deployments:{project}
	deploymentIDPrefix   = "deployment:id:" // id → project index: deployment:id:{id}
	eventChannelPrefix   = "deploy:events:" // pub/sub channel per project

	// Retries for the optimistic list transaction before giving up.
	maxListRetries = 5
)

// DeploymentRepository persists per-project deployment lists in Redis and
// publishes record updates on a per-project channel.
type DeploymentRepository struct {
	client *redis.Client
}

func NewDeploymentRepository(client *redis.Client) *DeploymentRepository {
	return &DeploymentRepository{client: client}
}

// readList decodes the project's deployment list using any command surface,
// so it works both on the plain client and inside a WATCH transaction. A
// corrupted list is logged and treated as empty.
func readList(ctx context.Context, c redis.Cmdable, project string) ([]domain.Deployment, error) {
	data, err := c.Get(ctx, deploymentsKeyPrefix+project).Result()
	if err == redis.Nil {
		return []domain.Deployment{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}

	var deployments []domain.Deployment
	if err := json.Unmarshal([]byte(data), &deployments); err != nil {
		log.Printf("[warn] corrupted deployment list for %s, treating as empty: %v", project, err)
		return []domain.Deployment{}, nil
	}
	return deployments, nil
}

// mutateList rewrites the project's deployment list under WATCH so that
// concurrent writers (a deploy racing a build completion on the same
// project) cannot lose each other's records. fn transforms the current
// list and may queue extra commands, such as id-index writes, on the
// transaction pipeline.
func (r *DeploymentRepository) mutateList(ctx context.Context, project string, fn func([]domain.Deployment) ([]domain.Deployment, func(redis.Pipeliner), error)) error {
	key := deploymentsKeyPrefix + project

	txn := func(tx *redis.Tx) error {
		deployments, err := readList(ctx, tx, project)
		if err != nil {
			return err
		}

		updated, extra, err := fn(deployments)
		if err != nil {
			return err
		}

		data, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("failed to marshal deployments: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			if extra != nil {
				extra(pipe)
			}
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < maxListRetries; i++ {
		err = r.client.Watch(ctx, txn, key)
		if err != redis.TxFailedErr {
			return err
		}
	}
	return fmt.Errorf("deployment list for %s kept changing under us: %w", project, err)
}

// Append adds a record to the project's deployment list and indexes its id.
func (r *DeploymentRepository) Append(ctx context.Context, dep *domain.Deployment) error {
	err := r.mutateList(ctx, dep.Project, func(deployments []domain.Deployment) ([]domain.Deployment, func(redis.Pipeliner), error) {
		deployments = append(deployments, *dep)
		return deployments, func(pipe redis.Pipeliner) {
			pipe.Set(ctx, deploymentIDPrefix+dep.ID, dep.Project, 0)
		}, nil
	})
	if err != nil {
		return fmt.Errorf("failed to append deployment: %w", err)
	}
	return nil
}

// List returns the project's deployment records. A corrupted list is
// logged, deleted and treated as empty.
func (r *DeploymentRepository) List(ctx context.Context, project string) ([]domain.Deployment, error) {
	data, err := r.client.Get(ctx, deploymentsKeyPrefix+project).Result()
	if err == redis.Nil {
		return []domain.Deployment{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}

	var deployments []domain.Deployment
	if err := json.Unmarshal([]byte(data), &deployments); err != nil {
		log.Printf("[warn] corrupted deployment list for %s, resetting: %v", project, err)
		r.client.Del(ctx, deploymentsKeyPrefix+project)
		return []domain.Deployment{}, nil
	}
	return deployments, nil
}

// GetByID resolves a deployment through the id index.
func (r *DeploymentRepository) GetByID(ctx context.Context, id string) (*domain.Deployment, error) {
	project, err := r.client.Get(ctx, deploymentIDPrefix+id).Result()
	if err == redis.Nil {
		return nil, domain.ErrDeploymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve deployment id: %w", err)
	}

	deployments, err := r.List(ctx, project)
	if err != nil {
		return nil, err
	}
	for i := range deployments {
		if deployments[i].ID == id {
			return &deployments[i], nil
		}
	}
	return nil, domain.ErrDeploymentNotFound
}

// Update rewrites a record in its project's list and publishes the new
// state on the project's event channel.
func (r *DeploymentRepository) Update(ctx context.Context, dep *domain.Deployment) error {
	err := r.mutateList(ctx, dep.Project, func(deployments []domain.Deployment) ([]domain.Deployment, func(redis.Pipeliner), error) {
		for i := range deployments {
			if deployments[i].ID == dep.ID {
				deployments[i] = *dep
				return deployments, nil, nil
			}
		}
		return nil, nil, domain.ErrDeploymentNotFound
	})
	if errors.Is(err, domain.ErrDeploymentNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to update deployment: %w", err)
	}

	if event, err := json.Marshal(dep); err == nil {
		r.client.Publish(ctx, eventChannelPrefix+dep.Project, event)
	}
	return nil
}

// Remove deletes a record from its project's list and drops the id index.
func (r *DeploymentRepository) Remove(ctx context.Context, id string) error {
	dep, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = r.mutateList(ctx, dep.Project, func(deployments []domain.Deployment) ([]domain.Deployment, func(redis.Pipeliner), error) {
		kept := make([]domain.Deployment, 0, len(deployments))
		for _, d := range deployments {
			if d.ID != id {
				kept = append(kept, d)
			}
		}
		return kept, func(pipe redis.Pipeliner) {
			pipe.Del(ctx, deploymentIDPrefix+id)
		}, nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove deployment: %w", err)
	}
	return nil
}

// PruneOlderThan removes records created before the cutoff from a project's
// list. Used by the retention job.
func (r *DeploymentRepository) PruneOlderThan(ctx context.Context, project string, cutoffUnix int64) (int, error) {
	pruned := 0
	err := r.mutateList(ctx, project, func(deployments []domain.Deployment) ([]domain.Deployment, func(redis.Pipeliner), error) {
		pruned = 0
		stale := make([]string, 0, len(deployments))
		kept := make([]domain.Deployment, 0, len(deployments))
		for _, d := range deployments {
			if d.CreatedAt.Unix() < cutoffUnix {
				stale = append(stale, d.ID)
				pruned++
				continue
			}
			kept = append(kept, d)
		}
		return kept, func(pipe redis.Pipeliner) {
			for _, id := range stale {
				pipe.Del(ctx, deploymentIDPrefix+id)
			}
		}, nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to prune deployments: %w", err)
	}
	return pruned, nil
}

// Projects lists every project name that has a deployment list.
func (r *DeploymentRepository) Projects(ctx context.Context) ([]string, error) {
	keys, err := r.client.Keys(ctx, deploymentsKeyPrefix+"*").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to scan deployment keys: %w", err)
	}
	projects := make([]string, 0, len(keys))
	for _, k := range keys {
		projects = append(projects, k[len(deploymentsKeyPrefix):])
	}
	return projects, nil
}
