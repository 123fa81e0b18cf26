package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/buildflow-ai/ai-builder-backend/internal/deploy/repository"
)

// Scheduler runs the nightly deployment-retention job: deployment records
// older than the retention window are pruned per project.
type Scheduler struct {
	deployments   *repository.DeploymentRepository
	retentionDays int
}

func NewScheduler(deployments *repository.DeploymentRepository, retentionDays int) *Scheduler {
	return &Scheduler{deployments: deployments, retentionDays: retentionDays}
}

// Start initializes cron tasks.
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	//  (12:00 AM)
	_, err := c.AddFunc("0 0 0 * * *", func() {
		s.pruneDeployments()
	})

	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (pruning deployments nightly at 12:00AM)")
	c.Start()
}

func (s *Scheduler) pruneDeployments() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -s.retentionDays).Unix()

	projects, err := s.deployments.Projects(ctx)
	if err != nil {
		log.Printf("Deployment prune failed: %v", err)
		return
	}

	total := 0
	for _, project := range projects {
		n, err := s.deployments.PruneOlderThan(ctx, project, cutoff)
		if err != nil {
			log.Printf("Deployment prune failed for %s: %v", project, err)
			continue
		}
		total += n
	}

	log.Printf("Deployment prune completed: removed %d records at %s", total, time.Now().Format(time.RFC1123))
}
