package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/buildflow-ai/ai-builder-backend/internal/deploy/domain"
	"github.com/buildflow-ai/ai-builder-backend/internal/deploy/repository"
	projects "github.com/buildflow-ai/ai-builder-backend/internal/projects/domain"
	"github.com/buildflow-ai/ai-builder-backend/internal/simulate"
)

// platform build-delay windows. Netlify is the fastest simulated platform,
// Heroku the slowest.
var buildWindows = map[string][2]time.Duration{
	domain.PlatformVercel:      {3 * time.Second, 5 * time.Second},
	domain.PlatformNetlify:     {2500 * time.Millisecond, 4 * time.Second},
	domain.PlatformGitHubPages: {4 * time.Second, 7 * time.Second},
	domain.PlatformHeroku:      {5 * time.Second, 9 * time.Second},
}

// DeployService fabricates deployment records and walks them through the
// BUILDING → READY transition on a timer. Nothing real is deployed.
type DeployService struct {
	repo  *repository.DeploymentRepository
	delay simulate.Delay
}

func NewDeployService(repo *repository.DeploymentRepository, delay simulate.Delay) *DeployService {
	if delay == nil {
		delay = simulate.RandomDelay()
	}
	return &DeployService{repo: repo, delay: delay}
}

// Deploy creates a BUILDING record with a synthesized URL, persists it, and
// schedules the READY transition after the platform's build window. The
// transition is not cancellable; observation is by re-fetch.
func (s *DeployService) Deploy(ctx context.Context, projectName string, files []projects.ProjectFile, config domain.DeploymentConfig) (*domain.Deployment, error) {
	window, ok := buildWindows[config.Platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedPlatform, config.Platform)
	}

	now := time.Now()
	dep := &domain.Deployment{
		ID:         "dpl_" + randomID(13),
		Project:    projectName,
		Platform:   config.Platform,
		URL:        deploymentURL(config.Platform, projectName),
		State:      domain.StateBuilding,
		CreatedAt:  now,
		BuildingAt: &now,
	}

	if err := s.repo.Append(ctx, dep); err != nil {
		return nil, err
	}

	buildDelay := s.delay(window[0], window[1])
	go s.completeBuild(dep.ID, buildDelay)

	return dep, nil
}

// completeBuild flips the stored record to READY after the build delay.
// It runs detached from the request context: closing the client abandons
// nothing real, so the transition always lands.
func (s *DeployService) completeBuild(id string, after time.Duration) {
	time.Sleep(after)

	ctx := context.Background()
	dep, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Printf("[warn] deployment %s vanished before build completed: %v", id, err)
		return
	}

	now := time.Now()
	dep.State = domain.StateReady
	dep.ReadyAt = &now
	if err := s.repo.Update(ctx, dep); err != nil {
		log.Printf("[warn] failed to mark deployment %s ready: %v", id, err)
	}
}

// DeploymentStatus re-fetches a record by id, observing any transition the
// build goroutine has written in the meantime.
func (s *DeployService) DeploymentStatus(ctx context.Context, id string) (*domain.Deployment, error) {
	return s.repo.GetByID(ctx, id)
}

// ProjectDeployments returns the persisted deployment list for a project.
func (s *DeployService) ProjectDeployments(ctx context.Context, projectName string) ([]domain.Deployment, error) {
	return s.repo.List(ctx, projectName)
}

// RollbackDeployment simulates a rollback: verify, wait, succeed. The
// record itself is left untouched.
func (s *DeployService) RollbackDeployment(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	time.Sleep(s.delay(2*time.Second, 2*time.Second))
	return nil
}

// DeleteDeployment removes the record from the persisted per-project list.
func (s *DeployService) DeleteDeployment(ctx context.Context, id string) error {
	return s.repo.Remove(ctx, id)
}

// CreateGitHubRepository fabricates a repository URL for the project.
func (s *DeployService) CreateGitHubRepository(ctx context.Context, projectName string, private bool) (string, error) {
	time.Sleep(s.delay(1500*time.Millisecond, 1500*time.Millisecond))
	return "https://github.com/username/" + slugify(projectName), nil
}

// PushToGitHub simulates pushing the project's files.
func (s *DeployService) PushToGitHub(ctx context.Context, projectName string, files []projects.ProjectFile) error {
	time.Sleep(s.delay(2*time.Second, 2*time.Second))
	return nil
}

// ConfigureDomain simulates attaching a custom domain to a deployment.
func (s *DeployService) ConfigureDomain(ctx context.Context, id, customDomain string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	time.Sleep(s.delay(3*time.Second, 3*time.Second))
	return nil
}

// GenerateDeployConfig derives build command, output directory and platform
// environment variables from a static lookup.
func (s *DeployService) GenerateDeployConfig(platform, language, framework string) domain.DeploymentConfig {
	config := domain.DeploymentConfig{
		Platform:             platform,
		BuildCommand:         buildCommand(language, framework),
		OutputDirectory:      outputDirectory(framework),
		EnvironmentVariables: map[string]string{},
	}

	switch platform {
	case domain.PlatformVercel:
		config.EnvironmentVariables["NODE_ENV"] = "production"
	case domain.PlatformNetlify:
		config.EnvironmentVariables["CI"] = "true"
		config.EnvironmentVariables["NODE_ENV"] = "production"
	}

	return config
}

func buildCommand(language, framework string) string {
	switch {
	case framework == "react", framework == "vue", framework == "angular", framework == "nextjs":
		return "npm run build"
	case language == "python":
		return "pip install -r requirements.txt"
	case language == "go":
		return "go build"
	default:
		return "npm run build"
	}
}

func outputDirectory(framework string) string {
	switch framework {
	case "react":
		return "build"
	case "nextjs":
		return ".next"
	default:
		return "dist"
	}
}

func deploymentURL(platform, projectName string) string {
	slug := slugify(projectName)
	switch platform {
	case domain.PlatformVercel:
		return fmt.Sprintf("https://%s-%s.vercel.app", slug, randomID(6))
	case domain.PlatformNetlify:
		return fmt.Sprintf("https://%s-%s.netlify.app", slug, randomID(6))
	case domain.PlatformHeroku:
		return fmt.Sprintf("https://%s-%s.herokuapp.com", slug, randomID(6))
	case domain.PlatformGitHubPages:
		return "https://username.github.io/" + slug
	default:
		return "https://" + slug + ".example.com"
	}
}

func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

func randomID(n int) string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = chars[rand.Intn(len(chars))]
	}
	return string(b)
}
