package service

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	deploydomain "github.com/buildflow-ai/ai-builder-backend/internal/deploy/domain"
	gendomain "github.com/buildflow-ai/ai-builder-backend/internal/generation/domain"
	personas "github.com/buildflow-ai/ai-builder-backend/internal/personas/domain"
	"github.com/buildflow-ai/ai-builder-backend/internal/projects/domain"
	terminaldomain "github.com/buildflow-ai/ai-builder-backend/internal/terminal/domain"
)

const totalSteps = 8

// Collaborator interfaces. The builder talks to every subsystem, so each is
// injected behind an interface; tests substitute fakes without touching
// module-level state.

type Generator interface {
	GenerateProject(ctx context.Context, req gendomain.AIRequest) *gendomain.AIResponse
	TestProject(ctx context.Context, files []domain.ProjectFile, language, framework string) []gendomain.TestResult
}

type CommandRunner interface {
	Execute(ctx context.Context, command string) *terminaldomain.TerminalCommand
	CreateFiles(ctx context.Context, files []domain.ProjectFile, baseDir string) []terminaldomain.TerminalCommand
	InstallDependencies(ctx context.Context, language, framework string) *terminaldomain.TerminalCommand
	SaveProject(ctx context.Context, projectName string, files []domain.ProjectFile) error
}

type Deployer interface {
	GenerateDeployConfig(platform, language, framework string) deploydomain.DeploymentConfig
	Deploy(ctx context.Context, projectName string, files []domain.ProjectFile, config deploydomain.DeploymentConfig) (*deploydomain.Deployment, error)
}

type PersonaResolver interface {
	Get(ctx context.Context, id string) (*personas.Persona, error)
}

// BuilderService runs the end-to-end complete-creation flow: eight strictly
// sequential phases from project creation through simulated deployment,
// with a progress record overwritten after each phase.
type BuilderService struct {
	projects  *ProjectService
	generator Generator
	runner    CommandRunner
	deployer  Deployer
	personas  PersonaResolver

	mu       sync.RWMutex
	progress map[string]*domain.ProjectProgress

	// progressTTL is how long a finished flow's progress record lingers
	// before it is cleared.
	progressTTL time.Duration
}

func NewBuilderService(projects *ProjectService, generator Generator, runner CommandRunner, deployer Deployer, personaResolver PersonaResolver) *BuilderService {
	return &BuilderService{
		projects:    projects,
		generator:   generator,
		runner:      runner,
		deployer:    deployer,
		personas:    personaResolver,
		progress:    make(map[string]*domain.ProjectProgress),
		progressTTL: 5 * time.Second,
	}
}

// Progress returns the live progress record for a project, if any.
func (s *BuilderService) Progress(projectID string) (*domain.ProjectProgress, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.progress[projectID]
	if !ok {
		return nil, false
	}
	c := *p
	c.Logs = append([]string(nil), p.Logs...)
	return &c, true
}

// CreateCompleteProject is the orchestrating end-to-end flow. Any error at
// any phase marks the project status=error, appends the error to the
// progress log and halts the remaining phases; completed phases are not
// rolled back.
func (s *BuilderService) CreateCompleteProject(ctx context.Context, prompt, language, framework, personaID string) (*domain.Project, error) {
	persona, err := s.personas.Get(ctx, personaID)
	if err != nil {
		return nil, fmt.Errorf("resolve persona: %w", err)
	}

	// Phase 1: create the project record.
	name := projectNameFromPrompt(prompt)
	project, err := s.projects.Create(ctx, name, prompt, language, framework, persona.ID)
	if err != nil {
		return nil, err
	}
	s.step(project.ID, 1, "Creating project", "Project created: "+project.Name)
	defer s.scheduleClear(project.ID)

	if err := s.setStatus(ctx, project.ID, domain.StatusCreating); err != nil {
		return s.fail(ctx, project.ID, err)
	}

	// Phase 2: generate the code.
	resp := s.generator.GenerateProject(ctx, gendomain.AIRequest{
		Prompt:      prompt,
		ProjectType: framework,
		Language:    language,
		Framework:   framework,
		Persona:     *persona,
	})
	if !resp.Success {
		return s.fail(ctx, project.ID, fmt.Errorf("generation failed: %s", resp.Error))
	}
	project, err = s.projects.Update(ctx, project.ID, domain.ProjectUpdate{
		Files:  resp.Files,
		Status: ptr(domain.StatusDeveloping),
	})
	if err != nil {
		return s.fail(ctx, project.ID, err)
	}
	s.step(project.ID, 2, "Generating code", fmt.Sprintf("Generated %d files", len(resp.Files)))

	// Phase 3: write the files into the simulated workspace.
	s.runner.CreateFiles(ctx, project.Files, project.Name)
	if err := s.runner.SaveProject(ctx, project.Name, project.Files); err != nil {
		return s.fail(ctx, project.ID, err)
	}
	s.step(project.ID, 3, "Writing files", "Files written to workspace")

	// Phase 4: install dependencies.
	install := s.runner.InstallDependencies(ctx, language, framework)
	if install.Status == terminaldomain.StatusError {
		return s.fail(ctx, project.ID, fmt.Errorf("dependency installation failed: %s", install.Output))
	}
	s.step(project.ID, 4, "Installing dependencies", install.Output)

	// Phase 5: run the simulated test analysis. Failed findings are logged,
	// not fatal.
	if err := s.setStatus(ctx, project.ID, domain.StatusTesting); err != nil {
		return s.fail(ctx, project.ID, err)
	}
	results := s.generator.TestProject(ctx, project.Files, language, framework)
	s.step(project.ID, 5, "Running tests", fmt.Sprintf("%d findings", len(results)))

	// Phase 6: git bookkeeping.
	for _, cmd := range []string{"git init", "git add .", `git commit -m "Initial commit"`} {
		s.runner.Execute(ctx, cmd)
	}
	s.step(project.ID, 6, "Committing to git", "Initial commit created")

	// Phase 7: derive the deploy configuration.
	if err := s.setStatus(ctx, project.ID, domain.StatusDeploying); err != nil {
		return s.fail(ctx, project.ID, err)
	}
	config := s.deployer.GenerateDeployConfig(deploydomain.PlatformVercel, language, framework)
	s.step(project.ID, 7, "Preparing deployment", "Build command: "+config.BuildCommand)

	// Phase 8: deploy.
	deployment, err := s.deployer.Deploy(ctx, project.Name, project.Files, config)
	if err != nil {
		return s.fail(ctx, project.ID, err)
	}
	project, err = s.projects.Update(ctx, project.ID, domain.ProjectUpdate{
		Status:        ptr(domain.StatusCompleted),
		DeploymentURL: &deployment.URL,
	})
	if err != nil {
		return s.fail(ctx, project.ID, err)
	}
	s.step(project.ID, 8, "Deploying", "Deployment started: "+deployment.URL)

	return project, nil
}

func (s *BuilderService) step(projectID string, n int, name, logLine string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.progress[projectID]
	if !ok {
		p = &domain.ProjectProgress{ProjectID: projectID, TotalSteps: totalSteps}
		s.progress[projectID] = p
	}
	p.CurrentStep = n
	p.StepName = name
	p.Progress = n * 100 / totalSteps
	p.Logs = append(p.Logs, logLine)
}

func (s *BuilderService) fail(ctx context.Context, projectID string, err error) (*domain.Project, error) {
	s.mu.Lock()
	if p, ok := s.progress[projectID]; ok {
		p.Logs = append(p.Logs, "Error: "+err.Error())
	}
	s.mu.Unlock()

	// Best effort: the project may be gone if the store itself failed.
	_, _ = s.projects.Update(ctx, projectID, domain.ProjectUpdate{Status: ptr(domain.StatusError)})
	return nil, err
}

func (s *BuilderService) setStatus(ctx context.Context, projectID, status string) error {
	_, err := s.projects.Update(ctx, projectID, domain.ProjectUpdate{Status: &status})
	return err
}

func (s *BuilderService) scheduleClear(projectID string) {
	time.AfterFunc(s.progressTTL, func() {
		s.mu.Lock()
		delete(s.progress, projectID)
		s.mu.Unlock()
	})
}

// projectNameFromPrompt derives a short project name from the description.
func projectNameFromPrompt(prompt string) string {
	const maxLen = 40
	name := prompt
	if len(name) > maxLen {
		cut := maxLen
		// Back up to a rune boundary so a multi-byte character is never split.
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = name[:cut]
	}
	return name
}

func ptr(s string) *string {
	return &s
}
