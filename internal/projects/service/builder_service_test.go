package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	deploydomain "github.com/buildflow-ai/ai-builder-backend/internal/deploy/domain"
	gendomain "github.com/buildflow-ai/ai-builder-backend/internal/generation/domain"
	personas "github.com/buildflow-ai/ai-builder-backend/internal/personas/domain"
	"github.com/buildflow-ai/ai-builder-backend/internal/projects/domain"
	"github.com/buildflow-ai/ai-builder-backend/internal/projects/repository"
	terminaldomain "github.com/buildflow-ai/ai-builder-backend/internal/terminal/domain"
)

type fakeGenerator struct {
	response  *gendomain.AIResponse
	testRuns  int
	generated int
}

func (f *fakeGenerator) GenerateProject(ctx context.Context, req gendomain.AIRequest) *gendomain.AIResponse {
	f.generated++
	return f.response
}

func (f *fakeGenerator) TestProject(ctx context.Context, files []domain.ProjectFile, language, framework string) []gendomain.TestResult {
	f.testRuns++
	return []gendomain.TestResult{{Type: gendomain.TestTypeFunctionality, Status: gendomain.TestStatusPassed, Message: "ok"}}
}

type fakeRunner struct {
	executed  []string
	installOK bool
	saveErr   error
}

func (f *fakeRunner) Execute(ctx context.Context, command string) *terminaldomain.TerminalCommand {
	f.executed = append(f.executed, command)
	return &terminaldomain.TerminalCommand{Command: command, Status: terminaldomain.StatusCompleted}
}

func (f *fakeRunner) CreateFiles(ctx context.Context, files []domain.ProjectFile, baseDir string) []terminaldomain.TerminalCommand {
	return nil
}

func (f *fakeRunner) InstallDependencies(ctx context.Context, language, framework string) *terminaldomain.TerminalCommand {
	status := terminaldomain.StatusError
	output := "Error: install failed"
	if f.installOK {
		status = terminaldomain.StatusCompleted
		output = "Dependencies installed"
	}
	return &terminaldomain.TerminalCommand{Command: "npm install", Output: output, Status: status}
}

func (f *fakeRunner) SaveProject(ctx context.Context, projectName string, files []domain.ProjectFile) error {
	return f.saveErr
}

type fakeDeployer struct {
	deployErr error
}

func (f *fakeDeployer) GenerateDeployConfig(platform, language, framework string) deploydomain.DeploymentConfig {
	return deploydomain.DeploymentConfig{Platform: platform, BuildCommand: "npm run build", OutputDirectory: "build"}
}

func (f *fakeDeployer) Deploy(ctx context.Context, projectName string, files []domain.ProjectFile, config deploydomain.DeploymentConfig) (*deploydomain.Deployment, error) {
	if f.deployErr != nil {
		return nil, f.deployErr
	}
	return &deploydomain.Deployment{ID: "dpl_test", URL: "https://my-app.vercel.app", State: deploydomain.StateBuilding}, nil
}

type fakePersonas struct{}

func (fakePersonas) Get(ctx context.Context, id string) (*personas.Persona, error) {
	if id == "missing" {
		return nil, personas.ErrPersonaNotFound
	}
	p := personas.Defaults()[0]
	return &p, nil
}

func successResponse() *gendomain.AIResponse {
	return &gendomain.AIResponse{
		Success: true,
		Files:   []domain.ProjectFile{{Path: "index.html", Content: "<html></html>", Size: 13}},
		Summary: "done",
	}
}

func newBuilderFixture(gen *fakeGenerator, runner *fakeRunner, deployer *fakeDeployer) (*BuilderService, *ProjectService) {
	projects := NewProjectService(repository.NewMemoryRepository())
	b := NewBuilderService(projects, gen, runner, deployer, fakePersonas{})
	return b, projects
}

func TestCreateCompleteProject_Success(t *testing.T) {
	gen := &fakeGenerator{response: successResponse()}
	runner := &fakeRunner{installOK: true}
	builder, projects := newBuilderFixture(gen, runner, &fakeDeployer{})

	p, err := builder.CreateCompleteProject(context.Background(), "A portfolio site", "javascript", "react", "modern-minimalist")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, p.Status)
	assert.Equal(t, "https://my-app.vercel.app", p.DeploymentURL)
	require.Len(t, p.Files, 1)

	stored, err := projects.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)

	assert.Equal(t, 1, gen.generated)
	assert.Equal(t, 1, gen.testRuns)

	joined := strings.Join(runner.executed, "\n")
	assert.Contains(t, joined, "git init")
	assert.Contains(t, joined, "git add .")
	assert.Contains(t, joined, `git commit -m "Initial commit"`)

	prog, ok := builder.Progress(p.ID)
	require.True(t, ok, "progress lingers briefly after completion")
	assert.Equal(t, totalSteps, prog.CurrentStep)
	assert.Equal(t, 100, prog.Progress)
	assert.Len(t, prog.Logs, totalSteps)
}

func TestCreateCompleteProject_GenerationFailureHalts(t *testing.T) {
	gen := &fakeGenerator{response: &gendomain.AIResponse{Success: false, Error: "model unavailable"}}
	runner := &fakeRunner{installOK: true}
	builder, projects := newBuilderFixture(gen, runner, &fakeDeployer{})

	_, err := builder.CreateCompleteProject(context.Background(), "A portfolio site", "javascript", "react", "modern-minimalist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")

	// The project exists, marked error; later phases never ran.
	list, lerr := projects.List(context.Background())
	require.NoError(t, lerr)
	require.Len(t, list, 1)
	assert.Equal(t, domain.StatusError, list[0].Status)
	assert.Equal(t, 0, gen.testRuns)
	assert.Empty(t, runner.executed)

	prog, ok := builder.Progress(list[0].ID)
	require.True(t, ok)
	assert.Contains(t, prog.Logs[len(prog.Logs)-1], "model unavailable")
}

func TestCreateCompleteProject_InstallFailureHalts(t *testing.T) {
	gen := &fakeGenerator{response: successResponse()}
	builder, projects := newBuilderFixture(gen, &fakeRunner{installOK: false}, &fakeDeployer{})

	_, err := builder.CreateCompleteProject(context.Background(), "A portfolio site", "javascript", "react", "modern-minimalist")
	require.Error(t, err)

	list, lerr := projects.List(context.Background())
	require.NoError(t, lerr)
	require.Len(t, list, 1)
	assert.Equal(t, domain.StatusError, list[0].Status)
	assert.Equal(t, 0, gen.testRuns)
	// No rollback: the generated files survive the failed flow.
	assert.Len(t, list[0].Files, 1)
}

func TestCreateCompleteProject_DeployFailureMarksError(t *testing.T) {
	gen := &fakeGenerator{response: successResponse()}
	runner := &fakeRunner{installOK: true}
	builder, projects := newBuilderFixture(gen, runner, &fakeDeployer{deployErr: errors.New("platform down")})

	_, err := builder.CreateCompleteProject(context.Background(), "A portfolio site", "javascript", "react", "modern-minimalist")
	require.Error(t, err)

	list, lerr := projects.List(context.Background())
	require.NoError(t, lerr)
	require.Len(t, list, 1)
	assert.Equal(t, domain.StatusError, list[0].Status)
	assert.Equal(t, 1, gen.testRuns, "test phase ran before deploy failed")
}

func TestCreateCompleteProject_UnknownPersona(t *testing.T) {
	builder, projects := newBuilderFixture(&fakeGenerator{response: successResponse()}, &fakeRunner{installOK: true}, &fakeDeployer{})

	_, err := builder.CreateCompleteProject(context.Background(), "A portfolio site", "javascript", "react", "missing")
	require.Error(t, err)

	// Nothing was created.
	list, lerr := projects.List(context.Background())
	require.NoError(t, lerr)
	assert.Empty(t, list)
}

func TestProjectNameFromPrompt(t *testing.T) {
	assert.Equal(t, "Short prompt", projectNameFromPrompt("Short prompt"))

	long := strings.Repeat("x", 100)
	assert.Len(t, projectNameFromPrompt(long), 40)

	// Truncation never splits a multi-byte character.
	accented := strings.Repeat("é", 50)
	name := projectNameFromPrompt(accented)
	assert.True(t, utf8.ValidString(name))
	assert.LessOrEqual(t, len(name), 40)
}
