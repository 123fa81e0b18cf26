package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/buildflow-ai/ai-builder-backend/internal/generation/domain"
	personas "github.com/buildflow-ai/ai-builder-backend/internal/personas/domain"
	projects "github.com/buildflow-ai/ai-builder-backend/internal/projects/domain"
)

// LLMClient is the single upstream dependency of the generation service.
// Tests substitute a fake; production wires the Gemini client.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerationService owns every interaction with the generation endpoint and
// the fence-strip/parse boundary that turns model text into typed data.
type GenerationService struct {
	llm LLMClient
}

func NewGenerationService(llm LLMClient) *GenerationService {
	return &GenerationService{llm: llm}
}

// GenerateProject builds the instruction block from the request, performs a
// single round trip to the generation endpoint and decodes the fenced JSON
// answer. It never returns an error: failures degrade into Success=false
// with empty files, and the caller keeps whatever files it already had.
func (s *GenerationService) GenerateProject(ctx context.Context, req domain.AIRequest) *domain.AIResponse {
	logger := NewLogger(ctx)

	if strings.TrimSpace(req.Prompt) == "" {
		return failureResponse("prompt must not be empty")
	}
	if err := req.Persona.Validate(); err != nil {
		return failureResponse(err.Error())
	}

	answer, err := s.llm.Generate(ctx, buildProjectPrompt(req))
	if err != nil {
		logger.LogError("generate_project", err)
		return failureResponse(err.Error())
	}

	payload, err := decodeProjectPayload(answer)
	if err != nil {
		logger.LogError("generate_project", err)
		return failureResponse(err.Error())
	}

	logger.LogInfof("generate_project", "generated %d files", len(payload.Files))
	return &domain.AIResponse{
		Success:       true,
		Files:         materializeFiles(payload.Files),
		Summary:       payload.Summary,
		NextSteps:     orEmpty(payload.NextSteps),
		BuildCommands: payload.BuildCommands,
		RunCommands:   payload.RunCommands,
		TestResults:   []domain.TestResult{},
	}
}

// TestProject asks the model for a findings array. It always returns a
// usable slice: when the call or the decode fails, the slice contains a
// single functionality/error finding describing what went wrong.
func (s *GenerationService) TestProject(ctx context.Context, files []projects.ProjectFile, language, framework string) []domain.TestResult {
	logger := NewLogger(ctx)

	answer, err := s.llm.Generate(ctx, buildTestPrompt(files, language, framework))
	if err != nil {
		logger.LogError("test_project", err)
		return errorTestResults(err)
	}

	payload, err := decodeTestPayload(answer)
	if err != nil {
		logger.LogError("test_project", err)
		return errorTestResults(err)
	}

	results := make([]domain.TestResult, 0, len(payload.TestResults))
	for _, r := range payload.TestResults {
		results = append(results, domain.TestResult{
			Type:    r.Type,
			Status:  r.Status,
			Message: r.Message,
			Details: r.Details,
		})
	}
	return results
}

// ImproveProject feeds the current files and free-text feedback back to the
// model. On failure the response carries the input files untouched so the
// caller never ends up with a partial overwrite.
func (s *GenerationService) ImproveProject(ctx context.Context, files []projects.ProjectFile, feedback string, persona personas.Persona) *domain.AIResponse {
	logger := NewLogger(ctx)

	answer, err := s.llm.Generate(ctx, buildImprovePrompt(files, feedback, persona))
	if err != nil {
		logger.LogError("improve_project", err)
		return improveFailure(files, err)
	}

	payload, err := decodeProjectPayload(answer)
	if err != nil {
		logger.LogError("improve_project", err)
		return improveFailure(files, err)
	}

	return &domain.AIResponse{
		Success:       true,
		Files:         materializeFiles(payload.Files),
		Summary:       payload.Summary,
		NextSteps:     orEmpty(payload.NextSteps),
		BuildCommands: payload.BuildCommands,
		RunCommands:   payload.RunCommands,
	}
}

// CreatePersona asks the model for a persona descriptor. Unlike the other
// operations there is no sensible degraded value, so failures are returned
// to the caller.
func (s *GenerationService) CreatePersona(ctx context.Context, description, stylePreferences, examples string) (*personas.Persona, error) {
	logger := NewLogger(ctx)

	answer, err := s.llm.Generate(ctx, buildPersonaPrompt(description, stylePreferences, examples))
	if err != nil {
		logger.LogError("create_persona", err)
		return nil, fmt.Errorf("failed to create persona: %w", err)
	}

	var persona personas.Persona
	if err := json.Unmarshal([]byte(stripFences(answer)), &persona); err != nil {
		logger.LogError("create_persona", err)
		return nil, fmt.Errorf("malformed persona response: %w", err)
	}
	if err := persona.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create persona: %w", err)
	}

	persona.TrainedBy = "user"
	return &persona, nil
}

func materializeFiles(in []filePayload) []projects.ProjectFile {
	now := time.Now()
	files := make([]projects.ProjectFile, 0, len(in))
	for _, f := range in {
		files = append(files, projects.ProjectFile{
			Path:         f.Path,
			Content:      f.Content,
			Language:     f.Language,
			Size:         len(f.Content),
			LastModified: now,
		})
	}
	return uniqueByPath(files)
}

func failureResponse(msg string) *domain.AIResponse {
	return &domain.AIResponse{
		Success:   false,
		Files:     []projects.ProjectFile{},
		Summary:   "Project generation failed",
		NextSteps: []string{},
		Error:     msg,
	}
}

func improveFailure(files []projects.ProjectFile, err error) *domain.AIResponse {
	return &domain.AIResponse{
		Success:   false,
		Files:     files,
		Summary:   "Failed to apply improvements",
		NextSteps: []string{},
		Error:     err.Error(),
	}
}

func errorTestResults(err error) []domain.TestResult {
	return []domain.TestResult{{
		Type:    domain.TestTypeFunctionality,
		Status:  domain.TestStatusError,
		Message: "Test analysis failed",
		Details: err.Error(),
	}}
}

func orEmpty(steps []string) []string {
	if steps == nil {
		return []string{}
	}
	return steps
}
