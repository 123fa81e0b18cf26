package domain

import (
	personas "github.com/buildflow-ai/ai-builder-backend/internal/personas/domain"
	projects "github.com/buildflow-ai/ai-builder-backend/internal/projects/domain"
)

// AIRequest carries everything the prompt builder embeds in the instruction
// block sent to the generation endpoint.
type AIRequest struct {
	Prompt                 string           `json:"prompt"`
	ProjectType            string           `json:"project_type"`
	Language               string           `json:"language"`
	Framework              string           `json:"framework"`
	Persona                personas.Persona `json:"persona"`
	AdditionalRequirements []string         `json:"additional_requirements,omitempty"`
}

// AIResponse is the typed result of a generation or improvement call.
// Degradable operations never error; failures surface as Success=false with
// a non-empty Error and the caller decides what to do with previous files.
type AIResponse struct {
	Success       bool                   `json:"success"`
	Files         []projects.ProjectFile `json:"files"`
	Summary       string                 `json:"summary"`
	NextSteps     []string               `json:"next_steps"`
	BuildCommands []string               `json:"build_commands,omitempty"`
	RunCommands   []string               `json:"run_commands,omitempty"`
	TestResults   []TestResult           `json:"test_results,omitempty"`
	Error         string                 `json:"error,omitempty"`
}

// TestResult is a single finding from the simulated test analysis.
type TestResult struct {
	Type    string `json:"type"`   // syntax, functionality, performance, security
	Status  string `json:"status"` // passed, failed, warning, error
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

const (
	TestTypeSyntax        = "syntax"
	TestTypeFunctionality = "functionality"
	TestTypePerformance   = "performance"
	TestTypeSecurity      = "security"

	TestStatusPassed  = "passed"
	TestStatusFailed  = "failed"
	TestStatusWarning = "warning"
	TestStatusError   = "error"
)
