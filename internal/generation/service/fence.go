package service

import (
	"encoding/json"
	"fmt"
	"strings"

	projects "github.com/buildflow-ai/ai-builder-backend/internal/projects/domain"
)

// stripFences removes triple-backtick code fences (with or without a json
// language tag) around the model's answer. The model is instructed to reply
// with bare JSON but wraps it in fences often enough that this is the
// normal path.
func stripFences(answer string) string {
	s := strings.ReplaceAll(answer, "```json\n", "")
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```\n", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// projectPayload is the JSON object the model is instructed to produce for
// generation and improvement calls.
type projectPayload struct {
	Files         []filePayload `json:"files"`
	Summary       string        `json:"summary"`
	NextSteps     []string      `json:"nextSteps"`
	BuildCommands []string      `json:"buildCommands"`
	RunCommands   []string      `json:"runCommands"`
}

type filePayload struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

// testPayload is the JSON object produced for test analysis calls.
type testPayload struct {
	TestResults []testResultPayload `json:"testResults"`
	TestFiles   []filePayload       `json:"testFiles"`
	Summary     string              `json:"summary"`
}

type testResultPayload struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Details string `json:"details"`
}

// decodeProjectPayload parses and validates a fenced project response. This
// is the only boundary where free-form model text is coerced into typed
// data, so the shape is checked before anything downstream trusts it.
func decodeProjectPayload(answer string) (*projectPayload, error) {
	var payload projectPayload
	if err := json.Unmarshal([]byte(stripFences(answer)), &payload); err != nil {
		return nil, fmt.Errorf("malformed generation response: %w", err)
	}
	if len(payload.Files) == 0 {
		return nil, fmt.Errorf("generation response contains no files")
	}
	for i, f := range payload.Files {
		if strings.TrimSpace(f.Path) == "" {
			return nil, fmt.Errorf("generation response file %d has empty path", i)
		}
	}
	return &payload, nil
}

func decodeTestPayload(answer string) (*testPayload, error) {
	var payload testPayload
	if err := json.Unmarshal([]byte(stripFences(answer)), &payload); err != nil {
		return nil, fmt.Errorf("malformed test response: %w", err)
	}
	return &payload, nil
}

// uniqueByPath keeps the last file for each path. Paths are unique within a
// project even when the model repeats itself.
func uniqueByPath(files []projects.ProjectFile) []projects.ProjectFile {
	seen := make(map[string]int, len(files))
	out := make([]projects.ProjectFile, 0, len(files))
	for _, f := range files {
		if i, ok := seen[f.Path]; ok {
			out[i] = f
			continue
		}
		seen[f.Path] = len(out)
		out = append(out, f)
	}
	return out
}
