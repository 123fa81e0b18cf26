package domain

import (
	"time"

	projects "github.com/buildflow-ai/ai-builder-backend/internal/projects/domain"
)

// TerminalCommand is one entry in the append-only command log. Output is
// fabricated: no process is ever executed.
type TerminalCommand struct {
	ID        string    `json:"id"`
	Command   string    `json:"command"`
	Output    string    `json:"output"`
	Status    string    `json:"status"` // running, completed, error
	Timestamp time.Time `json:"timestamp"`
}

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// Snapshot is a saved copy of a project's files, keyed by project name.
type Snapshot struct {
	Name    string                 `json:"name"`
	Files   []projects.ProjectFile `json:"files"`
	SavedAt time.Time              `json:"saved_at"`
}
