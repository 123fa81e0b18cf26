package domain

import "time"

// Project is a single AI-generated workspace. File contents are the
// authoritative source of truth; there is no diffing or versioning.
type Project struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Language      string        `json:"language"`
	Framework     string        `json:"framework"`
	PersonaID     string        `json:"persona_id"`
	Status        string        `json:"status"`
	Files         []ProjectFile `json:"files"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	DeploymentURL string        `json:"deployment_url,omitempty"`
	GitRepository string        `json:"git_repository,omitempty"`
}

// ProjectFile belongs to exactly one project; Path is unique within it.
type ProjectFile struct {
	Path         string    `json:"path"`
	Content      string    `json:"content"`
	Language     string    `json:"language"`
	Size         int       `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Project status values. The lifecycle runs planning → creating →
// developing → testing → deploying → completed, with error terminal on
// any failed phase.
const (
	StatusPlanning   = "planning"
	StatusCreating   = "creating"
	StatusDeveloping = "developing"
	StatusTesting    = "testing"
	StatusDeploying  = "deploying"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// ValidStatus reports whether s is one of the project status values.
func ValidStatus(s string) bool {
	switch s {
	case StatusPlanning, StatusCreating, StatusDeveloping, StatusTesting,
		StatusDeploying, StatusCompleted, StatusError:
		return true
	}
	return false
}

// ProjectUpdate is a partial patch. Nil fields are left untouched; any
// applied patch bumps UpdatedAt, even an empty one.
type ProjectUpdate struct {
	Name          *string
	Description   *string
	Status        *string
	Files         []ProjectFile
	DeploymentURL *string
	GitRepository *string
}

// ProjectProgress is the ephemeral per-phase progress record emitted during
// the complete-creation flow. It is overwritten per step and cleared after
// completion or error.
type ProjectProgress struct {
	ProjectID   string   `json:"project_id"`
	CurrentStep int      `json:"current_step"`
	TotalSteps  int      `json:"total_steps"`
	StepName    string   `json:"step_name"`
	Progress    int      `json:"progress"`
	Logs        []string `json:"logs"`
}
