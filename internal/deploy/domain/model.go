package domain

import (
	"errors"
	"time"
)

// Deployment is a fabricated deployment record. State transitions
// BUILDING → READY happen after a randomized delay with no external
// confirmation; callers observe them by re-fetching the record.
type Deployment struct {
	ID         string     `json:"id"`
	Project    string     `json:"project"`
	Platform   string     `json:"platform"`
	URL        string     `json:"url"`
	State      string     `json:"state"` // BUILDING, READY, ERROR
	CreatedAt  time.Time  `json:"created_at"`
	BuildingAt *time.Time `json:"building_at,omitempty"`
	ReadyAt    *time.Time `json:"ready_at,omitempty"`
}

const (
	StateBuilding = "BUILDING"
	StateReady    = "READY"
	StateError    = "ERROR"
)

// Supported platforms.
const (
	PlatformVercel      = "vercel"
	PlatformNetlify     = "netlify"
	PlatformGitHubPages = "github-pages"
	PlatformHeroku      = "heroku"
)

// DeploymentConfig describes how a project is built for a platform.
type DeploymentConfig struct {
	Platform             string            `json:"platform"`
	BuildCommand         string            `json:"build_command,omitempty"`
	OutputDirectory      string            `json:"output_directory,omitempty"`
	EnvironmentVariables map[string]string `json:"environment_variables,omitempty"`
	CustomDomain         string            `json:"custom_domain,omitempty"`
}

var (
	ErrUnsupportedPlatform = errors.New("unsupported deployment platform")
	ErrDeploymentNotFound  = errors.New("deployment not found")
)
