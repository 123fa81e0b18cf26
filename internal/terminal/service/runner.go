package service

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	projects "github.com/buildflow-ai/ai-builder-backend/internal/projects/domain"
	"github.com/buildflow-ai/ai-builder-backend/internal/simulate"
	"github.com/buildflow-ai/ai-builder-backend/internal/terminal/domain"
	"github.com/buildflow-ai/ai-builder-backend/internal/terminal/repository"
)

var commitMessageRe = regexp.MustCompile(`-m "([^"]+)"`)

// Runner simulates shell execution: each command maps to a canned,
// randomized-detail output after a bounded delay. Execute always resolves;
// internal errors are captured into the command's own error status.
type Runner struct {
	mu         sync.Mutex
	currentDir string
	commands   []domain.TerminalCommand

	files *repository.FileStore
	delay simulate.Delay
}

// NewRunner creates a runner rooted at the simulated workspace directory.
func NewRunner(files *repository.FileStore, delay simulate.Delay) *Runner {
	if delay == nil {
		delay = simulate.RandomDelay()
	}
	return &Runner{
		currentDir: `C:\`,
		commands:   []domain.TerminalCommand{},
		files:      files,
		delay:      delay,
	}
}

// Execute simulates a single command. The delay emulates execution latency;
// once started it is not cancellable.
func (r *Runner) Execute(ctx context.Context, command string) *domain.TerminalCommand {
	cmd := domain.TerminalCommand{
		ID:        uuid.New().String(),
		Command:   command,
		Status:    domain.StatusRunning,
		Timestamp: time.Now(),
	}

	output, err := r.dispatch(command)

	time.Sleep(r.delay(500*time.Millisecond, 2500*time.Millisecond))

	if err != nil {
		cmd.Output = fmt.Sprintf("Error: %v", err)
		cmd.Status = domain.StatusError
	} else {
		cmd.Output = output
		cmd.Status = domain.StatusCompleted
	}

	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	r.mu.Unlock()

	return &cmd
}

// dispatch matches the command against the fixed vocabulary and synthesizes
// its output. Paths are never validated; there is no filesystem behind them.
func (r *Runner) dispatch(command string) (string, error) {
	switch {
	case strings.HasPrefix(command, "cd "):
		newDir := strings.TrimSpace(strings.TrimPrefix(command, "cd "))
		r.mu.Lock()
		r.currentDir = newDir
		r.mu.Unlock()
		return fmt.Sprintf("Directory changed to: %s", newDir), nil

	case command == "pwd":
		return r.CurrentDirectory(), nil

	case strings.HasPrefix(command, "mkdir "):
		dirName := strings.TrimSpace(strings.TrimPrefix(command, "mkdir "))
		dirName = strings.TrimSpace(strings.TrimPrefix(dirName, "-p "))
		return fmt.Sprintf("Directory '%s' created successfully", dirName), nil

	case strings.HasPrefix(command, "git init"):
		return "Initialized empty Git repository", nil

	case strings.HasPrefix(command, "git add"):
		return "Files added to staging area", nil

	case strings.HasPrefix(command, "git commit"):
		message := "Initial commit"
		if m := commitMessageRe.FindStringSubmatch(command); m != nil {
			message = m[1]
		}
		return fmt.Sprintf("[main %s] %s\n%d files changed, %d insertions(+)",
			randomCommitHash(), message, rand.Intn(50), rand.Intn(1000)), nil

	case strings.HasPrefix(command, "git push"):
		return "Enumerating objects: 35, done.\n" +
			"Counting objects: 100% (35/35), done.\n" +
			"Writing objects: 100% (35/35), done.\n" +
			"Total 35 (delta 0), reused 0 (delta 0)\n" +
			"To github.com:user/repo.git\n" +
			" * [new branch]      main -> main", nil

	case strings.HasPrefix(command, "npm install"), strings.HasPrefix(command, "yarn install"):
		return fmt.Sprintf("Installing dependencies...\n✓ Dependencies installed successfully\n✓ Packages installed: %d packages", rand.Intn(500)), nil

	case strings.HasPrefix(command, "npm run"), strings.HasPrefix(command, "yarn"):
		parts := strings.Fields(command)
		script := parts[len(parts)-1]
		return fmt.Sprintf("Running script '%s'...\n✓ Build completed successfully\n✓ Output written to 'dist/'", script), nil

	case strings.HasPrefix(command, "python "):
		return "Running Python application...\n✓ Server started at http://localhost:8000", nil

	case strings.HasPrefix(command, "node "):
		return "Running Node.js application...\n✓ Server started at http://localhost:3000", nil

	case strings.Contains(command, "vercel deploy"), strings.Contains(command, "vercel --prod"):
		return fmt.Sprintf("Deploying to Vercel...\n✓ Deployment successful\n✓ URL: https://app-%s.vercel.app", randomID(8)), nil

	case strings.HasPrefix(command, "ls"), strings.HasPrefix(command, "dir"):
		return "package.json\npackage-lock.json\nsrc/\npublic/\nREADME.md\n.gitignore", nil

	default:
		return fmt.Sprintf("Command '%s' executed successfully", command), nil
	}
}

// Commands returns the ordered command log.
func (r *Runner) Commands() []domain.TerminalCommand {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.TerminalCommand, len(r.commands))
	copy(out, r.commands)
	return out
}

// ClearHistory wipes the command log.
func (r *Runner) ClearHistory() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = r.commands[:0]
}

// CurrentDirectory returns the simulated working directory.
func (r *Runner) CurrentDirectory() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentDir
}

// CreateFiles simulates writing generated files: a mkdir for each file's
// directory, an echo confirmation, and the raw content persisted under a
// file:<baseDir>/<path> key.
func (r *Runner) CreateFiles(ctx context.Context, files []projects.ProjectFile, baseDir string) []domain.TerminalCommand {
	if baseDir == "" {
		baseDir = r.CurrentDirectory()
	}

	results := make([]domain.TerminalCommand, 0, len(files)*2)
	for _, file := range files {
		if dir := dirPath(file.Path); dir != "." {
			results = append(results, *r.Execute(ctx, fmt.Sprintf("mkdir -p %s", dir)))
		}
		results = append(results, *r.Execute(ctx, fmt.Sprintf("echo 'File created: %s'", file.Path)))

		if err := r.files.SaveFile(ctx, baseDir+"/"+file.Path, file.Content); err != nil {
			results = append(results, domain.TerminalCommand{
				ID:        uuid.New().String(),
				Command:   fmt.Sprintf("write %s", file.Path),
				Output:    fmt.Sprintf("Error: %v", err),
				Status:    domain.StatusError,
				Timestamp: time.Now(),
			})
		}
	}
	return results
}

// SetupProject chains the per-framework scaffold commands plus git init.
func (r *Runner) SetupProject(ctx context.Context, projectName, language, framework string) []domain.TerminalCommand {
	commands := []string{
		fmt.Sprintf("mkdir %s", projectName),
		fmt.Sprintf("cd %s", projectName),
	}

	switch {
	case framework == "react":
		commands = append(commands, "npx create-react-app . --template typescript")
	case framework == "vue":
		commands = append(commands, "npm create vue@latest .")
	case framework == "angular":
		commands = append(commands, "ng new . --routing --style=css")
	case framework == "nextjs":
		commands = append(commands, "npx create-next-app@latest . --typescript --tailwind --eslint")
	case language == "python":
		commands = append(commands, "python -m venv venv", "pip install flask fastapi uvicorn")
	case language == "node" || language == "javascript":
		commands = append(commands, "npm init -y", "npm install express")
	}

	commands = append(commands, "git init", "git add .", `git commit -m "Initial commit"`)

	results := make([]domain.TerminalCommand, 0, len(commands))
	for _, cmd := range commands {
		results = append(results, *r.Execute(ctx, cmd))
	}
	return results
}

// InstallDependencies picks the install command for the project's language.
func (r *Runner) InstallDependencies(ctx context.Context, language, framework string) *domain.TerminalCommand {
	command := "npm install"
	switch language {
	case "python":
		command = "pip install -r requirements.txt"
	case "php":
		command = "composer install"
	case "ruby":
		command = "bundle install"
	case "go":
		command = "go mod tidy"
	}
	return r.Execute(ctx, command)
}

// RunProject picks the run command for the project's language/framework.
func (r *Runner) RunProject(ctx context.Context, language, framework string) *domain.TerminalCommand {
	command := "npm start"
	switch {
	case framework == "nextjs":
		command = "npm run dev"
	case framework == "vue":
		command = "npm run serve"
	case language == "python":
		command = "python app.py"
	case language == "go":
		command = "go run main.go"
	case language == "php":
		command = "php -S localhost:8000"
	}
	return r.Execute(ctx, command)
}

// DeployToVercel chains build + deploy and folds the outputs into a single
// combined command entry.
func (r *Runner) DeployToVercel(ctx context.Context, projectName string) *domain.TerminalCommand {
	var combined strings.Builder
	for _, cmd := range []string{"npm run build", "vercel --prod"} {
		result := r.Execute(ctx, cmd)
		combined.WriteString(result.Output)
		combined.WriteString("\n")
	}

	return &domain.TerminalCommand{
		ID:        uuid.New().String(),
		Command:   "Deploy to Vercel",
		Output:    combined.String(),
		Status:    domain.StatusCompleted,
		Timestamp: time.Now(),
	}
}

// SaveProject persists a named snapshot of the files.
func (r *Runner) SaveProject(ctx context.Context, projectName string, files []projects.ProjectFile) error {
	return r.files.SaveSnapshot(ctx, projectName, files)
}

// LoadProject returns a previously saved snapshot, or nil.
func (r *Runner) LoadProject(ctx context.Context, projectName string) (*domain.Snapshot, error) {
	return r.files.LoadSnapshot(ctx, projectName)
}

// SavedProjects lists saved snapshot names.
func (r *Runner) SavedProjects(ctx context.Context) ([]string, error) {
	return r.files.SavedProjects(ctx)
}

// DeleteProject removes a saved snapshot.
func (r *Runner) DeleteProject(ctx context.Context, projectName string) error {
	return r.files.DeleteSnapshot(ctx, projectName)
}

func dirPath(filePath string) string {
	parts := strings.Split(filePath, "/")
	if len(parts) <= 1 {
		return "."
	}
	return strings.Join(parts[:len(parts)-1], "/")
}

func randomCommitHash() string {
	const chars = "0123456789abcdef"
	b := make([]byte, 7)
	for i := range b {
		b[i] = chars[rand.Intn(len(chars))]
	}
	return string(b)
}

func randomID(n int) string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = chars[rand.Intn(len(chars))]
	}
	return string(b)
}
