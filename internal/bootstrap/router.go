package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/buildflow-ai/ai-builder-backend/internal/api/http"
	"github.com/buildflow-ai/ai-builder-backend/internal/api/http/middleware"
	"github.com/buildflow-ai/ai-builder-backend/internal/simulate"

	deployhttp "github.com/buildflow-ai/ai-builder-backend/internal/deploy/http"
	deployrepo "github.com/buildflow-ai/ai-builder-backend/internal/deploy/repository"
	deploysvc "github.com/buildflow-ai/ai-builder-backend/internal/deploy/service"
	genhttp "github.com/buildflow-ai/ai-builder-backend/internal/generation/http"
	"github.com/buildflow-ai/ai-builder-backend/internal/generation/llm"
	gensvc "github.com/buildflow-ai/ai-builder-backend/internal/generation/service"
	personahttp "github.com/buildflow-ai/ai-builder-backend/internal/personas/http"
	personarepo "github.com/buildflow-ai/ai-builder-backend/internal/personas/repository"
	personasvc "github.com/buildflow-ai/ai-builder-backend/internal/personas/service"
	projecthttp "github.com/buildflow-ai/ai-builder-backend/internal/projects/http"
	projectrepo "github.com/buildflow-ai/ai-builder-backend/internal/projects/repository"
	projectsvc "github.com/buildflow-ai/ai-builder-backend/internal/projects/service"
	settingshttp "github.com/buildflow-ai/ai-builder-backend/internal/settings/http"
	settingssvc "github.com/buildflow-ai/ai-builder-backend/internal/settings/service"
	terminalhttp "github.com/buildflow-ai/ai-builder-backend/internal/terminal/http"
	terminalrepo "github.com/buildflow-ai/ai-builder-backend/internal/terminal/repository"
	terminalsvc "github.com/buildflow-ai/ai-builder-backend/internal/terminal/service"

	"github.com/buildflow-ai/ai-builder-backend/config"
)

type RouterDeps struct {
	ServiceName string
	Config      *config.Config
	DB          *pgxpool.Pool
	Redis       *redis.Client
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.Config.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Config.App.Version, dep.Redis, dep.DB)
	healthHandler.RegisterRoutes(r)

	delay := simulate.RandomDelay()
	if !dep.Config.Builder.SimulatedLatency {
		delay = simulate.NoDelay()
	}

	var projRepo projectrepo.ProjectRepository
	if dep.DB != nil {
		projRepo = projectrepo.NewPostgresRepository(dep.DB)
	} else {
		projRepo = projectrepo.NewMemoryRepository()
	}

	projectService := projectsvc.NewProjectService(projRepo)
	personaService := personasvc.NewPersonaService(personarepo.NewPersonaRepository(dep.Redis))
	settingsService := settingssvc.NewSettingsService(dep.Redis)

	gemini := llm.NewGeminiClient(dep.Config.Gemini.URL, dep.Config.Gemini.APIKey, dep.Config.Gemini.Timeout)
	generationService := gensvc.NewGenerationService(gemini)

	runner := terminalsvc.NewRunner(terminalrepo.NewFileStore(dep.Redis), delay)
	deployService := deploysvc.NewDeployService(deployrepo.NewDeploymentRepository(dep.Redis), delay)

	builderService := projectsvc.NewBuilderService(projectService, generationService, runner, deployService, personaService)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestIDMiddleware())

	projectsGroup := api.Group("/projects")
	projecthttp.New(projectService, builderService).Register(projectsGroup)
	genhttp.New(generationService, projectService, personaService).Register(projectsGroup)

	deployHandler := deployhttp.New(deployService, projectService)
	deployHandler.RegisterProjectRoutes(projectsGroup)
	deployHandler.Register(api.Group("/deployments"))

	personahttp.New(personaService, generationService).Register(api.Group("/personas"))
	terminalhttp.New(runner).Register(api.Group("/terminal"))
	settingshttp.New(settingsService).Register(api.Group("/settings"))

	return r
}
