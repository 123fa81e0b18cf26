package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Gemini   GeminiConfig
	Builder  BuilderConfig
	App      AppConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// DatabaseConfig configures the optional Postgres project store.
// When DSN is empty the service falls back to the in-memory repository.
type DatabaseConfig struct {
	DSN      string
	MaxConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type GeminiConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// BuilderConfig controls the simulated latency of command/deploy operations
// and how long deployment records are retained before the pruning job
// removes them. SIMULATED_LATENCY=off makes every simulated step resolve
// instantly, which tests rely on.
type BuilderConfig struct {
	SimulatedLatency bool
	RetentionDays    int
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: []string{getEnv("ALLOWED_ORIGIN", "http://localhost:5173")},
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Gemini: GeminiConfig{
			URL:     getEnv("GEMINI_URL", "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash-latest:generateContent"),
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Timeout: time.Duration(getEnvAsInt("GEMINI_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		Builder: BuilderConfig{
			SimulatedLatency: getEnv("SIMULATED_LATENCY", "on") != "off",
			RetentionDays:    getEnvAsInt("DEPLOYMENT_RETENTION_DAYS", 30),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}

	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}
