package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	apperrors "sous-chef/backend/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Neo4j
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Discord
	DiscordBotToken string

	// NLU (conversation service)
	NLUURL         string
	NLUAPIKey      string
	NLUWorkspaceID string

	// Recipe catalog
	CatalogHost   string
	CatalogAPIKey string

	// Notification webhook (optional, disabled when URL is empty)
	NotifyURL    string
	NotifyAPIKey string

	// Timeouts and session lifecycle
	HTTPTimeout time.Duration
	SessionTTL  time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		Neo4jURI:        getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:       getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:   getEnv("NEO4J_PASSWORD", "password"),
		DiscordBotToken: getEnv("DISCORD_BOT_TOKEN", ""),
		NLUURL:          getEnv("NLU_URL", "http://localhost:4000"),
		NLUAPIKey:       getEnv("NLU_API_KEY", ""),
		NLUWorkspaceID:  getEnv("NLU_WORKSPACE_ID", ""),
		CatalogHost:     getEnv("CATALOG_HOST", "https://spoonacular-recipe-food-nutrition-v1.p.mashape.com"),
		CatalogAPIKey:   getEnv("CATALOG_API_KEY", ""),
		NotifyURL:       getEnv("NOTIFY_URL", ""),
		NotifyAPIKey:    getEnv("NOTIFY_API_KEY", ""),
		HTTPTimeout:     getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
		SessionTTL:      getEnvDuration("SESSION_TTL", 30*time.Minute),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Neo4jURI == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_URI")
	}
	if c.Neo4jUser == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_USER")
	}
	if c.Neo4jPassword == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_PASSWORD")
	}
	if c.NLUURL == "" {
		return apperrors.NewConfigMissingRequired("NLU_URL")
	}
	if c.CatalogHost == "" {
		return apperrors.NewConfigMissingRequired("CATALOG_HOST")
	}
	// Discord token, NLU workspace, catalog key and the notification webhook
	// are optional for development
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
