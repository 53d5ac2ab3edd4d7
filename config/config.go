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
	Search   SearchConfig
	LLM      LLMConfig
	Database DatabaseConfig
	Redis    RedisConfig
	App      AppConfig
}

type ServerConfig struct {
	Port          string
	AllowedOrigin string
}

type SearchConfig struct {
	BaseURL string
	TopK    int
	Timeout time.Duration
}

type LLMConfig struct {
	BaseURL        string
	APIKey         string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
}

// DatabaseConfig holds the optional audit-log database. Empty DSN disables it.
type DatabaseConfig struct {
	DSN string
}

// RedisConfig holds the optional rate-limit backend. Empty Addr means the
// in-process fallback limiter is used.
type RedisConfig struct {
	Addr              string
	RequestsPerMinute int
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
			Port:          getEnv("PORT", "8080"),
			AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),
		},
		Search: SearchConfig{
			BaseURL: getEnv("SEARCH_BASE_URL", ""),
			TopK:    getEnvAsInt("SEARCH_TOP_K", 5),
			Timeout: time.Duration(getEnvAsInt("SEARCH_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		LLM: LLMConfig{
			BaseURL:        getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			ChatModel:      getEnv("CHAT_MODEL", "gpt-4o-mini"),
			EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			Timeout:        time.Duration(getEnvAsInt("LLM_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		Database: DatabaseConfig{
			DSN: getEnv("DB_DSN", ""),
		},
		Redis: RedisConfig{
			Addr:              getEnv("REDIS_ADDR", ""),
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
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

	if c.Search.BaseURL == "" {
		return fmt.Errorf("SEARCH_BASE_URL is required")
	}

	if c.LLM.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}

	if c.Search.TopK <= 0 {
		return fmt.Errorf("SEARCH_TOP_K must be positive")
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
