package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/jurisph/legal-qa-backend/config"
	httpapi "github.com/jurisph/legal-qa-backend/internal/api/http"
	"github.com/jurisph/legal-qa-backend/internal/api/http/middleware"
	qahttp "github.com/jurisph/legal-qa-backend/internal/qa/http"
	"github.com/jurisph/legal-qa-backend/internal/qa/llm"
	"github.com/jurisph/legal-qa-backend/internal/qa/repository"
	"github.com/jurisph/legal-qa-backend/internal/qa/retrieval"
	"github.com/jurisph/legal-qa-backend/internal/qa/service"
)

type RouterDeps struct {
	Config *config.Config
	DB     *pgxpool.Pool // nil disables the audit log
	Redis  *redis.Client // nil falls back to the in-process rate limiter
}

// SetGinMode switches gin to release mode outside development.
func SetGinMode(env string) {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}

// BuildRouter wires the pipeline components and registers all routes.
func BuildRouter(dep RouterDeps) *gin.Engine {
	cfg := dep.Config

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestID())
	if cfg.Redis.RequestsPerMinute > 0 {
		r.Use(middleware.RateLimit(dep.Redis, cfg.Redis.RequestsPerMinute))
	}

	healthHandler := httpapi.NewHealthHandler("legal-qa-backend", cfg.App.Version, cfg.App.Environment, dep.DB)
	healthHandler.RegisterRoutes(r)

	searchClient := retrieval.NewClient(cfg.Search.BaseURL, cfg.Search.Timeout)
	llmClient := llm.NewClient(llm.Options{
		BaseURL:        cfg.LLM.BaseURL,
		APIKey:         cfg.LLM.APIKey,
		ChatModel:      cfg.LLM.ChatModel,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
		Timeout:        cfg.LLM.Timeout,
	})

	qaService := service.New(searchClient, llmClient, cfg.Search.TopK)
	qaHandler := qahttp.New(qaService, llmClient)

	if dep.DB != nil {
		auditRepo := repository.NewAuditRepository(dep.DB)
		qaService.WithAuditLog(auditRepo)
		qaHandler.WithAuditReader(auditRepo)
	}

	qaHandler.Register(r)

	return r
}
