package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mehran-shabani/llm-workspace-api/internal/auth"
	"github.com/mehran-shabani/llm-workspace-api/internal/catalog"
	"github.com/mehran-shabani/llm-workspace-api/internal/config"
	"github.com/mehran-shabani/llm-workspace-api/internal/openai"
	"github.com/mehran-shabani/llm-workspace-api/internal/server/middleware"
	"github.com/mehran-shabani/llm-workspace-api/internal/server/validator"
	"github.com/mehran-shabani/llm-workspace-api/internal/store"
	"github.com/mehran-shabani/llm-workspace-api/internal/store/cache"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Server wires middleware, handlers and routes onto a gin engine.
type Server struct {
	router  *gin.Engine
	config  *config.Config
	logger  *zap.Logger
	repo    store.Repository
	cache   cache.CacheService
	client  openai.API
	catalog *catalog.Catalog
	tokens  *auth.TokenManager
}

func New(
	cfg *config.Config,
	logger *zap.Logger,
	repo store.Repository,
	cacheSvc cache.CacheService,
	client openai.API,
	cat *catalog.Catalog,
	tokens *auth.TokenManager,
) *Server {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	validator.InitValidator()

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.Tracing("llm-workspace-api"))
	engine.Use(middleware.Logger(logger))

	s := &Server{
		router:  engine,
		config:  cfg,
		logger:  logger,
		repo:    repo,
		cache:   cacheSvc,
		client:  client,
		catalog: cat,
		tokens:  tokens,
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
