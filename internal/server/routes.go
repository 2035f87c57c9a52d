package server

import (
	"github.com/mehran-shabani/llm-workspace-api/internal/server/middleware"
	v1 "github.com/mehran-shabani/llm-workspace-api/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.ErrorHandler(s.logger))

	// public surface
	healthHandler := v1.NewHealthHandler(Version)
	s.router.GET("/health", healthHandler.Health)

	authHandler := v1.NewAuthHandler(s.tokens, s.repo)
	s.router.POST("/auth/login", authHandler.Login)

	schemaHandler := v1.NewSchemaHandler(Version, s.catalog)
	s.router.GET("/api/schema", schemaHandler.Schema)

	// everything under /v1 requires credentials
	limiter := middleware.NewRateLimiter(s.config.RateLimit.RequestsPerSecond, s.config.RateLimit.Burst)

	api := s.router.Group("/v1")
	api.Use(middleware.Auth(s.tokens, s.repo, s.logger))
	api.Use(limiter.Middleware())
	{
		api.GET("/auth", authHandler.Verify)

		llmHandler := v1.NewLLMHandler(s.client, s.catalog)
		api.POST("/llm/generate", llmHandler.Generate)
		api.POST("/llm/instruct", llmHandler.Instruct)

		embeddingHandler := v1.NewEmbeddingHandler(s.client, s.catalog, s.cache, s.logger)
		api.POST("/embeddings", embeddingHandler.Create)

		imageHandler := v1.NewImageHandler(s.client, s.catalog)
		api.POST("/images/generate", imageHandler.Generate)

		audioHandler := v1.NewAudioHandler(s.client, s.catalog)
		api.POST("/audio/speech", audioHandler.Speech)
		api.POST("/audio/transcriptions", audioHandler.Transcribe)

		modelHandler := v1.NewModelHandler(s.catalog)
		api.GET("/models", modelHandler.List)
		api.GET("/models/:category", modelHandler.ListCategory)

		workspaceHandler := v1.NewWorkspaceHandler(s.repo, s.client, s.catalog, s.logger)
		api.POST("/workspace/new", workspaceHandler.Create)
		api.GET("/workspaces", workspaceHandler.List)
		api.GET("/workspace/:slug", workspaceHandler.Get)
		api.DELETE("/workspace/:slug", workspaceHandler.Delete)
		api.POST("/workspace/:slug/update", workspaceHandler.Update)
		api.GET("/workspace/:slug/chats", workspaceHandler.Chats)
		api.POST("/workspace/:slug/chat", workspaceHandler.Chat)
	}
}
