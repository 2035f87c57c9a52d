package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mehran-shabani/llm-workspace-api/internal/auth"
	"github.com/mehran-shabani/llm-workspace-api/internal/catalog"
	"github.com/mehran-shabani/llm-workspace-api/internal/config"
	"github.com/mehran-shabani/llm-workspace-api/internal/jobs"
	"github.com/mehran-shabani/llm-workspace-api/internal/openai"
	"github.com/mehran-shabani/llm-workspace-api/internal/platform/logger"
	"github.com/mehran-shabani/llm-workspace-api/internal/platform/otel"
	"github.com/mehran-shabani/llm-workspace-api/internal/server"
	"github.com/mehran-shabani/llm-workspace-api/internal/store/cache"
	memorycache "github.com/mehran-shabani/llm-workspace-api/internal/store/cache/memory"
	rediscache "github.com/mehran-shabani/llm-workspace-api/internal/store/cache/redis"
	"github.com/mehran-shabani/llm-workspace-api/internal/store/sqlite"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.New(logger.DefaultConfig())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	shutdownTracer, err := otel.InitTracer("llm-workspace-api", zapLogger, os.Stdout)
	if err != nil {
		zapLogger.Fatal("failed to initialize tracing", zap.Error(err))
	}

	repo, err := sqlite.NewSQLiteStorage(cfg.Database.DSN, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to open database", zap.Error(err))
	}
	defer repo.Close()

	var cacheSvc cache.CacheService
	if cfg.Redis.Enabled {
		cacheSvc, err = rediscache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			zapLogger.Fatal("failed to connect to redis", zap.Error(err))
		}
		zapLogger.Info("using redis cache", zap.String("addr", cfg.Redis.Addr))
	} else {
		cacheSvc = memorycache.NewMemoryCache()
		zapLogger.Info("using in-memory cache")
	}

	cat := catalog.Load(cfg.Catalog.Path, zapLogger)

	client := openai.NewClient(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Timeout)

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		zapLogger.Fatal("failed to configure auth", zap.Error(err))
	}

	srv := server.New(cfg, zapLogger, repo, cacheSvc, client, cat, tokens)

	// background jobs run inside the server process
	scheduler := jobs.NewScheduler(
		jobs.NewCleanup(repo, cfg.Storage.UploadsDir, zapLogger),
		jobs.NewSync(repo, zapLogger),
		cfg.Jobs.CleanupSchedule,
		cfg.Jobs.CleanupBatchSize,
		cfg.Jobs.SyncInterval,
		zapLogger,
	)
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()
	if err := scheduler.Start(jobCtx); err != nil {
		zapLogger.Fatal("failed to start job scheduler", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: srv.Handler(),
	}

	go func() {
		zapLogger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down")

	scheduler.Stop()
	cancelJobs()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		zapLogger.Error("forced shutdown", zap.Error(err))
	}
	if err := shutdownTracer(ctx); err != nil {
		zapLogger.Error("tracer shutdown failed", zap.Error(err))
	}
}
