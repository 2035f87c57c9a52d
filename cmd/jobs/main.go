package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mehran-shabani/llm-workspace-api/internal/config"
	"github.com/mehran-shabani/llm-workspace-api/internal/platform/logger"
	"github.com/mehran-shabani/llm-workspace-api/internal/store"
	"github.com/mehran-shabani/llm-workspace-api/internal/store/sqlite"
)

// env groups the shared dependencies each subcommand needs.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	repo   store.Repository
}

// setup loads config, builds the logger and opens the database. The caller
// closes the repository.
func setup() (*env, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	zapLogger, err := logger.New(logger.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	repo, err := sqlite.NewSQLiteStorage(cfg.Database.DSN, zapLogger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &env{cfg: cfg, logger: zapLogger, repo: repo}, nil
}

func main() {
	root := &cobra.Command{
		Use:          "jobs",
		Short:        "Maintenance and administration commands for the workspace API",
		SilenceUsage: true,
	}

	root.AddCommand(
		newCleanupCommand(),
		newSyncCommand(),
		newScheduleCommand(),
		newSeedCommand(),
		newVersionCommand(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
