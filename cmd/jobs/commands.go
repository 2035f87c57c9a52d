package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mehran-shabani/llm-workspace-api/internal/jobs"
)

func newCleanupCommand() *cobra.Command {
	var batchSize int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "cleanup-orphans",
		Short: "Delete uploaded files that no document references",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.repo.Close()

			cleanup := jobs.NewCleanup(e.repo, e.cfg.Storage.UploadsDir, e.logger)
			result, err := cleanup.Run(cmd.Context(), jobs.CleanupOptions{
				BatchSize: batchSize,
				DryRun:    dryRun,
			})
			if err != nil {
				return err
			}

			fmt.Printf("scanned=%d deleted=%d failed=%d dry_run=%v\n",
				result.Scanned, result.Deleted, result.Failed, result.DryRun)
			return nil
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", 500, "maximum deletions per run (0 for unlimited)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report orphans without deleting them")
	return cmd
}

func newSyncCommand() *cobra.Command {
	var maxDocuments int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync-watched",
		Short: "Refresh watched documents whose sync window has lapsed",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.repo.Close()

			sync := jobs.NewSync(e.repo, e.logger)
			result, err := sync.Run(cmd.Context(), jobs.SyncOptions{
				MaxDocuments: maxDocuments,
				DryRun:       dryRun,
			})
			if err != nil {
				return err
			}

			fmt.Printf("checked=%d changed=%d failed=%d unwatched=%d\n",
				result.Checked, result.Changed, result.Failed, result.Unwatched)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxDocuments, "max-documents", 0, "maximum stale documents to examine (0 for all)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "check hashes without writing anything")
	return cmd
}

func newScheduleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the job scheduler in the foreground until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.repo.Close()

			scheduler := jobs.NewScheduler(
				jobs.NewCleanup(e.repo, e.cfg.Storage.UploadsDir, e.logger),
				jobs.NewSync(e.repo, e.logger),
				e.cfg.Jobs.CleanupSchedule,
				e.cfg.Jobs.CleanupBatchSize,
				e.cfg.Jobs.SyncInterval,
				e.logger,
			)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if err := scheduler.Start(ctx); err != nil {
				return err
			}

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			scheduler.Stop()
			return nil
		},
	}
}
