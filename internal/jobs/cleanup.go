package jobs

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mehran-shabani/llm-workspace-api/internal/store"
)

// CleanupResult summarizes one orphan-cleanup run.
type CleanupResult struct {
	Scanned int
	Deleted int
	Failed  int
	DryRun  bool
}

// CleanupOptions tune a run. A zero BatchSize means no cap on deletions per
// run; DryRun reports what would be deleted without touching the filesystem.
type CleanupOptions struct {
	BatchSize int
	DryRun    bool
}

// Cleanup removes files from the uploads directory that no document row
// references anymore. Uploads become orphans when a workspace is deleted or a
// document upload is abandoned midway.
type Cleanup struct {
	repo       store.Repository
	uploadsDir string
	logger     *zap.Logger
}

func NewCleanup(repo store.Repository, uploadsDir string, logger *zap.Logger) *Cleanup {
	return &Cleanup{repo: repo, uploadsDir: uploadsDir, logger: logger}
}

// Run walks the uploads directory once and deletes unreferenced files. A
// missing uploads directory is not an error; there is simply nothing to clean.
func (c *Cleanup) Run(ctx context.Context, opts CleanupOptions) (*CleanupResult, error) {
	entries, err := os.ReadDir(c.uploadsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return &CleanupResult{DryRun: opts.DryRun}, nil
		}
		return nil, err
	}

	filenames, err := c.repo.Documents().ListFilenames(ctx)
	if err != nil {
		return nil, err
	}
	referenced := make(map[string]struct{}, len(filenames))
	for _, name := range filenames {
		referenced[name] = struct{}{}
	}

	result := &CleanupResult{DryRun: opts.DryRun}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		result.Scanned++

		if _, ok := referenced[entry.Name()]; ok {
			continue
		}
		if opts.BatchSize > 0 && result.Deleted+result.Failed >= opts.BatchSize {
			break
		}

		path := filepath.Join(c.uploadsDir, entry.Name())
		if opts.DryRun {
			c.logger.Info("would delete orphaned upload", zap.String("file", entry.Name()))
			result.Deleted++
			continue
		}

		if err := os.Remove(path); err != nil {
			// a single stubborn file shouldn't abort the whole sweep
			c.logger.Warn("failed to delete orphaned upload",
				zap.String("file", entry.Name()),
				zap.Error(err),
			)
			result.Failed++
			continue
		}

		c.logger.Info("deleted orphaned upload", zap.String("file", entry.Name()))
		result.Deleted++
	}

	c.logger.Info("orphan cleanup finished",
		zap.Int("scanned", result.Scanned),
		zap.Int("deleted", result.Deleted),
		zap.Int("failed", result.Failed),
		zap.Bool("dry_run", result.DryRun),
	)
	return result, nil
}
