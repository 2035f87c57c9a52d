package jobs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"

	"go.uber.org/zap"

	"github.com/mehran-shabani/llm-workspace-api/internal/store"
	"github.com/mehran-shabani/llm-workspace-api/internal/store/model"
)

// SyncResult summarizes one watched-document sync sweep.
type SyncResult struct {
	Checked   int
	Changed   int
	Failed    int
	Unwatched int
}

// SyncOptions tune a sweep. MaxDocuments caps how many stale queue entries
// are examined; zero means all. DryRun checks content hashes but writes
// nothing back.
type SyncOptions struct {
	MaxDocuments int
	DryRun       bool
}

// Sync refreshes watched documents whose refresh window has lapsed. Each
// stale queue entry's backing file is re-hashed; an unchanged hash just
// reschedules the next check, a changed one records a sync. A document whose
// file keeps failing to read is unwatched after MaxSyncFailures attempts.
type Sync struct {
	repo   store.Repository
	logger *zap.Logger
}

func NewSync(repo store.Repository, logger *zap.Logger) *Sync {
	return &Sync{repo: repo, logger: logger}
}

func (s *Sync) Run(ctx context.Context, opts SyncOptions) (*SyncResult, error) {
	limit := opts.MaxDocuments
	if limit <= 0 {
		limit = -1
	}

	stale, err := s.repo.SyncQueue().Stale(ctx, limit)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{}
	for _, queue := range stale {
		result.Checked++
		if err := s.syncOne(ctx, queue, opts.DryRun, result); err != nil {
			s.logger.Warn("document sync attempt errored",
				zap.Int64("queue_id", queue.ID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("watched document sync finished",
		zap.Int("checked", result.Checked),
		zap.Int("changed", result.Changed),
		zap.Int("failed", result.Failed),
		zap.Int("unwatched", result.Unwatched),
		zap.Bool("dry_run", opts.DryRun),
	)
	return result, nil
}

func (s *Sync) syncOne(ctx context.Context, queue model.DocumentSyncQueue, dryRun bool, result *SyncResult) error {
	doc, err := s.repo.Documents().Get(ctx, queue.DocumentID)
	if err != nil {
		// the document row is gone; the watch has nothing left to track
		result.Unwatched++
		if dryRun {
			return nil
		}
		return s.repo.SyncQueue().Unwatch(ctx, queue.ID)
	}

	hash, err := hashFile(doc.Docpath)
	if err != nil {
		result.Failed++
		if dryRun {
			return nil
		}
		return s.recordFailure(ctx, queue, err.Error(), result)
	}

	if hash == queue.ContentHash {
		if dryRun {
			return nil
		}
		// unchanged; just push next_sync_at forward
		if err := s.repo.SyncQueue().MarkSynced(ctx, queue.ID, hash); err != nil {
			return err
		}
		return s.repo.SyncQueue().RecordRun(ctx, &model.DocumentSyncRun{
			QueueID: queue.ID,
			Status:  model.SyncRunSuccess,
			Reason:  "content unchanged",
		})
	}

	result.Changed++
	s.logger.Info("watched document changed",
		zap.String("filename", doc.Filename),
		zap.Int64("queue_id", queue.ID),
	)
	if dryRun {
		return nil
	}

	if err := s.repo.SyncQueue().MarkSynced(ctx, queue.ID, hash); err != nil {
		return err
	}
	return s.repo.SyncQueue().RecordRun(ctx, &model.DocumentSyncRun{
		QueueID: queue.ID,
		Status:  model.SyncRunSuccess,
		Reason:  "content refreshed",
	})
}

func (s *Sync) recordFailure(ctx context.Context, queue model.DocumentSyncQueue, reason string, result *SyncResult) error {
	failures, err := s.repo.SyncQueue().MarkFailed(ctx, queue.ID)
	if err != nil {
		return err
	}

	if err := s.repo.SyncQueue().RecordRun(ctx, &model.DocumentSyncRun{
		QueueID: queue.ID,
		Status:  model.SyncRunFailed,
		Reason:  reason,
	}); err != nil {
		return err
	}

	if failures >= model.MaxSyncFailures {
		s.logger.Warn("unwatching document after repeated sync failures",
			zap.Int64("queue_id", queue.ID),
			zap.Int("failures", failures),
		)
		result.Unwatched++
		if err := s.repo.SyncQueue().RecordRun(ctx, &model.DocumentSyncRun{
			QueueID: queue.ID,
			Status:  model.SyncRunExited,
			Reason:  "failure limit reached",
		}); err != nil {
			return err
		}
		return s.repo.SyncQueue().Unwatch(ctx, queue.ID)
	}
	return nil
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
