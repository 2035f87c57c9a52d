package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler drives the background jobs on their configured cadences: orphan
// cleanup on a cron expression, watched-document sync on a fixed interval.
type Scheduler struct {
	cron    *cron.Cron
	cleanup *Cleanup
	sync    *Sync
	logger  *zap.Logger

	cleanupSchedule  string
	cleanupBatchSize int
	syncInterval     time.Duration
}

func NewScheduler(
	cleanup *Cleanup,
	sync *Sync,
	cleanupSchedule string,
	cleanupBatchSize int,
	syncInterval time.Duration,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		cron:             cron.New(),
		cleanup:          cleanup,
		sync:             sync,
		logger:           logger,
		cleanupSchedule:  cleanupSchedule,
		cleanupBatchSize: cleanupBatchSize,
		syncInterval:     syncInterval,
	}
}

// Start registers and launches the jobs. The returned error covers bad cron
// expressions only; job failures are logged and retried on the next tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cleanupSchedule, func() {
		if _, err := s.cleanup.Run(ctx, CleanupOptions{BatchSize: s.cleanupBatchSize}); err != nil {
			s.logger.Error("scheduled orphan cleanup failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", s.cleanupSchedule, err)
	}

	_, err = s.cron.AddFunc(fmt.Sprintf("@every %s", s.syncInterval), func() {
		if _, err := s.sync.Run(ctx, SyncOptions{}); err != nil {
			s.logger.Error("scheduled document sync failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sync interval %q: %w", s.syncInterval, err)
	}

	s.cron.Start()
	s.logger.Info("job scheduler started",
		zap.String("cleanup_schedule", s.cleanupSchedule),
		zap.Duration("sync_interval", s.syncInterval),
	)
	return nil
}

// Stop halts scheduling and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
