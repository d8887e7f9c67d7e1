package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"artmarket.backoffice/internal/domain/entities"
	"artmarket.backoffice/pkg/logger"
)

// PendingSyncer reconciles a batch of pending collections
type PendingSyncer interface {
	SyncPendingCollections(ctx context.Context, limit int) ([]*entities.SyncCollectionResult, error)
}

// CollectionSyncJob periodically reconciles pending collections with their deployment receipts
type CollectionSyncJob struct {
	syncer    PendingSyncer
	interval  time.Duration
	batchSize int
	stop      chan struct{}
	stopOnce  sync.Once
}

func NewCollectionSyncJob(syncer PendingSyncer, interval time.Duration, batchSize int) *CollectionSyncJob {
	return &CollectionSyncJob{
		syncer:    syncer,
		interval:  interval,
		batchSize: batchSize,
		stop:      make(chan struct{}),
	}
}

func (j *CollectionSyncJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting collection sync job", zap.Duration("interval", j.interval), zap.Int("batch_size", j.batchSize))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Collection sync job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Collection sync job stopped")
			return
		case <-ticker.C:
			j.processPending(ctx)
		}
	}
}

// Stop ends Start. It is safe to call more than once.
func (j *CollectionSyncJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

func (j *CollectionSyncJob) processPending(ctx context.Context) {
	runCtx := logger.WithCorrelationID(ctx, uuid.NewString())

	results, err := j.syncer.SyncPendingCollections(runCtx, j.batchSize)
	if err != nil {
		logger.Error(runCtx, "Error syncing pending collections", zap.Error(err))
		return
	}

	if len(results) == 0 {
		return
	}

	updated := 0
	for _, r := range results {
		if r.Updated {
			updated++
		}
	}

	logger.Info(runCtx, "Pending collections synced", zap.Int("total", len(results)), zap.Int("updated", updated))
}
