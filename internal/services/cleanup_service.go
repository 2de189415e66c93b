package services

import (
	"context"
	"sync"
	"time"

	"filevault/internal/logger"
	"filevault/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CleanupService is the expiry sweep: a background goroutine that
// periodically removes expired records and their blobs. It has no
// caller to report to; every failure is logged and skipped per record.
type CleanupService struct {
	db       *gorm.DB
	files    *FileService
	interval time.Duration
	logger   *zap.Logger

	mu     sync.Mutex // guards against overlapping runs
	cancel context.CancelFunc
}

// CleanupResult summarizes one sweep run.
type CleanupResult struct {
	Deleted int
	Errors  int
}

// NewCleanupService creates the sweep with the given interval.
func NewCleanupService(db *gorm.DB, files *FileService, interval time.Duration) *CleanupService {
	return &CleanupService{
		db:       db,
		files:    files,
		interval: interval,
		logger:   logger.L.With(zap.String("component", "cleanup")),
	}
}

// Start launches the background sweep goroutine. The first run happens
// immediately, then once per interval until the context is cancelled.
func (c *CleanupService) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	go c.run(runCtx)

	c.logger.Info("cleanup started", zap.Duration("interval", c.interval))
}

// Stop cancels the background sweep goroutine.
func (c *CleanupService) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.logger.Info("cleanup stopped")
}

func (c *CleanupService) run(ctx context.Context) {
	c.RunOnce()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.RunOnce()
		}
	}
}

// RunOnce performs one sweep: every record whose expiry instant has
// passed (inclusive) loses its blob, then its metadata record. One
// record's failure never aborts the rest of the batch.
func (c *CleanupService) RunOnce() *CleanupResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := &CleanupResult{}
	now := time.Now()

	var expired []models.File
	if err := c.db.Where("expires_at <= ?", now).Find(&expired).Error; err != nil {
		c.logger.Error("failed to scan for expired files", zap.Error(err))
		result.Errors++
		return result
	}

	for _, file := range expired {
		if err := c.files.DeleteFile(file.StoredName); err != nil {
			c.logger.Error("failed to delete blob",
				zap.String("id", file.ID.String()),
				zap.String("storedName", file.StoredName),
				zap.Error(err))
			result.Errors++
			// The record is removed regardless so the link dies; the
			// blob may be orphaned.
		}

		if err := c.db.Delete(&models.File{}, "id = ?", file.ID).Error; err != nil {
			c.logger.Error("failed to delete record",
				zap.String("id", file.ID.String()),
				zap.Error(err))
			result.Errors++
			continue
		}
		result.Deleted++
	}

	if result.Deleted > 0 || result.Errors > 0 {
		c.logger.Info("cleanup finished",
			zap.Int("deleted", result.Deleted),
			zap.Int("errors", result.Errors))
	}
	return result
}
