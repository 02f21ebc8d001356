package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"housevalue/server/config"
	"housevalue/server/internal/database"
	"housevalue/server/internal/models"
)

// UpsertFunc writes one batch inside a transaction
type UpsertFunc func(tx *gorm.DB, batch []*models.Listing) error

// BatchProcessor writes listings in fixed-size transactional batches
type BatchProcessor struct {
	db     *gorm.DB
	logger *logrus.Logger
	config *config.Config
	upsert UpsertFunc
}

// NewBatchProcessor creates a new batch processor instance
func NewBatchProcessor(db *gorm.DB, config *config.Config, logger *logrus.Logger) *BatchProcessor {
	return &BatchProcessor{
		db:     db,
		config: config,
		logger: logger,
		upsert: database.UpsertListings,
	}
}

// Process splits listings into batches and writes them in order.
// It stops at the first batch that still fails after all retries.
func (p *BatchProcessor) Process(ctx context.Context, listings []*models.Listing) error {
	size := p.config.BatchProcessing.MaxBatchSize
	if size <= 0 {
		size = len(listings)
	}

	for start := 0; start < len(listings); start += size {
		end := min(start+size, len(listings))
		if err := p.processBatch(ctx, listings[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// processBatch handles a single batch of listings with transaction and retry logic
func (p *BatchProcessor) processBatch(ctx context.Context, batch []*models.Listing) error {
	var err error
	for attempt := 0; attempt <= p.config.BatchProcessing.MaxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying batch processing, attempt %d of %d", attempt, p.config.BatchProcessing.MaxRetries)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(p.config.BatchProcessing.RetryDelay) * time.Second):
			}
		}

		err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := p.upsert(tx, batch); err != nil {
				return fmt.Errorf("failed to upsert listings batch: %w", err)
			}
			return nil
		})

		if err == nil {
			p.logger.WithField("batch_size", len(batch)).Debug("Processed listings batch")
			return nil
		}

		p.logger.Errorf("Batch processing failed: %v", err)
	}

	return fmt.Errorf("failed to process batch after %d attempts: %w", p.config.BatchProcessing.MaxRetries+1, err)
}
