package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"housevalue/server/config"
	"housevalue/server/internal/database"
	"housevalue/server/internal/models"
)

func newTestProcessor(t *testing.T, batchSize, retries int) (*BatchProcessor, *database.Database) {
	t.Helper()

	db, err := database.NewDatabase("file:"+t.Name()+"?mode=memory&cache=shared", logrus.New())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	cfg := &config.Config{}
	cfg.BatchProcessing.MaxBatchSize = batchSize
	cfg.BatchProcessing.MaxRetries = retries
	cfg.BatchProcessing.RetryDelay = 0

	return NewBatchProcessor(db.GetDB(), cfg, logrus.New()), db
}

func makeListings(n int) []*models.Listing {
	listings := make([]*models.Listing, n)
	for i := range listings {
		price := 200000 + float64(i)
		listings[i] = &models.Listing{
			Location: "Suburb", Bedrooms: 3, Bathrooms: 2, Sqft: 1500, YearBuilt: 2000,
			LotSize: 0.3, Floors: 1, ConditionGrade: 5, ActualPrice: &price,
		}
	}
	return listings
}

func TestNewBatchProcessor(t *testing.T) {
	processor, db := newTestProcessor(t, 10, 3)

	assert.NotNil(t, processor)
	assert.Equal(t, db.GetDB(), processor.db)
	assert.Equal(t, 10, processor.config.BatchProcessing.MaxBatchSize)
	assert.NotNil(t, processor.upsert)
}

func TestBatchProcessor_Process(t *testing.T) {
	processor, db := newTestProcessor(t, 10, 0)

	var batchSizes []int
	processor.upsert = func(tx *gorm.DB, batch []*models.Listing) error {
		batchSizes = append(batchSizes, len(batch))
		return database.UpsertListings(tx, batch)
	}

	err := processor.Process(context.Background(), makeListings(25))
	require.NoError(t, err)
	assert.Equal(t, []int{10, 10, 5}, batchSizes)

	count, err := db.CountProperties(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(25), count)
}

func TestBatchProcessor_ProcessEmpty(t *testing.T) {
	processor, _ := newTestProcessor(t, 10, 0)

	calls := 0
	processor.upsert = func(tx *gorm.DB, batch []*models.Listing) error {
		calls++
		return nil
	}

	assert.NoError(t, processor.Process(context.Background(), nil))
	assert.Zero(t, calls)
}

func TestBatchProcessor_RetriesThenSucceeds(t *testing.T) {
	processor, db := newTestProcessor(t, 10, 3)

	attempts := 0
	processor.upsert = func(tx *gorm.DB, batch []*models.Listing) error {
		attempts++
		if attempts < 3 {
			return errors.New("database is locked")
		}
		return database.UpsertListings(tx, batch)
	}

	err := processor.Process(context.Background(), makeListings(5))
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)

	count, err := db.CountProperties(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestBatchProcessor_GivesUp(t *testing.T) {
	processor, db := newTestProcessor(t, 2, 2)

	attempts := 0
	processor.upsert = func(tx *gorm.DB, batch []*models.Listing) error {
		attempts++
		return errors.New("db error")
	}

	err := processor.Process(context.Background(), makeListings(6))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to process batch after 3 attempts")
	assert.Equal(t, 3, attempts, "stops at the first failing batch")

	count, err := db.CountProperties(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestBatchProcessor_RollsBackFailedBatch(t *testing.T) {
	processor, db := newTestProcessor(t, 10, 0)

	processor.upsert = func(tx *gorm.DB, batch []*models.Listing) error {
		if err := database.UpsertListings(tx, batch); err != nil {
			return err
		}
		return errors.New("fail after write")
	}

	err := processor.Process(context.Background(), makeListings(4))
	assert.Error(t, err)

	count, err := db.CountProperties(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count, "failed transaction must not leave rows behind")
}

func TestBatchProcessor_CancelledDuringRetry(t *testing.T) {
	processor, _ := newTestProcessor(t, 10, 3)
	processor.config.BatchProcessing.RetryDelay = 60

	ctx, cancel := context.WithCancel(context.Background())
	processor.upsert = func(tx *gorm.DB, batch []*models.Listing) error {
		cancel()
		return errors.New("db error")
	}

	err := processor.Process(ctx, makeListings(1))
	assert.ErrorIs(t, err, context.Canceled)
}
