package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"housevalue/server/internal/models"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// priceBucketExpr groups prices into the ranges the analytics chart shows
const priceBucketExpr = `CASE
	WHEN actual_price < 200000 THEN 'Under 200k'
	WHEN actual_price < 500000 THEN '200k-500k'
	WHEN actual_price < 1000000 THEN '500k-1M'
	ELSE '1M+' END`

type Database struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewDatabase(dsn string, log *logrus.Logger) (*Database, error) {
	if log == nil {
		log = logrus.New()
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql handle: %w", err)
	}
	// SQLite serializes writers; one connection also keeps a shared
	// in-memory database alive for the life of the process.
	sqlDB.SetMaxOpenConns(1)

	return &Database{db: db, logger: log}, nil
}

func (d *Database) GetDB() *gorm.DB {
	return d.db
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CountProperties returns the number of listings in the dataset
func (d *Database) CountProperties(ctx context.Context) (int64, error) {
	var total int64
	if err := d.db.WithContext(ctx).Model(&models.Listing{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count properties: %w", err)
	}
	return total, nil
}

// GetProperties returns one page of listings, newest id first
func (d *Database) GetProperties(ctx context.Context, filter models.ListingFilter, page, perPage int) (models.ListingPage, error) {
	page, perPage = NormalizePage(page, perPage)

	query := applyFilter(d.db.WithContext(ctx).Model(&models.Listing{}), filter).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return models.ListingPage{}, fmt.Errorf("count properties: %w", err)
	}

	listings := make([]models.Listing, 0, perPage)
	err := query.
		Order("id DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&listings).Error
	if err != nil {
		return models.ListingPage{}, fmt.Errorf("get properties: %w", err)
	}

	return models.ListingPage{
		Data:       listings,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: TotalPages(total, perPage),
	}, nil
}

func (d *Database) GetDashboardStats(ctx context.Context) (models.DashboardStats, error) {
	db := d.db.WithContext(ctx)
	stats := models.DashboardStats{ByLocation: []models.LocationStats{}}

	if err := db.Model(&models.Listing{}).Count(&stats.TotalProperties).Error; err != nil {
		return stats, fmt.Errorf("count properties: %w", err)
	}

	var avg struct{ AvgPrice float64 }
	err := db.Model(&models.Listing{}).
		Select("COALESCE(ROUND(AVG(actual_price), 2), 0) AS avg_price").
		Where("actual_price IS NOT NULL").
		Scan(&avg).Error
	if err != nil {
		return stats, fmt.Errorf("average price: %w", err)
	}
	stats.AvgPrice = avg.AvgPrice

	err = db.Model(&models.Listing{}).
		Select("location, COUNT(*) AS count, COALESCE(ROUND(AVG(actual_price), 2), 0) AS avg_price").
		Group("location").
		Order("location").
		Scan(&stats.ByLocation).Error
	if err != nil {
		return stats, fmt.Errorf("stats by location: %w", err)
	}

	return stats, nil
}

func (d *Database) GetAnalytics(ctx context.Context) (models.Analytics, error) {
	db := d.db.WithContext(ctx)
	analytics := models.Analytics{
		ByBedrooms:        []models.BedroomStats{},
		ByYear:            []models.YearStats{},
		PriceDistribution: []models.PriceBucket{},
	}
	priced := db.Model(&models.Listing{}).Where("actual_price IS NOT NULL").Session(&gorm.Session{})

	err := priced.
		Select("bedrooms, ROUND(AVG(actual_price), 2) AS avg_price").
		Group("bedrooms").
		Order("bedrooms").
		Scan(&analytics.ByBedrooms).Error
	if err != nil {
		return analytics, fmt.Errorf("analytics by bedrooms: %w", err)
	}

	err = priced.
		Select("year_built, ROUND(AVG(actual_price), 2) AS avg_price").
		Group("year_built").
		Order("year_built").
		Scan(&analytics.ByYear).Error
	if err != nil {
		return analytics, fmt.Errorf("analytics by year: %w", err)
	}

	err = priced.
		Select(priceBucketExpr + " AS bucket, COUNT(*) AS count").
		Group("bucket").
		Order("MIN(actual_price)").
		Scan(&analytics.PriceDistribution).Error
	if err != nil {
		return analytics, fmt.Errorf("price distribution: %w", err)
	}

	return analytics, nil
}

// GetLocations returns the distinct locations present in the dataset
func (d *Database) GetLocations(ctx context.Context) ([]string, error) {
	locations := []string{}
	err := d.db.WithContext(ctx).Model(&models.Listing{}).
		Distinct("location").
		Order("location").
		Pluck("location", &locations).Error
	if err != nil {
		return nil, fmt.Errorf("get locations: %w", err)
	}
	return locations, nil
}

// UpsertListings inserts listings or overwrites rows with the same id
func UpsertListings(tx *gorm.DB, listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&listings).Error
}

func applyFilter(query *gorm.DB, filter models.ListingFilter) *gorm.DB {
	if loc := strings.TrimSpace(filter.Location); loc != "" {
		query = query.Where("LOWER(location) = LOWER(?)", loc)
	}
	if filter.MinPrice != nil {
		query = query.Where("actual_price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("actual_price <= ?", *filter.MaxPrice)
	}
	if filter.MinBedrooms != nil {
		query = query.Where("bedrooms >= ?", *filter.MinBedrooms)
	}
	if filter.MaxBedrooms != nil {
		query = query.Where("bedrooms <= ?", *filter.MaxBedrooms)
	}
	return query
}

// NormalizePage clamps pagination parameters to usable values
func NormalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

func TotalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
