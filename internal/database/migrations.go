package database

import (
	"fmt"

	"housevalue/server/internal/models"
)

func (d *Database) RunMigrations() error {
	if err := d.db.AutoMigrate(&models.Listing{}); err != nil {
		return fmt.Errorf("migrate properties: %w", err)
	}

	// Analytics groups by these columns
	err := d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_properties_bedrooms_year
		ON properties(bedrooms, year_built);
	`).Error
	if err != nil {
		return fmt.Errorf("create analytics index: %w", err)
	}

	return nil
}
