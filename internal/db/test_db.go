package db

import (
	"fmt"
	"log"

	"github.com/ikkim/bizreview-backend/internal/app/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testModels mirrors the tables created by the goose migrations.
var testModels = []interface{}{
	&model.BusinessRegistration{},
	&model.BusinessReviewEvent{},
	&model.Business{},
	&model.BusinessLocation{},
	&model.BusinessPromotion{},
	&model.BusinessPromotionLocation{},
	&model.LocationAdmin{},
	&model.BusinessCompany{},
	&model.BusinessUnit{},
}

// partial indexes that AutoMigrate cannot express
var testIndexes = []string{
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_business_locations_one_primary ON business_locations (registration_id) WHERE is_primary",
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_business_units_one_primary ON business_units (company_id) WHERE is_primary",
}

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	// every new connection would see its own empty :memory: database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get test database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(testModels...); err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	for _, stmt := range testIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return nil, fmt.Errorf("failed to create test index: %w", err)
		}
	}

	return db, nil
}

// CleanupTestDB cleans up the test database
func CleanupTestDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}

// TruncateAllTables removes all data from tables
func TruncateAllTables(db *gorm.DB) error {
	tables := []string{
		"business_promotion_locations",
		"business_promotions",
		"location_admins",
		"business_locations",
		"business_units",
		"business_companies",
		"business_review_events",
		"businesses",
		"business_registration_requests",
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return err
		}
	}
	return nil
}
