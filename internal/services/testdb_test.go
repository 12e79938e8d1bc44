package services

import (
	"testing"

	"github.com/rateyourbarber/trustengine/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory SQLite database and migrates the
// schema. One connection keeps every query on the same memory store.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Shop{},
		&models.Barber{},
		&models.Review{},
		&models.Image{},
		&models.TrustScore{},
		&models.ProviderConfig{},
		&models.SchedulerLock{},
		&models.SystemLog{},
	); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
