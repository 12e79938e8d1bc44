package models

import (
	"fmt"

	"github.com/rateyourbarber/trustengine/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&Shop{},
		&Barber{},
		&Review{},
		&Image{},
		&TrustScore{},
		&ProviderConfig{},
		&SchedulerLock{},
		&SystemLog{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedDefaultData creates default data if not exists
func SeedDefaultData() error {
	// The heuristic provider works without credentials, so a fresh install
	// can enrich reviews immediately.
	var providerCount int64
	DB.Model(&ProviderConfig{}).Count(&providerCount)
	if providerCount == 0 {
		defaultProvider := ProviderConfig{
			Name:        "Built-in Heuristics",
			Kind:        "heuristic",
			Model:       "rules-v1",
			MaxTokens:   1024,
			Temperature: 0.1,
			IsDefault:   true,
			IsActive:    true,
		}
		if err := DB.Create(&defaultProvider).Error; err != nil {
			return err
		}
	}

	return nil
}
