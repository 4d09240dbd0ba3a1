package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"order_manager/internal/models"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	// Configure GORM
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(databaseURL), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto migrate all models
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Println("Database connected and migrated successfully")
	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Empresa{},
		&models.User{},
		&models.PaymentMethod{},
		&models.Product{},
		&models.Recipe{},
		&models.Combo{},
		&models.Complement{},
		&models.Adicional{},
		&models.ComplementLink{},
		&models.ComplementOption{},
		&models.Order{},
		&models.OrderLine{},
		&models.ComplementSelection{},
		&models.AdicionalSelection{},
		&models.OrderHistoryEntry{},
		&models.OrderCounter{},
	)
}
