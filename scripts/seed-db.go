// Standalone helper that wipes and reseeds a development database:
//
//	go run scripts/seed-db.go
package main

import (
	"log"

	"order_manager/internal/config"
	"order_manager/internal/database"
	"order_manager/internal/migrations"
	"order_manager/internal/models"
)

func main() {
	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Println("Dropping existing tables...")
	err = db.Migrator().DropTable(
		&models.OrderHistoryEntry{},
		&models.AdicionalSelection{},
		&models.ComplementSelection{},
		&models.OrderLine{},
		&models.Order{},
		&models.OrderCounter{},
		&models.ComplementOption{},
		&models.ComplementLink{},
		&models.Adicional{},
		&models.Complement{},
		&models.Combo{},
		&models.Recipe{},
		&models.Product{},
		&models.PaymentMethod{},
		&models.User{},
		&models.Empresa{},
	)
	if err != nil {
		log.Printf("Warning: Error dropping tables: %v", err)
	}

	// database.Initialize already automigrated against the dropped tables;
	// reconnect to recreate them.
	db, err = database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to reconnect to database:", err)
	}
	if err := migrations.RunMigrations(db); err != nil {
		log.Fatal("Failed to seed database:", err)
	}
	log.Println("Database reseeded")
}
