package database

import (
	"fmt"
	"log"
	"time"

	"go-pos-engine/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the MySQL database and syncs the schema. The DSN comes from
// the environment so the binary stays portable between shops.
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DB_DSN not set; configure your database in .env")
	}

	var db *gorm.DB
	var err error

	// Wait for the DB container to come up
	for i := 0; i < 5; i++ {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Warn),
			TranslateError: true,
		})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect after 5 attempts: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("✅ Database connected and schema synced")
	return db, nil
}

// Migrate creates or updates every table the engine owns. Tests call it
// directly against an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Product{},
		&models.TaxRate{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.LedgerEntry{},
	)
}
