package database

import (
	"log"

	"go-pos-engine/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedSampleData loads a demo chart of accounts, a few products and the
// default tax pair. It only runs on an empty database, so it is safe to
// leave SEED_SAMPLE_DATA=true during development.
func SeedSampleData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Account{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	accounts := []models.Account{
		{Code: "1-101", Name: "Cash", Type: "asset", Balance: decimal.NewFromInt(50000000)},
		{Code: "1-102", Name: "Bank", Type: "asset", Balance: decimal.NewFromInt(250000000)},
		{Code: "3-101", Name: "Sales Revenue", Type: "income", Balance: decimal.Zero},
		{Code: "4-101", Name: "Payroll Expense", Type: "expense", Balance: decimal.Zero},
	}

	products := []models.Product{
		{
			SKU: "LAP-001", Name: "Asus ROG Laptop", Category: "Electronics",
			CostPrice:    decimal.NewFromInt(28000000),
			SellingPrice: decimal.NewFromInt(35000000),
			CurrentStock: 15, MinStock: 5, IsActive: true,
		},
		{
			SKU: "MS-002", Name: "Logitech Wireless Mouse", Category: "Electronics",
			CostPrice:    decimal.NewFromInt(300000),
			SellingPrice: decimal.NewFromInt(450000),
			CurrentStock: 45, MinStock: 20, IsActive: true,
		},
		{
			SKU: "KB-003", Name: "Razer Mechanical Keyboard", Category: "Electronics",
			CostPrice:    decimal.NewFromInt(900000),
			SellingPrice: decimal.NewFromInt(1200000),
			CurrentStock: 25, MinStock: 10, IsActive: true,
		},
	}

	taxes := []models.TaxRate{
		{Name: "Value Added Tax", Rate: decimal.NewFromInt(9), IsActive: true},
		{Name: "Municipal Duty", Rate: decimal.NewFromInt(1), IsActive: true},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&accounts).Error; err != nil {
			return err
		}
		if err := tx.Create(&products).Error; err != nil {
			return err
		}
		if err := tx.Create(&taxes).Error; err != nil {
			return err
		}
		log.Println("✅ Sample data seeded")
		return nil
	})
}
