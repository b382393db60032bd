package main

import (
	"errors"
	"log"
	"os"
	"time"

	"go-pos-engine/internal/catalog"
	"go-pos-engine/internal/database"
	"go-pos-engine/internal/handlers"
	"go-pos-engine/internal/ledger"
	"go-pos-engine/internal/middleware"
	"go-pos-engine/internal/models"
	"go-pos-engine/internal/pos"
	"go-pos-engine/internal/tax"
	"go-pos-engine/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	db, err := database.Connect(os.Getenv("DB_DSN"))
	if err != nil {
		log.Fatal("❌ Database setup failed: ", err)
	}

	if os.Getenv("SEED_SAMPLE_DATA") == "true" {
		if err := database.SeedSampleData(db); err != nil {
			log.Fatal("❌ Seeding failed: ", err)
		}
	}

	revenueAccount, err := resolveRevenueAccount(db)
	if err != nil {
		log.Fatal("❌ Revenue account setup failed: ", err)
	}

	terminal := utils.TerminalID()
	log.Println("🧾 Terminal ID: " + terminal)

	catalogStore := catalog.NewStore(db)
	schedule := tax.NewSchedule(db)
	ledgerStore := ledger.NewStore(db)
	committer := pos.NewCommitter(db, catalogStore, schedule, ledgerStore, revenueAccount.ID)
	sessions := pos.NewManager(catalogStore, schedule, terminal)

	// Abandoned carts have no side effects, just memory. Sweep them.
	go func() {
		for range time.Tick(10 * time.Minute) {
			if n := sessions.PurgeIdle(30 * time.Minute); n > 0 {
				log.Printf("Purged %d idle sale sessions", n)
			}
		}
	}()

	authHandler := handlers.NewAuthHandler(db)
	productHandler := handlers.NewProductHandler(catalogStore)
	saleHandler := handlers.NewSaleHandler(sessions, committer)
	taxHandler := handlers.NewTaxHandler(schedule)
	reportHandler := handlers.NewReportHandler(db, catalogStore)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "online", "terminal": terminal})
	})
	r.POST("/login", authHandler.Login)

	if os.Getenv("ALLOW_REGISTRATION") == "true" {
		r.POST("/register", authHandler.Register)
		log.Println("⚠️ WARNING: Registration route is OPEN. Disable this in production!")
	} else {
		log.Println("🔒 Registration route is safely DISABLED.")
	}

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// CASHIER & ADMIN
		api.GET("/products", productHandler.GetProducts)
		api.GET("/products/scan/:sku", productHandler.ScanProduct)

		api.POST("/sessions", saleHandler.OpenSession)
		api.DELETE("/sessions/:token", saleHandler.CloseSession)
		api.GET("/sessions/:token/cart", saleHandler.GetCart)
		api.POST("/sessions/:token/lines", saleHandler.AddLine)
		api.DELETE("/sessions/:token/lines/:productId", saleHandler.RemoveLine)
		api.DELETE("/sessions/:token/cart", saleHandler.ClearCart)
		api.POST("/sessions/:token/checkout", saleHandler.Checkout)

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/products", productHandler.AddProduct)
			admin.PUT("/products/:id", productHandler.UpdateProduct)
			admin.DELETE("/products/:id", productHandler.DeleteProduct)
			admin.POST("/products/:id/restock", productHandler.RestockProduct)

			admin.GET("/taxes", taxHandler.GetRates)
			admin.POST("/taxes", taxHandler.UpsertRate)
			admin.DELETE("/taxes/:name", taxHandler.DeactivateRate)

			admin.GET("/reports", reportHandler.GetSalesReport)
			admin.GET("/reports/low-stock", reportHandler.GetLowStock)
		}
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	log.Println("🚀 Server starting on " + baseURL)
	if err := r.Run(":8080"); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}

// resolveRevenueAccount finds the account every sale posts income to,
// creating it on first boot.
func resolveRevenueAccount(db *gorm.DB) (*models.Account, error) {
	code := os.Getenv("REVENUE_ACCOUNT_CODE")
	if code == "" {
		code = "3-101"
	}

	var account models.Account
	err := db.Where("code = ?", code).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		account = models.Account{
			Code:     code,
			Name:     "Sales Revenue",
			Type:     "income",
			Balance:  decimal.Zero,
			IsActive: true,
		}
		err = db.Create(&account).Error
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}
