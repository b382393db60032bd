package handlers

import (
	"net/http"

	"go-pos-engine/internal/catalog"
	"go-pos-engine/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportHandler serves the admin dashboard. It reads the invoice tables
// directly; the ledger itself stays write-only.
type ReportHandler struct {
	db    *gorm.DB
	store *catalog.Store
}

func NewReportHandler(db *gorm.DB, store *catalog.Store) *ReportHandler {
	return &ReportHandler{db: db, store: store}
}

type ReportData struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalOrders  int64           `json:"total_orders"`
	TopSelling   []struct {
		ProductName string          `json:"product_name"`
		Sold        int             `json:"sold"`
		Revenue     decimal.Decimal `json:"revenue"`
	} `json:"top_selling"`
	RecentInvoices []models.Invoice `json:"recent_invoices"`
}

// GetSalesReport aggregates all-time revenue, order count, top sellers
// and the latest invoices.
func (h *ReportHandler) GetSalesReport(c *gin.Context) {
	var data ReportData

	err := h.db.Model(&models.Invoice{}).
		Where("status = ?", "paid").
		Select("COALESCE(SUM(final_amount), 0)").
		Scan(&data.TotalRevenue).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate revenue"})
		return
	}

	if err := h.db.Model(&models.Invoice{}).Count(&data.TotalOrders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count invoices"})
		return
	}

	err = h.db.Table("invoice_items").
		Select("products.name as product_name, SUM(invoice_items.quantity) as sold, SUM(invoice_items.line_total) as revenue").
		Joins("JOIN products ON invoice_items.product_id = products.id").
		Group("products.name").
		Order("sold desc").
		Limit(5).
		Scan(&data.TopSelling).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top selling items"})
		return
	}

	err = h.db.Preload("Items").
		Order("invoice_date desc").
		Limit(10).
		Find(&data.RecentInvoices).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent invoices"})
		return
	}

	c.JSON(http.StatusOK, data)
}

// GetLowStock lists products at or below their reorder threshold.
func (h *ReportHandler) GetLowStock(c *gin.Context) {
	products, err := h.store.LowStock()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch low-stock products"})
		return
	}
	c.JSON(http.StatusOK, products)
}
