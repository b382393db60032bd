package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User - whoever is operating a terminal. The creator identity stamped on
// invoices and ledger entries is the username.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"`    // Never return this in JSON
	Role         string    `json:"role"` // 'admin', 'cashier'
	CreatedAt    time.Time `json:"created_at"`
}

// Account - one row of the chart of accounts. Sales post against a
// designated revenue account.
type Account struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	Code     string          `gorm:"uniqueIndex;size:20" json:"code"`
	Name     string          `json:"name"`
	Type     string          `json:"type"` // 'asset', 'income', 'expense'
	Balance  decimal.Decimal `gorm:"type:decimal(16,2)" json:"balance"`
	IsActive bool            `gorm:"default:true" json:"is_active"`
}

// Product - the inventory. CurrentStock is the only field touched by more
// than one session at a time; it is only changed through catalog.Store.
type Product struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	SKU          string          `gorm:"uniqueIndex;size:40" json:"sku"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(14,2)" json:"cost_price"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(14,2)" json:"selling_price"`
	CurrentStock int             `json:"current_stock"`
	MinStock     int             `json:"min_stock"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
}

// TaxRate - one named percentage applied additively to every subtotal.
// Deactivated rates stay on disk so old invoices keep their breakdown.
type TaxRate struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"uniqueIndex;size:80" json:"name"`
	Rate      decimal.Decimal `gorm:"type:decimal(5,2)" json:"rate"` // percent, 0-100
	IsActive  bool            `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}

// Invoice - the transaction header, written exactly once per successful
// checkout and immutable afterwards.
type Invoice struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	InvoiceNumber  string          `gorm:"uniqueIndex;size:40" json:"invoice_number"`
	CustomerID     *uint           `json:"customer_id"`
	InvoiceDate    time.Time       `json:"invoice_date"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(16,2)" json:"subtotal"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(16,2)" json:"tax_amount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(16,2)" json:"discount_amount"`
	FinalAmount    decimal.Decimal `gorm:"type:decimal(16,2)" json:"final_amount"`
	Status         string          `json:"status"` // 'draft', 'paid'
	PaymentMethod  string          `json:"payment_method"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	Items          []InvoiceItem   `gorm:"foreignKey:InvoiceID" json:"items"`
}

// InvoiceItem - a cart line frozen at commit time. Later price or product
// edits never touch it.
type InvoiceItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	InvoiceID uint            `json:"invoice_id"`
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(14,2)" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:decimal(16,2)" json:"line_total"`
}

// LedgerEntry - append-only money movement. Never updated or deleted.
type LedgerEntry struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	TransactionNumber string          `gorm:"uniqueIndex;size:50" json:"transaction_number"`
	Date              time.Time       `json:"date"`
	Type              string          `json:"type"` // 'income', 'expense', 'transfer'
	Description       string          `json:"description"`
	Amount            decimal.Decimal `gorm:"type:decimal(16,2)" json:"amount"`
	AccountID         uint            `json:"account_id"`
	CreatedBy         string          `json:"created_by"`
	CreatedAt         time.Time       `json:"created_at"`
}
