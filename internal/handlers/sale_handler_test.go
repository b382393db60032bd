package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-pos-engine/internal/catalog"
	"go-pos-engine/internal/database"
	"go-pos-engine/internal/ledger"
	"go-pos-engine/internal/models"
	"go-pos-engine/internal/pos"
	"go-pos-engine/internal/tax"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

// setupSaleRouter wires real stores over an in-memory database, with the
// auth middleware replaced by a stub identity.
func setupSaleRouter(t *testing.T) (*gin.Engine, *models.Product) {
	t.Helper()
	db := newTestDB(t)

	account := models.Account{Code: "3-101", Name: "Sales Revenue", Type: "income", Balance: decimal.Zero, IsActive: true}
	require.NoError(t, db.Create(&account).Error)

	cat := catalog.NewStore(db)
	schedule := tax.NewSchedule(db)
	led := ledger.NewStore(db)
	committer := pos.NewCommitter(db, cat, schedule, led, account.ID)
	sessions := pos.NewManager(cat, schedule, "TILL-TEST")

	product := &models.Product{
		SKU:          "KB-003",
		Name:         "Mechanical Keyboard",
		Category:     "Electronics",
		SellingPrice: decimal.NewFromInt(1200000),
		CurrentStock: 25,
	}
	require.NoError(t, cat.Create(product))
	require.NoError(t, schedule.UpsertRate("Value Added Tax", decimal.NewFromInt(9)))

	saleHandler := NewSaleHandler(sessions, committer)
	productHandler := NewProductHandler(cat)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", uint(1))
		c.Set("username", "tester")
		c.Set("role", "admin")
	})
	r.GET("/products/scan/:sku", productHandler.ScanProduct)
	r.POST("/sessions", saleHandler.OpenSession)
	r.DELETE("/sessions/:token", saleHandler.CloseSession)
	r.GET("/sessions/:token/cart", saleHandler.GetCart)
	r.POST("/sessions/:token/lines", saleHandler.AddLine)
	r.DELETE("/sessions/:token/lines/:productId", saleHandler.RemoveLine)
	r.POST("/sessions/:token/checkout", saleHandler.Checkout)

	return r, product
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func openSession(t *testing.T, r *gin.Engine) string {
	t.Helper()
	rec := doJSON(t, r, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

func TestSaleFlow(t *testing.T) {
	r, product := setupSaleRouter(t)
	token := openSession(t, r)

	rec := doJSON(t, r, http.MethodPost, "/sessions/"+token+"/lines", gin.H{
		"product_id": product.ID,
		"quantity":   2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var cart struct {
		Subtotal    decimal.Decimal `json:"subtotal"`
		TaxAmount   decimal.Decimal `json:"tax_amount"`
		FinalAmount decimal.Decimal `json:"final_amount"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cart))
	assert.True(t, cart.Subtotal.Equal(decimal.NewFromInt(2400000)), "got %s", cart.Subtotal)
	assert.True(t, cart.TaxAmount.Equal(decimal.NewFromInt(216000)), "got %s", cart.TaxAmount)
	assert.True(t, cart.FinalAmount.Equal(decimal.NewFromInt(2616000)), "got %s", cart.FinalAmount)

	rec = doJSON(t, r, http.MethodPost, "/sessions/"+token+"/checkout", gin.H{
		"payment_method":   "cash",
		"discount_percent": "10",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var receipt pos.Receipt
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&receipt))
	assert.True(t, receipt.Invoice.FinalAmount.Equal(decimal.NewFromInt(2376000)), "got %s", receipt.Invoice.FinalAmount)
	assert.Equal(t, "paid", receipt.Invoice.Status)
	require.Contains(t, receipt.TaxBreakdown, "Value Added Tax")

	// The session's cart is empty again, ready for the next customer.
	rec = doJSON(t, r, http.MethodGet, "/sessions/"+token+"/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cart))
	assert.True(t, cart.FinalAmount.IsZero())
}

func TestAddLineBeyondStock(t *testing.T) {
	r, product := setupSaleRouter(t)
	token := openSession(t, r)

	rec := doJSON(t, r, http.MethodPost, "/sessions/"+token+"/lines", gin.H{
		"product_id": product.ID,
		"quantity":   26,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	var body struct {
		Available int `json:"available"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 25, body.Available)
}

func TestCheckoutEmptyCart(t *testing.T) {
	r, _ := setupSaleRouter(t)
	token := openSession(t, r)

	rec := doJSON(t, r, http.MethodPost, "/sessions/"+token+"/checkout", gin.H{
		"payment_method": "cash",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionNotFound(t *testing.T) {
	r, _ := setupSaleRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/sessions/no-such-token/cart", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScanUnknownSKU(t *testing.T) {
	r, _ := setupSaleRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/products/scan/NOPE-000", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClosedSessionIsGone(t *testing.T) {
	r, _ := setupSaleRouter(t)
	token := openSession(t, r)

	rec := doJSON(t, r, http.MethodDelete, "/sessions/"+token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/sessions/"+token+"/cart", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
