package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go-pos-engine/internal/pos"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SaleHandler drives a sale end to end: open a session, build the cart,
// settle it through the committer.
type SaleHandler struct {
	sessions  *pos.Manager
	committer *pos.Committer
}

func NewSaleHandler(sessions *pos.Manager, committer *pos.Committer) *SaleHandler {
	return &SaleHandler{sessions: sessions, committer: committer}
}

func (h *SaleHandler) OpenSession(c *gin.Context) {
	username := c.MustGet("username").(string)
	session := h.sessions.Open(username)
	c.JSON(http.StatusCreated, session)
}

func (h *SaleHandler) CloseSession(c *gin.Context) {
	// Abandoning a cart has no side effects; the session just goes away.
	h.sessions.Close(c.Param("token"))
	c.JSON(http.StatusOK, gin.H{"message": "Session closed"})
}

func (h *SaleHandler) session(c *gin.Context) (*pos.Session, bool) {
	session, ok := h.sessions.Get(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	return session, true
}

func cartView(cart *pos.Cart) gin.H {
	return gin.H{
		"lines":        cart.Lines(),
		"subtotal":     cart.Subtotal(),
		"tax_amount":   cart.TaxAmount(),
		"final_amount": cart.FinalAmount(),
	}
}

func (h *SaleHandler) GetCart(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cartView(session.Cart))
}

type AddLineRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

func (h *SaleHandler) AddLine(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := session.Cart.AddLine(req.ProductID, req.Quantity); err != nil {
		writeSaleError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartView(session.Cart))
}

func (h *SaleHandler) RemoveLine(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if err := session.Cart.RemoveLine(uint(productID)); err != nil {
		writeSaleError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartView(session.Cart))
}

func (h *SaleHandler) ClearCart(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if err := session.Cart.Clear(); err != nil {
		writeSaleError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartView(session.Cart))
}

type CheckoutRequest struct {
	PaymentMethod   string          `json:"payment_method" binding:"required"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	CustomerID      *uint           `json:"customer_id"`
}

func (h *SaleHandler) Checkout(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	receipt, err := h.committer.Commit(session.Cart, pos.CommitOptions{
		PaymentMethod:   req.PaymentMethod,
		DiscountPercent: req.DiscountPercent,
		CustomerID:      req.CustomerID,
		CreatedBy:       c.MustGet("username").(string),
	})
	if err != nil {
		writeSaleError(c, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}

// writeSaleError maps the engine's typed failures onto HTTP statuses.
// Every failed checkout leaves the cart intact, so 4xx responses are
// always safe to correct and resubmit.
func writeSaleError(c *gin.Context, err error) {
	var notFound *pos.NotFoundError
	var shortfall *pos.InsufficientStockError
	var conflict *pos.ConflictError
	var unavailable *pos.UnavailableError

	switch {
	case errors.Is(err, pos.ErrEmptyCart),
		errors.Is(err, pos.ErrInvalidDiscount),
		errors.Is(err, pos.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &shortfall):
		c.JSON(http.StatusConflict, gin.H{
			"error":      err.Error(),
			"product_id": shortfall.ProductID,
			"available":  shortfall.Available,
		})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &unavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
