package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go-pos-engine/internal/catalog"
	"go-pos-engine/internal/models"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	store *catalog.Store
}

func NewProductHandler(store *catalog.Store) *ProductHandler {
	return &ProductHandler{store: store}
}

// GetProducts lists the active catalog for the sale screen.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.store.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// ScanProduct resolves a scanned SKU. The scanner itself only ever hands
// the frontend a code; stock is untouched until checkout.
func (h *ProductHandler) ScanProduct(c *gin.Context) {
	sku := c.Param("sku")

	product, err := h.store.BySKU(sku)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) AddProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if product.SKU == "" || product.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "SKU and name are required"})
		return
	}
	if product.CurrentStock < 0 || product.MinStock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock counts cannot be negative"})
		return
	}

	if err := h.store.Create(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create product, SKU may already exist"})
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct applies a partial edit; only the fields sent change.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	product, err := h.store.Update(uint(id), fields)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// DeleteProduct deactivates rather than deletes, so invoice items keep
// their product reference.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if err := h.store.Deactivate(uint(id)); err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deactivated"})
}

type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

func (h *ProductHandler) RestockProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be a positive integer"})
		return
	}

	if err := h.store.Restock(uint(id), req.Quantity); err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to restock product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock updated"})
}
