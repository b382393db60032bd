package handlers

import (
	"errors"
	"net/http"

	"go-pos-engine/internal/tax"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type TaxHandler struct {
	schedule *tax.Schedule
}

func NewTaxHandler(schedule *tax.Schedule) *TaxHandler {
	return &TaxHandler{schedule: schedule}
}

func (h *TaxHandler) GetRates(c *gin.Context) {
	rates, err := h.schedule.ListRates()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tax rates"})
		return
	}
	c.JSON(http.StatusOK, rates)
}

type UpsertRateRequest struct {
	Name string          `json:"name" binding:"required"`
	Rate decimal.Decimal `json:"rate"`
}

// UpsertRate creates or changes a rate. The change applies to the next
// totals computation, never retroactively to carts already totalled.
func (h *TaxHandler) UpsertRate(c *gin.Context) {
	var req UpsertRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := h.schedule.UpsertRate(req.Name, req.Rate); err != nil {
		if errors.Is(err, tax.ErrInvalidRate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save tax rate"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tax rate saved"})
}

func (h *TaxHandler) DeactivateRate(c *gin.Context) {
	name := c.Param("name")

	if err := h.schedule.DeactivateRate(name); err != nil {
		if errors.Is(err, tax.ErrRateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tax rate not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate tax rate"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tax rate deactivated"})
}
