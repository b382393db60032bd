package pos

import (
	"errors"

	"go-pos-engine/internal/catalog"
	"go-pos-engine/internal/models"
	"go-pos-engine/internal/tax"

	"github.com/shopspring/decimal"
)

// CatalogReader is the slice of the catalog the cart needs.
type CatalogReader interface {
	Lookup(productID uint) (*models.Product, error)
}

// RateProvider supplies the active tax rates, read fresh per computation.
type RateProvider interface {
	CurrentRates() (map[string]decimal.Decimal, error)
}

// Line is one product entry in a cart. UnitPrice is snapshotted when the
// line is first added; later catalog price edits do not reach it.
type Line struct {
	ProductID uint            `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

// Cart accumulates prospective sale lines for one session. It is owned by
// exactly one session and is not safe for concurrent use; the session
// layer guarantees single ownership.
//
// Stock is not reserved by adding a line. Two carts may both accept the
// same last unit; the conflict resolves at commit, not here.
type Cart struct {
	catalog CatalogReader
	rates   RateProvider

	lines       []Line
	subtotal    decimal.Decimal
	taxAmount   decimal.Decimal
	finalAmount decimal.Decimal
}

func NewCart(cat CatalogReader, rates RateProvider) *Cart {
	return &Cart{
		catalog:     cat,
		rates:       rates,
		subtotal:    decimal.Zero,
		taxAmount:   decimal.Zero,
		finalAmount: decimal.Zero,
	}
}

// AddLine puts quantity units of a product in the cart, merging into the
// existing line if the product is already present. The quantity (or the
// merged cumulative quantity) is checked against the product's current
// stock snapshot. On any failure the cart is left exactly as it was.
func (c *Cart) AddLine(productID uint, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	product, err := c.catalog.Lookup(productID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return &NotFoundError{ProductID: productID}
		}
		return &UnavailableError{Op: "product lookup", Err: err}
	}

	// Rates are fetched before the line set changes so a failed read
	// cannot leave the cart mutated with stale totals.
	rates, err := c.rates.CurrentRates()
	if err != nil {
		return &UnavailableError{Op: "tax rate read", Err: err}
	}

	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		cumulative := c.lines[i].Quantity + quantity
		if cumulative > product.CurrentStock {
			return &InsufficientStockError{
				ProductID: product.ID,
				Name:      product.Name,
				Requested: cumulative,
				Available: product.CurrentStock,
			}
		}
		c.lines[i].Quantity = cumulative
		c.lines[i].Total = c.lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(cumulative)))
		c.recalculate(rates)
		return nil
	}

	if quantity > product.CurrentStock {
		return &InsufficientStockError{
			ProductID: product.ID,
			Name:      product.Name,
			Requested: quantity,
			Available: product.CurrentStock,
		}
	}

	c.lines = append(c.lines, Line{
		ProductID: product.ID,
		SKU:       product.SKU,
		Name:      product.Name,
		UnitPrice: product.SellingPrice,
		Quantity:  quantity,
		Total:     product.SellingPrice.Mul(decimal.NewFromInt(int64(quantity))),
	})
	c.recalculate(rates)
	return nil
}

// RemoveLine drops a product's line. Removing an absent product is not an
// error.
func (c *Cart) RemoveLine(productID uint) error {
	rates, err := c.rates.CurrentRates()
	if err != nil {
		return &UnavailableError{Op: "tax rate read", Err: err}
	}

	kept := c.lines[:0]
	for _, line := range c.lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	c.lines = kept
	c.recalculate(rates)
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear() error {
	rates, err := c.rates.CurrentRates()
	if err != nil {
		return &UnavailableError{Op: "tax rate read", Err: err}
	}
	c.lines = nil
	c.recalculate(rates)
	return nil
}

// recalculate keeps subtotal, tax and final consistent with the line set.
// Tax applies to the undiscounted subtotal; discounts only exist at
// commit time and never show up in cart totals.
func (c *Cart) recalculate(rates map[string]decimal.Decimal) {
	subtotal := decimal.Zero
	for _, line := range c.lines {
		subtotal = subtotal.Add(line.Total)
	}
	c.subtotal = subtotal
	c.taxAmount = tax.TotalTax(subtotal, rates)
	c.finalAmount = subtotal.Add(c.taxAmount)
}

// reset is the post-commit clear: the lines are gone and the totals are
// zero by definition, no rate read needed.
func (c *Cart) reset() {
	c.lines = nil
	c.subtotal = decimal.Zero
	c.taxAmount = decimal.Zero
	c.finalAmount = decimal.Zero
}

// Lines returns a copy of the current line set in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

func (c *Cart) Subtotal() decimal.Decimal { return c.subtotal }

func (c *Cart) TaxAmount() decimal.Decimal { return c.taxAmount }

func (c *Cart) FinalAmount() decimal.Decimal { return c.finalAmount }
