package pos

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go-pos-engine/internal/catalog"
	"go-pos-engine/internal/ledger"
	"go-pos-engine/internal/models"
	"go-pos-engine/internal/tax"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// CommitOptions carries everything the cashier chose at checkout.
type CommitOptions struct {
	PaymentMethod   string
	DiscountPercent decimal.Decimal
	CustomerID      *uint
	CreatedBy       string
}

// Receipt is the read-only result handed to the rendering collaborator:
// the persisted invoice (with item snapshots) plus the per-tax breakdown.
type Receipt struct {
	Invoice      models.Invoice      `json:"invoice"`
	TaxBreakdown map[string]tax.Line `json:"tax_breakdown"`
}

// Committer turns a cart into an invoice, its item snapshots, the stock
// decrements and one income ledger entry, all inside a single database
// transaction. Either everything lands or nothing does.
type Committer struct {
	db               *gorm.DB
	catalog          *catalog.Store
	schedule         *tax.Schedule
	ledger           *ledger.Store
	revenueAccountID uint
}

func NewCommitter(db *gorm.DB, cat *catalog.Store, schedule *tax.Schedule, led *ledger.Store, revenueAccountID uint) *Committer {
	return &Committer{
		db:               db,
		catalog:          cat,
		schedule:         schedule,
		ledger:           led,
		revenueAccountID: revenueAccountID,
	}
}

// Commit settles the cart.
//
// Validation (empty cart, discount bounds, per-line stock re-check) runs
// before any write. The stock re-check is mandatory: stock may have moved
// since the lines were added. The decrement itself is guarded again at
// the database, which is the linearization point for concurrent commits.
//
// Tax is computed on the undiscounted subtotal and the discount is
// subtracted from the post-tax total. That ordering is what the business
// runs on; see DESIGN.md before changing it.
//
// On success the cart is cleared. On any failure the transaction is
// rolled back, the cart is left untouched, and exactly one typed reason
// comes back so the caller can amend and resubmit.
func (c *Committer) Commit(cart *Cart, opts CommitOptions) (*Receipt, error) {
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if opts.DiscountPercent.IsNegative() || opts.DiscountPercent.GreaterThan(hundred) {
		return nil, ErrInvalidDiscount
	}

	rates, err := c.schedule.CurrentRates()
	if err != nil {
		return nil, &UnavailableError{Op: "tax rate read", Err: err}
	}

	lines := cart.Lines()
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Total)
	}
	taxAmount := tax.TotalTax(subtotal, rates)
	breakdown := tax.Breakdown(subtotal, rates)
	discountAmount := subtotal.Mul(opts.DiscountPercent).Div(hundred)
	finalAmount := subtotal.Add(taxAmount).Sub(discountAmount)

	var invoice models.Invoice
	txErr := c.db.Transaction(func(tx *gorm.DB) error {
		cat := c.catalog.WithTx(tx)

		// Validating: every line against live stock, whole commit fails
		// on the first shortfall.
		for _, line := range lines {
			product, err := cat.Lookup(line.ProductID)
			if err != nil {
				if errors.Is(err, catalog.ErrProductNotFound) {
					return &NotFoundError{ProductID: line.ProductID}
				}
				return err
			}
			if line.Quantity > product.CurrentStock {
				return &InsufficientStockError{
					ProductID: product.ID,
					Name:      product.Name,
					Requested: line.Quantity,
					Available: product.CurrentStock,
				}
			}
		}

		// Persisting.
		now := time.Now()
		items := make([]models.InvoiceItem, len(lines))
		for i, line := range lines {
			items[i] = models.InvoiceItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				LineTotal: line.Total,
			}
		}
		invoice = models.Invoice{
			CustomerID:     opts.CustomerID,
			InvoiceDate:    now,
			Subtotal:       subtotal,
			TaxAmount:      taxAmount,
			DiscountAmount: discountAmount,
			FinalAmount:    finalAmount,
			Status:         "paid",
			PaymentMethod:  opts.PaymentMethod,
			CreatedBy:      opts.CreatedBy,
			Items:          items,
		}

		// The unique index on invoice_number is the real uniqueness
		// guarantee; on a collision the number is regenerated inside the
		// open transaction, never silently reused.
		var createErr error
		for attempt := 0; attempt < 3; attempt++ {
			invoice.InvoiceNumber = nextInvoiceNumber(now)
			createErr = tx.Create(&invoice).Error
			if createErr == nil {
				break
			}
			if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return createErr
			}
		}
		if createErr != nil {
			return &ConflictError{Op: "invoice insert", Err: createErr}
		}

		for _, line := range lines {
			if err := cat.DecrementStock(line.ProductID, line.Quantity); err != nil {
				if errors.Is(err, catalog.ErrInsufficientStock) {
					// A concurrent commit won the race between the
					// validation read and this decrement.
					available, stockErr := cat.CurrentStock(line.ProductID)
					if stockErr != nil {
						available = 0
					}
					return &InsufficientStockError{
						ProductID: line.ProductID,
						Name:      line.Name,
						Requested: line.Quantity,
						Available: available,
					}
				}
				if errors.Is(err, catalog.ErrProductNotFound) {
					return &NotFoundError{ProductID: line.ProductID}
				}
				return err
			}
		}

		return c.ledger.WithTx(tx).Append(&models.LedgerEntry{
			TransactionNumber: "TRX-" + invoice.InvoiceNumber,
			Date:              now,
			Type:              "income",
			Description:       fmt.Sprintf("Sale, invoice %s", invoice.InvoiceNumber),
			Amount:            finalAmount,
			AccountID:         c.revenueAccountID,
			CreatedBy:         opts.CreatedBy,
		})
	})

	if txErr != nil {
		var notFound *NotFoundError
		var shortfall *InsufficientStockError
		var conflict *ConflictError
		if errors.As(txErr, &notFound) || errors.As(txErr, &shortfall) || errors.As(txErr, &conflict) {
			return nil, txErr
		}
		return nil, &UnavailableError{Op: "commit", Err: txErr}
	}

	cart.reset()
	return &Receipt{Invoice: invoice, TaxBreakdown: breakdown}, nil
}

var invoiceSeq uint64

// nextInvoiceNumber builds a timestamp/sequence composite. Uniqueness is
// ultimately enforced by the database index, not this counter.
func nextInvoiceNumber(now time.Time) string {
	seq := atomic.AddUint64(&invoiceSeq, 1)
	return fmt.Sprintf("INV-%s-%04d", now.Format("20060102-150405"), seq%10000)
}
