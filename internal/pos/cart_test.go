package pos

import (
	"testing"

	"go-pos-engine/internal/catalog"
	"go-pos-engine/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	products map[uint]*models.Product
}

func (f *fakeCatalog) Lookup(productID uint) (*models.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

type fakeRates struct {
	rates map[string]decimal.Decimal
}

func (f *fakeRates) CurrentRates() (map[string]decimal.Decimal, error) {
	return f.rates, nil
}

func newFixture() (*fakeCatalog, *fakeRates, *Cart) {
	cat := &fakeCatalog{products: map[uint]*models.Product{
		1: {ID: 1, SKU: "KB-003", Name: "Mechanical Keyboard", SellingPrice: decimal.NewFromInt(1200000), CurrentStock: 25, IsActive: true},
		2: {ID: 2, SKU: "MS-002", Name: "Wireless Mouse", SellingPrice: decimal.NewFromInt(450000), CurrentStock: 2, IsActive: true},
	}}
	rates := &fakeRates{rates: map[string]decimal.Decimal{
		"Value Added Tax": decimal.NewFromInt(9),
	}}
	return cat, rates, NewCart(cat, rates)
}

func assertAmount(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.NewFromInt(want)), "want %d, got %s", want, got)
}

func TestCartTotals(t *testing.T) {
	_, _, cart := newFixture()

	// Spec scenario: 1,200,000 x 2 at 9% tax.
	require.NoError(t, cart.AddLine(1, 2))
	assertAmount(t, 2400000, cart.Subtotal())
	assertAmount(t, 216000, cart.TaxAmount())
	assertAmount(t, 2616000, cart.FinalAmount())

	// The invariant holds for every shape of the line set.
	require.NoError(t, cart.AddLine(2, 1))
	assert.True(t, cart.FinalAmount().Equal(cart.Subtotal().Add(cart.TaxAmount())))

	require.NoError(t, cart.RemoveLine(1))
	assertAmount(t, 450000, cart.Subtotal())
	assert.True(t, cart.FinalAmount().Equal(cart.Subtotal().Add(cart.TaxAmount())))

	require.NoError(t, cart.Clear())
	assertAmount(t, 0, cart.Subtotal())
	assertAmount(t, 0, cart.TaxAmount())
	assertAmount(t, 0, cart.FinalAmount())
}

func TestAddLineMergesDuplicateProduct(t *testing.T) {
	_, _, cart := newFixture()

	require.NoError(t, cart.AddLine(1, 1))
	require.NoError(t, cart.AddLine(1, 3))

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].Quantity)
	assertAmount(t, 4800000, lines[0].Total)
}

func TestAddLineUnknownProduct(t *testing.T) {
	_, _, cart := newFixture()

	err := cart.AddLine(99, 1)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.EqualValues(t, 99, notFound.ProductID)
	assert.True(t, cart.IsEmpty())
}

func TestAddLineInvalidQuantity(t *testing.T) {
	_, _, cart := newFixture()

	assert.ErrorIs(t, cart.AddLine(1, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, cart.AddLine(1, -2), ErrInvalidQuantity)
	assert.True(t, cart.IsEmpty())
}

func TestAddLineInsufficientStockLeavesCartUnchanged(t *testing.T) {
	_, _, cart := newFixture()

	require.NoError(t, cart.AddLine(2, 1))
	before := cart.Lines()
	subtotalBefore := cart.Subtotal()

	// Product 2 has 2 units; the cumulative 1+2 exceeds it.
	err := cart.AddLine(2, 2)
	var shortfall *InsufficientStockError
	require.ErrorAs(t, err, &shortfall)
	assert.Equal(t, "Wireless Mouse", shortfall.Name)
	assert.Equal(t, 3, shortfall.Requested)
	assert.Equal(t, 2, shortfall.Available)

	assert.Equal(t, before, cart.Lines())
	assert.True(t, cart.Subtotal().Equal(subtotalBefore))
}

func TestAddLineExceedingStockOutright(t *testing.T) {
	_, _, cart := newFixture()

	err := cart.AddLine(2, 3)
	var shortfall *InsufficientStockError
	require.ErrorAs(t, err, &shortfall)
	assert.True(t, cart.IsEmpty())
}

func TestRemoveLineIsIdempotent(t *testing.T) {
	_, _, cart := newFixture()

	require.NoError(t, cart.AddLine(1, 1))
	require.NoError(t, cart.RemoveLine(2)) // never added
	require.NoError(t, cart.RemoveLine(1))
	require.NoError(t, cart.RemoveLine(1)) // already gone
	assert.True(t, cart.IsEmpty())
}

func TestUnitPriceSnapshottedAtAddTime(t *testing.T) {
	cat, _, cart := newFixture()

	require.NoError(t, cart.AddLine(1, 1))
	cat.products[1].SellingPrice = decimal.NewFromInt(9999999)

	require.NoError(t, cart.AddLine(1, 1)) // merge re-prices from the snapshot
	lines := cart.Lines()
	assertAmount(t, 2400000, lines[0].Total)
	assertAmount(t, 2400000, cart.Subtotal())
}

func TestRateChangeVisibleOnNextMutation(t *testing.T) {
	_, rates, cart := newFixture()

	require.NoError(t, cart.AddLine(1, 2))
	assertAmount(t, 216000, cart.TaxAmount())

	// A schedule change does not rewrite the computed snapshot...
	rates.rates = map[string]decimal.Decimal{"Value Added Tax": decimal.NewFromInt(10)}
	assertAmount(t, 216000, cart.TaxAmount())

	// ...but the next mutation picks it up.
	require.NoError(t, cart.RemoveLine(2))
	assertAmount(t, 240000, cart.TaxAmount())
}

func TestTwoActiveRates(t *testing.T) {
	cat := &fakeCatalog{products: map[uint]*models.Product{
		1: {ID: 1, SKU: "X", Name: "X", SellingPrice: decimal.NewFromInt(1000000), CurrentStock: 10, IsActive: true},
	}}
	rates := &fakeRates{rates: map[string]decimal.Decimal{
		"Value Added Tax": decimal.NewFromInt(9),
		"Municipal Duty":  decimal.NewFromInt(1),
	}}
	cart := NewCart(cat, rates)

	require.NoError(t, cart.AddLine(1, 1))
	assertAmount(t, 1000000, cart.Subtotal())
	assertAmount(t, 100000, cart.TaxAmount())
	assertAmount(t, 1100000, cart.FinalAmount())
}
