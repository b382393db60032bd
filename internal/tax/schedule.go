package tax

import (
	"errors"

	"go-pos-engine/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInvalidRate is returned for percentages outside [0, 100].
var ErrInvalidRate = errors.New("tax rate must be between 0 and 100")

// ErrRateNotFound is returned when deactivating a name with no active rate.
var ErrRateNotFound = errors.New("tax rate not found")

var oneHundred = decimal.NewFromInt(100)

// Line is one entry of a receipt's tax breakdown.
type Line struct {
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// Schedule reads and maintains the named tax rates. Rates are read fresh
// for every computation, so an update is visible to the next cart
// recalculation but never retroactively to totals already handed out.
type Schedule struct {
	db *gorm.DB
}

func NewSchedule(db *gorm.DB) *Schedule {
	return &Schedule{db: db}
}

// CurrentRates returns the active rates keyed by name.
func (s *Schedule) CurrentRates() (map[string]decimal.Decimal, error) {
	var rows []models.TaxRate
	if err := s.db.Where("is_active = ?", true).Find(&rows).Error; err != nil {
		return nil, err
	}
	rates := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		rates[row.Name] = row.Rate
	}
	return rates, nil
}

// UpsertRate creates the named rate or updates it in place, reactivating
// it if it had been switched off.
func (s *Schedule) UpsertRate(name string, rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(oneHundred) {
		return ErrInvalidRate
	}
	row := models.TaxRate{Name: name, Rate: rate, IsActive: true}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"rate": rate, "is_active": true}),
	}).Create(&row).Error
}

// DeactivateRate switches a rate off without deleting it. Invoices already
// written keep their recorded breakdown.
func (s *Schedule) DeactivateRate(name string) error {
	res := s.db.Model(&models.TaxRate{}).
		Where("name = ? AND is_active = ?", name, true).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRateNotFound
	}
	return nil
}

// ListRates returns every rate, active or not, for the admin screen.
func (s *Schedule) ListRates() ([]models.TaxRate, error) {
	var rows []models.TaxRate
	err := s.db.Order("name").Find(&rows).Error
	return rows, err
}

// TotalTax applies every rate additively to the subtotal.
func TotalTax(subtotal decimal.Decimal, rates map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, rate := range rates {
		total = total.Add(subtotal.Mul(rate).Div(oneHundred))
	}
	return total
}

// Breakdown returns the per-name rate and amount for receipt rendering.
// The amounts always sum to TotalTax over the same rates.
func Breakdown(subtotal decimal.Decimal, rates map[string]decimal.Decimal) map[string]Line {
	breakdown := make(map[string]Line, len(rates))
	for name, rate := range rates {
		breakdown[name] = Line{
			Rate:   rate,
			Amount: subtotal.Mul(rate).Div(oneHundred),
		}
	}
	return breakdown
}
