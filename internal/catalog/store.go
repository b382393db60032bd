package catalog

import (
	"errors"
	"fmt"

	"go-pos-engine/internal/models"

	"gorm.io/gorm"
)

// ErrProductNotFound is returned when a product id or SKU is unknown, or
// the product has been deactivated.
var ErrProductNotFound = errors.New("product not found")

// ErrInsufficientStock is returned by stock mutations that would leave a
// product's stock negative.
var ErrInsufficientStock = errors.New("insufficient stock")

// Store owns product rows and is the only component allowed to change
// stock counts.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithTx rebinds the store to an open transaction so stock mutation can
// join the committer's atomic unit and roll back with it.
func (s *Store) WithTx(tx *gorm.DB) *Store {
	return &Store{db: tx}
}

// Lookup returns an active product by id.
func (s *Store) Lookup(productID uint) (*models.Product, error) {
	var product models.Product
	err := s.db.Where("is_active = ?", true).First(&product, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// BySKU is the barcode-scan path: scanners hand the caller a SKU and the
// caller resolves it here before driving the cart.
func (s *Store) BySKU(sku string) (*models.Product, error) {
	var product models.Product
	err := s.db.Where("sku = ? AND is_active = ?", sku, true).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// List returns all active products ordered for display.
func (s *Store) List() ([]models.Product, error) {
	var products []models.Product
	err := s.db.Where("is_active = ?", true).
		Order("category, name").
		Find(&products).Error
	return products, err
}

func (s *Store) Create(p *models.Product) error {
	p.IsActive = true
	return s.db.Create(p).Error
}

// Update applies a partial edit. The SKU is immutable once assigned.
func (s *Store) Update(productID uint, fields map[string]interface{}) (*models.Product, error) {
	delete(fields, "sku")

	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if err := s.db.Model(&product).Updates(fields).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Deactivate soft-deletes a product so past invoice items keep a valid
// reference.
func (s *Store) Deactivate(productID uint) error {
	res := s.db.Model(&models.Product{}).
		Where("id = ? AND is_active = ?", productID, true).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// CurrentStock reads the live stock count.
func (s *Store) CurrentStock(productID uint) (int, error) {
	var product models.Product
	if err := s.db.Select("current_stock").First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrProductNotFound
		}
		return 0, err
	}
	return product.CurrentStock, nil
}

// Restock increases stock after a delivery.
func (s *Store) Restock(productID uint, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("restock quantity must be positive, got %d", quantity)
	}
	res := s.db.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("current_stock", gorm.Expr("current_stock + ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DecrementStock removes sold units. The WHERE guard makes the decrement
// conditional on enough stock still being there, so two sessions racing
// for the last unit resolve at the database: one row updated, one
// ErrInsufficientStock. Stock can never be observed or left negative.
func (s *Store) DecrementStock(productID uint, quantity int) error {
	res := s.db.Model(&models.Product{}).
		Where("id = ? AND current_stock >= ?", productID, quantity).
		UpdateColumn("current_stock", gorm.Expr("current_stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var exists int64
		if err := s.db.Model(&models.Product{}).Where("id = ?", productID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return ErrProductNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}

// LowStock lists active products at or below their minimum threshold.
func (s *Store) LowStock() ([]models.Product, error) {
	var products []models.Product
	err := s.db.Where("is_active = ? AND current_stock <= min_stock", true).
		Order("current_stock").
		Find(&products).Error
	return products, err
}
