// Package ledger is the append-only record of money movements. The engine
// only ever writes here; reporting reads live elsewhere.
package ledger

import (
	"go-pos-engine/internal/models"

	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithTx rebinds the store to an open transaction so the sale posting
// commits or rolls back with the rest of the atomic unit.
func (s *Store) WithTx(tx *gorm.DB) *Store {
	return &Store{db: tx}
}

// Append writes one entry. Entries are never updated or deleted.
func (s *Store) Append(entry *models.LedgerEntry) error {
	return s.db.Create(entry).Error
}
