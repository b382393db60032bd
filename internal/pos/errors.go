package pos

import (
	"errors"
	"fmt"
)

// Validation failures detected before any write.
var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidDiscount = errors.New("discount must be between 0 and 100 percent")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// NotFoundError means a cart operation referenced an unknown or inactive
// product.
type NotFoundError struct {
	ProductID uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// InsufficientStockError always names the offending product so the caller
// can tell the cashier which line to amend.
type InsufficientStockError struct {
	ProductID uint
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.Name, e.Requested, e.Available)
}

// ConflictError means the atomic unit was aborted by the persistence
// layer, e.g. the invoice number collided even after regeneration. The
// cart is intact and the caller may retry.
type ConflictError struct {
	Op  string
	Err error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("persistence conflict during %s: %v", e.Op, e.Err)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// UnavailableError means the storage layer failed outright. Fatal to the
// current operation, not to the process.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable during %s: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }
