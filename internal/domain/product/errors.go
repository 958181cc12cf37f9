package product

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidPrice      = errors.New("price must be positive")
	ErrInvalidName       = errors.New("name is required")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidStock      = errors.New("stock cannot be negative")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError carries the detail a caller needs to report a
// rejected stock decrement. It matches errors.Is(err, ErrInsufficientStock).
type InsufficientStockError struct {
	ProductID   string
	Name        string
	Available   int
	Requested   int
	Unavailable bool
}

func (e *InsufficientStockError) Error() string {
	if e.Unavailable {
		return fmt.Sprintf("%s is currently unavailable", e.Name)
	}
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.Name, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
