package mapper

import (
	"errors"
	"fmt"
)

// Common mapping errors
var (
	// ErrMissingField is matched by every MissingFieldError.
	ErrMissingField = errors.New("missing required field")

	// ErrIncompleteItem is matched by every IncompleteItemError.
	ErrIncompleteItem = errors.New("incomplete line item")
)

// MissingFieldError is returned when a required column is absent or blank.
type MissingFieldError struct {
	// Kind is the record kind being mapped (product, customer, company, order).
	Kind string

	// Field is the record field that could not be filled.
	Field string

	// Header is the column the field is read from.
	Header string

	// Row is the 0-based data row index within the tab.
	Row int
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing %s field %s (column %q) in row %d", e.Kind, e.Field, e.Header, e.Row)
}

// Is matches ErrMissingField.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// IncompleteItemError is returned when a Product/Amount/Price block is only partly filled.
type IncompleteItemError struct {
	Row       int
	Index     int // 1-based suffix of the column block
	ProductID string
	Amount    string
	Price     string
}

// Error implements the error interface.
func (e *IncompleteItemError) Error() string {
	return fmt.Sprintf("incomplete item %d in row %d: product %q, amount %q, price %q",
		e.Index, e.Row, e.ProductID, e.Amount, e.Price)
}

// Is matches ErrIncompleteItem.
func (e *IncompleteItemError) Is(target error) bool {
	return target == ErrIncompleteItem
}
