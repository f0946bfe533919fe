package render

import (
	"errors"
	"fmt"
)

// ErrUnresolvedReference is matched by every UnresolvedReferenceError.
var ErrUnresolvedReference = errors.New("unresolved reference")

// UnresolvedReferenceError reports an order that names a customer or product
// missing from the reference tabs.
type UnresolvedReferenceError struct {
	Kind  string // customer or product
	ID    string
	Row   int
	Index int // 1-based item block for products, 0 for the customer
}

// Error implements the error interface.
func (e *UnresolvedReferenceError) Error() string {
	if e.Index > 0 {
		return fmt.Sprintf("unknown %s %q in item %d of row %d", e.Kind, e.ID, e.Index, e.Row)
	}
	return fmt.Sprintf("unknown %s %q in row %d", e.Kind, e.ID, e.Row)
}

// Is matches ErrUnresolvedReference.
func (e *UnresolvedReferenceError) Is(target error) bool {
	return target == ErrUnresolvedReference
}
