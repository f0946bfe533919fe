package invoice

import (
	"errors"
	"fmt"
)

// Common numbering errors. Every typed error below matches one of these with errors.Is.
var (
	// ErrZeroSubtotal is returned when a line item is worth nothing.
	ErrZeroSubtotal = errors.New("line item subtotal is zero")

	// ErrSequenceOverflow is returned when a month bucket runs out of two-digit suffixes.
	ErrSequenceOverflow = errors.New("more than 99 invoices in one month")

	// ErrDuplicateInvoiceID is returned when an invoice id occurs twice in a batch.
	ErrDuplicateInvoiceID = errors.New("duplicate invoice id")

	// ErrNonMonotonicID is returned when an invoice id is lower than the one in the previous row.
	ErrNonMonotonicID = errors.New("invoice id lower than previous invoice")

	// ErrNonMonotonicDate is returned when an invoice date lies before the one in the previous row.
	ErrNonMonotonicDate = errors.New("invoice date before previous invoice")

	// ErrInvalidAmount is returned when an amount or price cell cannot be read.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidDate is returned when a date cell is not DD.MM.YYYY.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidInvoiceID is returned when a supplied invoice id is not numeric.
	ErrInvalidInvoiceID = errors.New("invalid invoice id")

	// ErrTotalMismatch is returned when the Total cell disagrees with the line items.
	ErrTotalMismatch = errors.New("total does not match line items")
)

// ZeroSubtotalError reports a line item whose price times amount is zero.
type ZeroSubtotalError struct {
	Row       int
	Index     int // 1-based item block
	ProductID string
	Amount    string
	UnitPrice string
}

// Error implements the error interface.
func (e *ZeroSubtotalError) Error() string {
	return fmt.Sprintf("subtotal is zero for item %d (%s: %s x %s) in row %d",
		e.Index, e.ProductID, e.Amount, e.UnitPrice, e.Row)
}

// Is matches ErrZeroSubtotal.
func (e *ZeroSubtotalError) Is(target error) bool { return target == ErrZeroSubtotal }

// SequenceOverflowError reports the 100th generated id of a month bucket.
type SequenceOverflowError struct {
	Row    int
	Bucket string // YYYYMM
}

// Error implements the error interface.
func (e *SequenceOverflowError) Error() string {
	return fmt.Sprintf("more than %d invoices in %s, row %d", MaxSequence, e.Bucket, e.Row)
}

// Is matches ErrSequenceOverflow.
func (e *SequenceOverflowError) Is(target error) bool { return target == ErrSequenceOverflow }

// DuplicateInvoiceIDError reports an invoice id already used earlier in the batch.
type DuplicateInvoiceIDError struct {
	Row       int
	FirstRow  int
	InvoiceID string
}

// Error implements the error interface.
func (e *DuplicateInvoiceIDError) Error() string {
	return fmt.Sprintf("duplicated invoice id %s in row %d (first used in row %d)", e.InvoiceID, e.Row, e.FirstRow)
}

// Is matches ErrDuplicateInvoiceID.
func (e *DuplicateInvoiceIDError) Is(target error) bool { return target == ErrDuplicateInvoiceID }

// NonMonotonicIDError reports an invoice id lower than the previous row's id.
type NonMonotonicIDError struct {
	Row      int
	Previous string
	Current  string
}

// Error implements the error interface.
func (e *NonMonotonicIDError) Error() string {
	return fmt.Sprintf("invoice id %s in row %d is lower than previous invoice %s", e.Current, e.Row, e.Previous)
}

// Is matches ErrNonMonotonicID.
func (e *NonMonotonicIDError) Is(target error) bool { return target == ErrNonMonotonicID }

// NonMonotonicDateError reports an invoice date before the previous row's date.
type NonMonotonicDateError struct {
	Row      int
	Previous string
	Current  string
}

// Error implements the error interface.
func (e *NonMonotonicDateError) Error() string {
	return fmt.Sprintf("invoice date %s in row %d is before previous invoice date %s", e.Current, e.Row, e.Previous)
}

// Is matches ErrNonMonotonicDate.
func (e *NonMonotonicDateError) Is(target error) bool { return target == ErrNonMonotonicDate }

// InvalidAmountError reports an amount, price or total cell that cannot be read.
type InvalidAmountError struct {
	Row   int
	Index int // 1-based item block, 0 for the Total cell
	Field string
	Value string
	Err   error
}

// Error implements the error interface.
func (e *InvalidAmountError) Error() string {
	msg := fmt.Sprintf("invalid %s %q in row %d", e.Field, e.Value, e.Row)
	if e.Index > 0 {
		msg = fmt.Sprintf("invalid %s %q for item %d in row %d", e.Field, e.Value, e.Index, e.Row)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for error unwrapping.
func (e *InvalidAmountError) Unwrap() error { return e.Err }

// Is matches ErrInvalidAmount.
func (e *InvalidAmountError) Is(target error) bool { return target == ErrInvalidAmount }

// InvalidDateError reports a date cell that is not DD.MM.YYYY.
type InvalidDateError struct {
	Row   int
	Field string
	Value string
}

// Error implements the error interface.
func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid %s %q in row %d, expected DD.MM.YYYY", e.Field, e.Value, e.Row)
}

// Is matches ErrInvalidDate.
func (e *InvalidDateError) Is(target error) bool { return target == ErrInvalidDate }

// InvalidInvoiceIDError reports a supplied invoice id that is not a number.
type InvalidInvoiceIDError struct {
	Row   int
	Value string
}

// Error implements the error interface.
func (e *InvalidInvoiceIDError) Error() string {
	return fmt.Sprintf("invalid invoice id %q in row %d, expected digits only", e.Value, e.Row)
}

// Is matches ErrInvalidInvoiceID.
func (e *InvalidInvoiceIDError) Is(target error) bool { return target == ErrInvalidInvoiceID }

// TotalMismatchError reports a Total cell that differs from the sum of the line items.
type TotalMismatchError struct {
	Row      int
	Expected string // as written in the sheet
	Computed string
}

// Error implements the error interface.
func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("total %q in row %d does not match line items (%s)", e.Expected, e.Row, e.Computed)
}

// Is matches ErrTotalMismatch.
func (e *TotalMismatchError) Is(target error) bool { return target == ErrTotalMismatch }
