// Package invoice validates order rows and assigns invoice numbers.
//
// A Batch processes the Orders tab strictly in row order. For every row it
// computes the total, fills a missing invoice date with the run date, assigns
// the next id of the month bucket when the row has none, and enforces the
// ledger rules:
//   - invoice ids are unique within the batch
//   - ids and invoice dates never decrease from one row to the next
//   - a month bucket holds at most 99 generated ids (YYYYMM01 to YYYYMM99)
//
// Any violation aborts the batch. All numbering state lives in the Batch and
// is discarded after the run.
package invoice

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"invoicer/internal/currency"
	"invoicer/internal/logger"
	"invoicer/internal/mapper"
	"invoicer/pkg/models"
)

// Date formats used in the sheet and for invoice ids
const (
	DateLayout   = "02.01.2006" // written back and printed
	BucketLayout = "200601"     // YYYYMM prefix of generated ids
	MaxSequence  = 99

	// parse layout also accepts single-digit day and month
	dateParseLayout = "2.1.2006"
)

// Options tunes the numbering rules
type Options struct {
	// SeedFromExistingIDs lets a supplied id of the form YYYYMMnn raise the
	// counter of its bucket to nn, so that re-running a sheet which already
	// carries ids from earlier batches continues after them. When false,
	// supplied ids never touch the bucket counters.
	SeedFromExistingIDs bool
}

// Batch holds the numbering state of one run
type Batch struct {
	today time.Time
	opts  Options

	registry map[string]int // bucket -> last used sequence
	seen     map[string]int // invoice id -> row

	prevID   uint64
	prevDate time.Time
	hasPrev  bool

	log zerolog.Logger
}

// Result is the outcome of a successfully numbered batch
type Result struct {
	// Orders holds every order of the tab in row order
	Orders []*models.Order

	// Selected holds the orders whose run-flag is set
	Selected []*models.Order
}

// NewBatch starts a batch. today is the date given to orders without an invoice date.
func NewBatch(today time.Time, opts Options) *Batch {
	return &Batch{
		today:    today,
		opts:     opts,
		registry: make(map[string]int),
		seen:     make(map[string]int),
		log:      logger.WithComponent("invoice"),
	}
}

// WithLogger replaces the batch logger
func (b *Batch) WithLogger(log zerolog.Logger) *Batch {
	b.log = log
	return b
}

// Registry returns a copy of the bucket counters
func (b *Batch) Registry() map[string]int {
	out := make(map[string]int, len(b.registry))
	for k, v := range b.registry {
		out[k] = v
	}
	return out
}

// Process maps and numbers all order rows in the given order. It stops at the
// first invalid row and returns no result in that case.
func (b *Batch) Process(rows []*models.Row) (*Result, error) {
	result := &Result{}

	for _, row := range rows {
		order, err := mapper.Order(row)
		if err != nil {
			return nil, err
		}

		if err := b.Number(order); err != nil {
			return nil, err
		}

		result.Orders = append(result.Orders, order)
		if order.RunRequested() {
			result.Selected = append(result.Selected, order)
		}
	}

	b.log.Info().
		Int("orders", len(result.Orders)).
		Int("selected", len(result.Selected)).
		Interface("registry", b.registry).
		Msg("Numbered orders")

	return result, nil
}

// Number validates one mapped order and fills its total, invoice date and invoice id
func (b *Batch) Number(order *models.Order) error {
	total, err := OrderTotal(order)
	if err != nil {
		return err
	}
	if err := checkExpectedTotal(order, total); err != nil {
		return err
	}
	order.Total = currency.Format(total)

	if order.InvoiceDate == "" {
		order.InvoiceDate = b.today.Format(DateLayout)
		order.DateAssigned = true
	}
	invoiceDate, err := ParseDate(order.InvoiceDate)
	if err != nil {
		return &InvalidDateError{Row: order.Row, Field: "invoice date", Value: order.InvoiceDate}
	}
	if _, err := ParseDate(order.ExecutionDate); err != nil {
		return &InvalidDateError{Row: order.Row, Field: "execution date", Value: order.ExecutionDate}
	}

	bucket := invoiceDate.Format(BucketLayout)
	if order.InvoiceID == "" {
		next := b.registry[bucket] + 1
		if next > MaxSequence {
			return &SequenceOverflowError{Row: order.Row, Bucket: bucket}
		}
		b.registry[bucket] = next
		order.InvoiceID = fmt.Sprintf("%s%02d", bucket, next)
		order.IDAssigned = true
	} else if b.opts.SeedFromExistingIDs {
		b.seed(bucket, order.InvoiceID)
	}

	numericID, err := strconv.ParseUint(order.InvoiceID, 10, 64)
	if err != nil {
		return &InvalidInvoiceIDError{Row: order.Row, Value: order.InvoiceID}
	}

	if first, dup := b.seen[order.InvoiceID]; dup {
		return &DuplicateInvoiceIDError{Row: order.Row, FirstRow: first, InvoiceID: order.InvoiceID}
	}

	if b.hasPrev && numericID < b.prevID {
		return &NonMonotonicIDError{
			Row:      order.Row,
			Previous: strconv.FormatUint(b.prevID, 10),
			Current:  order.InvoiceID,
		}
	}

	if b.hasPrev && invoiceDate.Before(b.prevDate) {
		return &NonMonotonicDateError{
			Row:      order.Row,
			Previous: b.prevDate.Format(DateLayout),
			Current:  order.InvoiceDate,
		}
	}

	b.prevID = numericID
	b.prevDate = invoiceDate
	b.hasPrev = true
	b.seen[order.InvoiceID] = order.Row

	b.log.Debug().
		Int("row", order.Row).
		Str("invoice_id", order.InvoiceID).
		Str("invoice_date", order.InvoiceDate).
		Str("total", order.Total).
		Bool("id_assigned", order.IDAssigned).
		Msg("Order numbered")

	return nil
}

// seed raises the bucket counter past a supplied id that belongs to the bucket
func (b *Batch) seed(bucket, invoiceID string) {
	suffix, ok := strings.CutPrefix(invoiceID, bucket)
	if !ok || len(suffix) != 2 {
		return
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return
	}
	if n > b.registry[bucket] {
		b.log.Info().
			Str("bucket", bucket).
			Int("from", b.registry[bucket]).
			Int("to", n).
			Str("invoice_id", invoiceID).
			Msg("Bucket counter raised past supplied invoice id")
		b.registry[bucket] = n
	}
}

// ParseDate reads a DD.MM.YYYY sheet date
func ParseDate(value string) (time.Time, error) {
	return time.Parse(dateParseLayout, strings.TrimSpace(value))
}
