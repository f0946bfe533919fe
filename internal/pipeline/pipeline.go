// Package pipeline runs one invoice batch: it reads the reference tabs and the
// orders, numbers every order, renders a PDF per selected order, optionally
// delivers it and finally writes the assigned ids back.
//
// Nothing is written until the whole batch has been numbered and every
// selected order has resolved its customer and products, so a failing batch
// leaves the sheet untouched. The sheet is only changed once every invoice
// has been stored and delivered.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"invoicer/internal/invoice"
	"invoicer/internal/logger"
	"invoicer/internal/mapper"
	"invoicer/internal/render"
	"invoicer/pkg/models"
	"invoicer/pkg/services"
)

// NothingToGenerate is the result message of a batch without selected orders
const NothingToGenerate = "Nothing to generate, run again after marking the 'Run' checkbox in some orders of the spreadsheet."

// Tabs names the four tabs of the spreadsheet
type Tabs struct {
	Products  string
	Customers string
	Company   string
	Orders    string
}

// DefaultTabs returns the usual tab names
func DefaultTabs() Tabs {
	return Tabs{
		Products:  "Products",
		Customers: "Customers",
		Company:   "Company",
		Orders:    "Orders",
	}
}

// Options controls one run
type Options struct {
	Tabs      Tabs
	OutputDir string
	Upload    bool
	Workers   int // render/deliver concurrency, 1 or less is sequential
	DryRun    bool

	SeedFromExistingIDs bool
}

// Pipeline wires a row source, the renderer and an optional delivery sink
type Pipeline struct {
	source   services.RowSource
	sink     services.DeliverySink
	renderer *render.Renderer
	opts     Options
	now      func() time.Time
}

// Option is a functional option for configuring Pipeline
type Option func(*Pipeline)

// WithSink sets the delivery sink used when upload is on
func WithSink(sink services.DeliverySink) Option {
	return func(p *Pipeline) {
		p.sink = sink
	}
}

// WithClock replaces the clock that provides the default invoice date
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New creates a pipeline
func New(source services.RowSource, opts Options, options ...Option) *Pipeline {
	p := &Pipeline{
		source:   source,
		renderer: render.NewRenderer(),
		opts:     opts,
		now:      time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Generated is one invoice of a run
type Generated struct {
	Invoice  *render.Invoice
	Path     string                   // local file, empty on dry runs
	Delivery *services.DeliveryResult // nil when not uploaded
}

// Report is the outcome of a run
type Report struct {
	RunID    string
	Orders   int
	Invoices []Generated
	Uploaded bool
	DryRun   bool
	Message  string
}

// Run executes one batch
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	const op = "Run"

	if p.opts.Upload && !p.opts.DryRun && p.sink == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNoSink)
	}

	runID := uuid.NewString()
	ctx = logger.ToContext(ctx, logger.WithRunID(runID))
	log := logger.FromContext(ctx, "pipeline")

	log.Info().
		Bool("upload", p.opts.Upload).
		Bool("dry_run", p.opts.DryRun).
		Msg("Starting invoice batch")

	refs, err := p.loadReferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := p.source.Rows(ctx, p.opts.Tabs.Orders)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read orders: %w", op, err)
	}

	batch := invoice.NewBatch(p.now(), invoice.Options{SeedFromExistingIDs: p.opts.SeedFromExistingIDs}).
		WithLogger(logger.FromContext(ctx, "invoice"))
	result, err := batch.Process(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	report := &Report{RunID: runID, Orders: len(result.Orders), DryRun: p.opts.DryRun}

	if len(result.Selected) == 0 {
		report.Message = NothingToGenerate
		log.Info().Int("orders", report.Orders).Msg(report.Message)
		return report, nil
	}

	invoices := make([]*render.Invoice, 0, len(result.Selected))
	for _, order := range result.Selected {
		inv, err := render.Resolve(order, refs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		invoices = append(invoices, inv)
	}

	for _, inv := range invoices {
		if !inv.NoticeKnown {
			log.Warn().
				Str("invoice_id", inv.Order.InvoiceID).
				Str("customer", inv.Customer.ID).
				Str("vat_procedure", inv.Customer.VatProcedure).
				Msg("Unknown VAT procedure, invoice has no VAT notice")
		}
	}

	if p.opts.DryRun {
		for _, inv := range invoices {
			report.Invoices = append(report.Invoices, Generated{Invoice: inv})
		}
		report.Message = fmt.Sprintf("%d invoice(s) would be generated", len(invoices))
		log.Info().Msg(report.Message)
		return report, nil
	}

	generated, err := p.produce(ctx, invoices)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// The sheet is updated last: a failed render or upload leaves the Run
	// cells set, and the retry assigns the same ids and overwrites the files.
	if err := p.writeBack(ctx, rows, result.Selected); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	report.Invoices = generated
	report.Uploaded = p.opts.Upload
	report.Message = resultMessage(len(generated), p.opts.Upload)

	log.Info().
		Int("invoices", len(generated)).
		Msg(report.Message)

	return report, nil
}

func resultMessage(n int, uploaded bool) string {
	msg := fmt.Sprintf("%d invoice(s) generated", n)
	if uploaded {
		msg += " and uploaded"
	}
	return msg
}

// loadReferences reads and maps the Company, Products and Customers tabs
func (p *Pipeline) loadReferences(ctx context.Context) (*render.References, error) {
	const op = "loadReferences"

	read := func(tab string) ([]*models.Row, error) {
		rows, err := p.source.Rows(ctx, tab)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read %s: %w", op, tab, err)
		}
		return rows, nil
	}

	companyRows, err := read(p.opts.Tabs.Company)
	if err != nil {
		return nil, err
	}
	company, err := mapper.CompanyRecord(companyRows)
	if err != nil {
		return nil, err
	}

	productRows, err := read(p.opts.Tabs.Products)
	if err != nil {
		return nil, err
	}
	products, err := mapper.Products(productRows)
	if err != nil {
		return nil, err
	}

	customerRows, err := read(p.opts.Tabs.Customers)
	if err != nil {
		return nil, err
	}
	customers, err := mapper.Customers(customerRows)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx, "pipeline")
	log.Debug().
		Str("company", company.Name).
		Int("products", len(products)).
		Int("customers", len(customers)).
		Msg("Reference data loaded")

	return &render.References{Company: company, Products: products, Customers: customers}, nil
}

// writeBack clears the run-flag of every selected order and stores the id and
// date the batch assigned
func (p *Pipeline) writeBack(ctx context.Context, rows []*models.Row, selected []*models.Order) error {
	const op = "writeBack"

	byIndex := make(map[int]*models.Row, len(rows))
	for _, r := range rows {
		byIndex[r.Index] = r
	}

	for _, order := range selected {
		row, ok := byIndex[order.Row]
		if !ok {
			return fmt.Errorf("%s: row %d: %w", op, order.Row, ErrMissingRow)
		}

		row.Set(mapper.HeaderRun, "FALSE")
		if order.IDAssigned {
			row.Set(mapper.HeaderInvoiceID, order.InvoiceID)
		}
		if order.DateAssigned {
			row.Set(mapper.HeaderInvoiceDate, order.InvoiceDate)
		}

		if err := p.source.Save(ctx, row); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// produce renders, stores and delivers the invoices. Results keep the input order.
func (p *Pipeline) produce(ctx context.Context, invoices []*render.Invoice) ([]Generated, error) {
	const op = "produce"

	if err := os.MkdirAll(p.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: failed to create output directory: %w", op, err)
	}

	workers := p.opts.Workers
	if workers < 1 {
		workers = 1
	}

	out := make([]Generated, len(invoices))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, inv := range invoices {
		g.Go(func() error {
			generated, err := p.produceOne(gctx, inv)
			if err != nil {
				return err
			}
			out[i] = *generated
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (p *Pipeline) produceOne(ctx context.Context, inv *render.Invoice) (*Generated, error) {
	log := logger.FromContext(ctx, "pipeline")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := p.renderer.Render(inv)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(p.opts.OutputDir, doc.FileName)
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}

	generated := &Generated{Invoice: inv, Path: path}

	if p.opts.Upload {
		res, err := p.sink.Deliver(ctx, doc.FileName, doc.Data, doc.MimeType)
		if err != nil {
			return nil, err
		}
		generated.Delivery = res
	}

	logInvoice(log, generated)
	return generated, nil
}

func logInvoice(log zerolog.Logger, g *Generated) {
	ev := log.Info().
		Str("invoice_id", g.Invoice.Order.InvoiceID).
		Str("customer", g.Invoice.Customer.ID).
		Str("total", g.Invoice.Order.Total).
		Str("path", g.Path)
	if g.Delivery != nil {
		ev = ev.Str("delivery", g.Delivery.String())
	}
	ev.Msg("Invoice generated")
}
