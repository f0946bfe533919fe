// Package render prints numbered orders as A4 PDF invoices.
//
// The layout is fixed: issuer header, sender line, customer address,
// invoice metadata, the items table with its total, the VAT notice and
// closing text, and a footer with bank details on every page. Rendering the
// same invoice twice yields the same bytes; the PDF creation date is the
// invoice date, never the wall clock.
package render

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/rs/zerolog"

	"invoicer/internal/logger"
)

// MimeType of every rendered document
const MimeType = "application/pdf"

// Page geometry in millimetres
const (
	marginSide   = 16.8
	marginTop    = 24.3
	marginBottom = 10
	fontSize     = 10
)

// Document is a rendered invoice
type Document struct {
	FileName string
	MimeType string
	Data     []byte
}

// Renderer builds invoice PDFs
type Renderer struct {
	log zerolog.Logger
}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{log: logger.WithComponent("render")}
}

// Render lays out one resolved invoice
func (r *Renderer) Render(inv *Invoice) (*Document, error) {
	const op = "Render"

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(marginSide).
		WithRightMargin(marginSide).
		WithTopMargin(marginTop).
		WithBottomMargin(marginBottom).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: fontSize}).
		WithTitle("Rechnung "+inv.Order.InvoiceID, true).
		WithAuthor(inv.Company.Name, true).
		WithCreationDate(inv.IssuedAt).
		Build()

	m := maroto.New(cfg)

	if err := m.RegisterFooter(footerRows(inv.Company)...); err != nil {
		return nil, fmt.Errorf("%s: failed to register footer: %w", op, err)
	}

	m.AddRows(headerRows(inv.Company)...)
	m.AddRows(customerRows(inv.Customer)...)
	m.AddRows(metadataRows(inv)...)
	m.AddRows(tableRows(inv)...)
	m.AddRows(closingRows(inv)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to generate invoice %s: %w", op, inv.Order.InvoiceID, err)
	}

	data := doc.GetBytes()

	r.log.Debug().
		Str("invoice_id", inv.Order.InvoiceID).
		Int("lines", len(inv.Lines)).
		Int("bytes", len(data)).
		Msg("Invoice rendered")

	return &Document{
		FileName: inv.FileName(),
		MimeType: MimeType,
		Data:     data,
	}, nil
}
