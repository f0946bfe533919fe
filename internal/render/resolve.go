package render

import (
	"time"

	"invoicer/internal/currency"
	"invoicer/internal/invoice"
	"invoicer/pkg/models"
)

// References is the reference data of one run
type References struct {
	Company   models.Company
	Products  map[string]models.Product
	Customers map[string]models.Customer
}

// Line is one printed row of the items table
type Line struct {
	Description string
	Amount      string
	Unit        string
	UnitPrice   string
	Total       string
}

// Invoice is a numbered order with every reference resolved, ready to print
type Invoice struct {
	Order    *models.Order
	Company  models.Company
	Customer models.Customer
	Lines    []Line

	IssuedAt      time.Time
	ServicePeriod string // execution month, e.g. "März 2024"

	// Notice is the VAT notice; empty when the procedure is unknown
	Notice      string
	NoticeKnown bool
}

// FileName returns the output name of the invoice document
func (inv *Invoice) FileName() string {
	return inv.Order.InvoiceID + ".pdf"
}

// Resolve looks up the customer and every product of a numbered order.
// The order itself is left untouched.
func Resolve(order *models.Order, refs *References) (*Invoice, error) {
	customer, ok := refs.Customers[order.CustomerID]
	if !ok {
		return nil, &UnresolvedReferenceError{Kind: "customer", ID: order.CustomerID, Row: order.Row}
	}

	lines := make([]Line, 0, len(order.Items))
	for i, item := range order.Items {
		product, ok := refs.Products[item.ProductID]
		if !ok {
			return nil, &UnresolvedReferenceError{Kind: "product", ID: item.ProductID, Row: order.Row, Index: i + 1}
		}

		subtotal, err := invoice.LineSubtotal(order.Row, i+1, item)
		if err != nil {
			return nil, err
		}
		unitPrice, err := currency.Normalize(item.UnitPrice)
		if err != nil {
			return nil, err
		}

		lines = append(lines, Line{
			Description: product.Description,
			Amount:      item.Amount,
			Unit:        product.Unit,
			UnitPrice:   unitPrice,
			Total:       currency.Format(subtotal),
		})
	}

	issuedAt, err := invoice.ParseDate(order.InvoiceDate)
	if err != nil {
		return nil, &invoice.InvalidDateError{Row: order.Row, Field: "invoice date", Value: order.InvoiceDate}
	}
	executedAt, err := invoice.ParseDate(order.ExecutionDate)
	if err != nil {
		return nil, &invoice.InvalidDateError{Row: order.Row, Field: "execution date", Value: order.ExecutionDate}
	}

	notice, known := VatNotice(customer.VatProcedure)

	return &Invoice{
		Order:         order,
		Company:       refs.Company,
		Customer:      customer,
		Lines:         lines,
		IssuedAt:      issuedAt,
		ServicePeriod: MonthYear(executedAt),
		Notice:        notice,
		NoticeKnown:   known,
	}, nil
}
