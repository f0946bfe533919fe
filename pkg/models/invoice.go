package models

import "strings"

// VAT procedure values as they appear in the Customers tab
const (
	VatReverseCharge    = "Reverse Charge"
	VatKleinunternehmer = "Kleinunternehmerregelung"
)

// Product is reference data from the Products tab
type Product struct {
	ID          string // Product Id
	Description string // German description printed on the invoice
	Unit        string // Unit printed next to the quantity (Stk, Std, ...)
}

// Customer is reference data from the Customers tab
type Customer struct {
	ID           string // Customer Id referenced by orders
	BusinessName string // First line of the address block
	Address      string // Street and number
	CP           string // Postal code
	City         string
	Country      string
	VatID        string // Optional
	VatProcedure string // Selects the legal VAT notice
}

// Company is the issuing company, read from the single row of the Company tab
type Company struct {
	Name      string
	Address   string
	CP        string
	City      string
	Country   string
	VatID     string // USt-IdNr. printed in the footer
	Telephone string
	Mail      string
	Bank      string
	IBAN      string
	BIC       string
}

// LineItem is one Product/Amount/Price column block of an order row
type LineItem struct {
	ProductID string // Must resolve to a Product before rendering
	Amount    string // Positive integer, kept as the sheet text
	UnitPrice string // Currency string, e.g. "10,50 €"
}

// Order is one row of the Orders tab
type Order struct {
	// Position of the source row among the data rows of the tab
	Row int

	// Raw run-flag cell
	Run string

	InvoiceID     string // YYYYMM + 2-digit sequence, or supplied in the sheet
	InvoiceDate   string // DD.MM.YYYY
	ExecutionDate string // DD.MM.YYYY, printed as month and year
	CustomerID    string
	Items         []LineItem

	// Total is the formatted sum of all line items
	Total string

	// ExpectedTotal is the optional Total cell of the row
	ExpectedTotal string

	// Set when the engine filled a blank cell
	IDAssigned   bool
	DateAssigned bool
}

// RunRequested reports whether the run-flag cell marks the order for generation
func (o *Order) RunRequested() bool {
	switch strings.ToLower(strings.TrimSpace(o.Run)) {
	case "true", "t", "1", "x", "yes", "ja":
		return true
	default:
		return false
	}
}
