package mapper

import "invoicer/pkg/models"

// Record kinds used in errors and log lines
const (
	KindProduct  = "product"
	KindCustomer = "customer"
	KindCompany  = "company"
	KindOrder    = "order"
)

// Column headers of the Orders tab
const (
	HeaderRun           = "Run"
	HeaderInvoiceID     = "Invoice ID"
	HeaderInvoiceDate   = "Invoice Date"
	HeaderExecutionDate = "Execution Date"
	HeaderCustomer      = "Customer"
	HeaderTotal         = "Total"
)

// ProductFields maps the Products tab
var ProductFields = []Field[models.Product]{
	{Name: "id", Header: "Product Id", Set: func(p *models.Product, v string) { p.ID = v }},
	{Name: "description", Header: "Product Description DE", Set: func(p *models.Product, v string) { p.Description = v }},
	{Name: "unit", Header: "Product Unit", Set: func(p *models.Product, v string) { p.Unit = v }},
}

// CustomerFields maps the Customers tab
var CustomerFields = []Field[models.Customer]{
	{Name: "id", Header: "Customer Id", Set: func(c *models.Customer, v string) { c.ID = v }},
	{Name: "businessName", Header: "Business Name", Set: func(c *models.Customer, v string) { c.BusinessName = v }},
	{Name: "address", Header: "Address", Set: func(c *models.Customer, v string) { c.Address = v }},
	{Name: "cp", Header: "CP", Set: func(c *models.Customer, v string) { c.CP = v }},
	{Name: "city", Header: "City", Set: func(c *models.Customer, v string) { c.City = v }},
	{Name: "country", Header: "Country", Set: func(c *models.Customer, v string) { c.Country = v }},
	{Name: "vatId", Header: "Vat ID", Optional: true, Set: func(c *models.Customer, v string) { c.VatID = v }},
	{Name: "vatProcedure", Header: "Vat Procedure", Set: func(c *models.Customer, v string) { c.VatProcedure = v }},
}

// CompanyFields maps the Company tab; nothing is optional
var CompanyFields = []Field[models.Company]{
	{Name: "name", Header: "Name", Set: func(c *models.Company, v string) { c.Name = v }},
	{Name: "address", Header: "Address", Set: func(c *models.Company, v string) { c.Address = v }},
	{Name: "cp", Header: "CP", Set: func(c *models.Company, v string) { c.CP = v }},
	{Name: "city", Header: "City", Set: func(c *models.Company, v string) { c.City = v }},
	{Name: "country", Header: "Country", Set: func(c *models.Company, v string) { c.Country = v }},
	{Name: "vatId", Header: "Vat ID", Set: func(c *models.Company, v string) { c.VatID = v }},
	{Name: "telephone", Header: "Telephone", Set: func(c *models.Company, v string) { c.Telephone = v }},
	{Name: "mail", Header: "Mail", Set: func(c *models.Company, v string) { c.Mail = v }},
	{Name: "bank", Header: "Bank", Set: func(c *models.Company, v string) { c.Bank = v }},
	{Name: "iban", Header: "IBAN", Set: func(c *models.Company, v string) { c.IBAN = v }},
	{Name: "bic", Header: "BIC", Set: func(c *models.Company, v string) { c.BIC = v }},
}

// OrderFields maps the fixed columns of the Orders tab. Line items are read
// separately by ExtractItems.
var OrderFields = []Field[models.Order]{
	{Name: "run", Header: HeaderRun, Set: func(o *models.Order, v string) { o.Run = v }},
	{Name: "invoiceId", Header: HeaderInvoiceID, Optional: true, Set: func(o *models.Order, v string) { o.InvoiceID = v }},
	{Name: "invoiceDate", Header: HeaderInvoiceDate, Optional: true, Set: func(o *models.Order, v string) { o.InvoiceDate = v }},
	{Name: "executionDate", Header: HeaderExecutionDate, Set: func(o *models.Order, v string) { o.ExecutionDate = v }},
	{Name: "customerId", Header: HeaderCustomer, Set: func(o *models.Order, v string) { o.CustomerID = v }},
	{Name: "total", Header: HeaderTotal, Optional: true, Set: func(o *models.Order, v string) { o.ExpectedTotal = v }},
}
