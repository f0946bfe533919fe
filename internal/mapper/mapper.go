// Package mapper turns header-keyed sheet rows into typed records.
//
// Every record kind is described by an ordered list of fields, each naming the
// column it is read from and whether it may be blank. One generic routine
// consumes those lists, so mapping is all-or-fail per row: either every
// required column has a value or the row is rejected with a MissingFieldError.
package mapper

import (
	"invoicer/internal/logger"
	"invoicer/pkg/models"
)

// Field maps one column onto a record of type T.
type Field[T any] struct {
	Name     string
	Header   string
	Optional bool
	Set      func(rec *T, value string)
}

// Map fills a record from a row. It never returns a partially filled record.
func Map[T any](kind string, fields []Field[T], row *models.Row) (T, error) {
	var rec T
	for _, f := range fields {
		value := row.Get(f.Header)
		if value == "" && !f.Optional {
			var zero T
			return zero, &MissingFieldError{
				Kind:   kind,
				Field:  f.Name,
				Header: f.Header,
				Row:    row.Index,
			}
		}
		f.Set(&rec, value)
	}
	return rec, nil
}

// MapAll maps every row of a tab and stops at the first failure.
func MapAll[T any](kind string, fields []Field[T], rows []*models.Row) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		rec, err := Map(kind, fields, row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Products maps the Products tab and indexes it by product id.
// A repeated id keeps the later row.
func Products(rows []*models.Row) (map[string]models.Product, error) {
	log := logger.WithComponent("mapper")

	products, err := MapAll(KindProduct, ProductFields, rows)
	if err != nil {
		return nil, err
	}

	index := make(map[string]models.Product, len(products))
	for i, p := range products {
		if _, exists := index[p.ID]; exists {
			log.Warn().
				Str("product_id", p.ID).
				Int("row", rows[i].Index).
				Msg("Duplicate product id, using the later row")
		}
		index[p.ID] = p
	}
	return index, nil
}

// Customers maps the Customers tab and indexes it by customer id.
// A repeated id keeps the later row.
func Customers(rows []*models.Row) (map[string]models.Customer, error) {
	log := logger.WithComponent("mapper")

	customers, err := MapAll(KindCustomer, CustomerFields, rows)
	if err != nil {
		return nil, err
	}

	index := make(map[string]models.Customer, len(customers))
	for i, c := range customers {
		if _, exists := index[c.ID]; exists {
			log.Warn().
				Str("customer_id", c.ID).
				Int("row", rows[i].Index).
				Msg("Duplicate customer id, using the later row")
		}
		index[c.ID] = c
	}
	return index, nil
}

// CompanyRecord maps the Company tab. Every row must be complete; the first row is used.
func CompanyRecord(rows []*models.Row) (models.Company, error) {
	log := logger.WithComponent("mapper")

	if len(rows) == 0 {
		first := CompanyFields[0]
		return models.Company{}, &MissingFieldError{
			Kind:   KindCompany,
			Field:  first.Name,
			Header: first.Header,
			Row:    0,
		}
	}

	companies, err := MapAll(KindCompany, CompanyFields, rows)
	if err != nil {
		return models.Company{}, err
	}
	if len(companies) > 1 {
		log.Warn().
			Int("rows", len(companies)).
			Str("company", companies[0].Name).
			Msg("Company tab has more than one row, using the first")
	}
	return companies[0], nil
}

// Order maps an Orders row including its line items.
func Order(row *models.Row) (*models.Order, error) {
	order, err := Map(KindOrder, OrderFields, row)
	if err != nil {
		return nil, err
	}

	items, err := ExtractItems(row, DefaultItemPrefixes)
	if err != nil {
		return nil, err
	}

	order.Row = row.Index
	order.Items = items
	return &order, nil
}
