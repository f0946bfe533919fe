package mapper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicer/internal/mapper"
	"invoicer/pkg/models"
)

// row builds a data row from header/value pairs
func row(index int, pairs ...string) *models.Row {
	var headers, values []string
	for i := 0; i+1 < len(pairs); i += 2 {
		headers = append(headers, pairs[i])
		values = append(values, pairs[i+1])
	}
	return models.NewRow("Test", index, index+2, headers, values)
}

func customerRow(index int, id, vatID, procedure string) *models.Row {
	return row(index,
		"Customer Id", id,
		"Customer Name", "Erika Mustermann",
		"Business Name", "Muster GmbH",
		"Address", "Hauptstraße 1",
		"CP", "10115",
		"Country", "Deutschland",
		"City", "Berlin",
		"Vat ID", vatID,
		"Vat Procedure", procedure,
	)
}

func TestMap_Product(t *testing.T) {
	r := row(0, "Product Id", "P1", "Product Description DE", "Beratung", "Product Unit", "Std")

	p, err := mapper.Map(mapper.KindProduct, mapper.ProductFields, r)
	require.NoError(t, err)
	assert.Equal(t, models.Product{ID: "P1", Description: "Beratung", Unit: "Std"}, p)
}

func TestMap_MissingField(t *testing.T) {
	tests := []struct {
		name   string
		row    *models.Row
		field  string
		header string
	}{
		{
			name:   "blank cell",
			row:    row(3, "Product Id", "P1", "Product Description DE", "  ", "Product Unit", "Std"),
			field:  "description",
			header: "Product Description DE",
		},
		{
			name:   "absent column",
			row:    row(3, "Product Id", "P1", "Product Description DE", "Beratung"),
			field:  "unit",
			header: "Product Unit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := mapper.Map(mapper.KindProduct, mapper.ProductFields, tt.row)
			require.Error(t, err)
			assert.Equal(t, models.Product{}, p)

			var missing *mapper.MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, mapper.KindProduct, missing.Kind)
			assert.Equal(t, tt.field, missing.Field)
			assert.Equal(t, tt.header, missing.Header)
			assert.Equal(t, 3, missing.Row)
			assert.ErrorIs(t, err, mapper.ErrMissingField)
		})
	}
}

func TestMap_CustomerOptionalVatID(t *testing.T) {
	c, err := mapper.Map(mapper.KindCustomer, mapper.CustomerFields, customerRow(0, "C1", "", models.VatKleinunternehmer))
	require.NoError(t, err)
	assert.Equal(t, "C1", c.ID)
	assert.Empty(t, c.VatID)
	assert.Equal(t, models.VatKleinunternehmer, c.VatProcedure)

	_, err = mapper.Map(mapper.KindCustomer, mapper.CustomerFields, customerRow(1, "C2", "DE123", ""))
	var missing *mapper.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "vatProcedure", missing.Field)
	assert.Equal(t, 1, missing.Row)
}

func TestProducts_LaterDuplicateWins(t *testing.T) {
	rows := []*models.Row{
		row(0, "Product Id", "P1", "Product Description DE", "Alt", "Product Unit", "Stk"),
		row(1, "Product Id", "P2", "Product Description DE", "Zwei", "Product Unit", "Stk"),
		row(2, "Product Id", "P1", "Product Description DE", "Neu", "Product Unit", "Std"),
	}

	products, err := mapper.Products(rows)
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, "Neu", products["P1"].Description)
}

func TestCustomers(t *testing.T) {
	customers, err := mapper.Customers([]*models.Row{
		customerRow(0, "C1", "DE1", models.VatReverseCharge),
		customerRow(1, "C2", "", models.VatKleinunternehmer),
	})
	require.NoError(t, err)
	assert.Len(t, customers, 2)
	assert.Equal(t, "DE1", customers["C1"].VatID)

	_, err = mapper.Customers([]*models.Row{customerRow(0, "", "", models.VatReverseCharge)})
	assert.ErrorIs(t, err, mapper.ErrMissingField)
}

func companyRow(index int, name string) *models.Row {
	return row(index,
		"Name", name,
		"Address", "Musterweg 5",
		"CP", "80331",
		"City", "München",
		"Country", "Deutschland",
		"Vat ID", "DE999999999",
		"Telephone", "+49 89 123456",
		"Mail", "info@example.de",
		"Bank", "Musterbank",
		"IBAN", "DE02120300000000202051",
		"BIC", "BYLADEM1001",
	)
}

func TestCompanyRecord(t *testing.T) {
	company, err := mapper.CompanyRecord([]*models.Row{companyRow(0, "Erste GmbH"), companyRow(1, "Zweite GmbH")})
	require.NoError(t, err)
	assert.Equal(t, "Erste GmbH", company.Name)
	assert.Equal(t, "BYLADEM1001", company.BIC)
}

func TestCompanyRecord_AllFieldsRequired(t *testing.T) {
	_, err := mapper.CompanyRecord([]*models.Row{companyRow(0, "Erste GmbH"), companyRow(1, "")})

	var missing *mapper.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, mapper.KindCompany, missing.Kind)
	assert.Equal(t, "name", missing.Field)
	assert.Equal(t, 1, missing.Row)
}

func TestCompanyRecord_EmptyTab(t *testing.T) {
	_, err := mapper.CompanyRecord(nil)

	var missing *mapper.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, mapper.KindCompany, missing.Kind)
}

func TestOrder(t *testing.T) {
	r := row(4,
		"Run", "TRUE",
		"Invoice ID", "",
		"Invoice Date", "",
		"Execution Date", "15.03.2024",
		"Customer", "C1",
		"Product 1", "P1", "Amount 1", "3", "Price 1", "10,50",
		"Product 2", "P2", "Amount 2", "1", "Price 2", "99,00 €",
	)

	order, err := mapper.Order(r)
	require.NoError(t, err)
	assert.Equal(t, 4, order.Row)
	assert.Equal(t, "C1", order.CustomerID)
	assert.Empty(t, order.InvoiceID)
	assert.Empty(t, order.InvoiceDate)
	assert.True(t, order.RunRequested())
	require.Len(t, order.Items, 2)
	assert.Equal(t, models.LineItem{ProductID: "P2", Amount: "1", UnitPrice: "99,00 €"}, order.Items[1])
}

func TestOrder_RunColumnRequired(t *testing.T) {
	r := row(0, "Run", "", "Execution Date", "15.03.2024", "Customer", "C1")

	_, err := mapper.Order(r)
	var missing *mapper.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "run", missing.Field)
}
