package render_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicer/internal/render"
	"invoicer/pkg/models"
)

func references() *render.References {
	return &render.References{
		Company: models.Company{
			Name:      "Muster Consulting GmbH",
			Address:   "Musterweg 5",
			CP:        "80331",
			City:      "München",
			Country:   "Deutschland",
			VatID:     "DE999999999",
			Telephone: "+49 89 123456",
			Mail:      "rechnung@example.de",
			Bank:      "Musterbank",
			IBAN:      "DE02120300000000202051",
			BIC:       "BYLADEM1001",
		},
		Products: map[string]models.Product{
			"P1": {ID: "P1", Description: "Beratung", Unit: "Std"},
			"P2": {ID: "P2", Description: "Reisekostenpauschale für Vor-Ort-Termine beim Kunden", Unit: "Stk"},
		},
		Customers: map[string]models.Customer{
			"RC": {ID: "RC", BusinessName: "Acme B.V.", Address: "Keizersgracht 1", CP: "1015", City: "Amsterdam",
				Country: "Niederlande", VatID: "NL123456789B01", VatProcedure: models.VatReverseCharge},
			"KU": {ID: "KU", BusinessName: "Kiosk Meier", Address: "Hauptstraße 1", CP: "10115", City: "Berlin",
				Country: "Deutschland", VatProcedure: models.VatKleinunternehmer},
			"XX": {ID: "XX", BusinessName: "Other Ltd", Address: "1 High St", CP: "EC1A", City: "London",
				Country: "UK", VatProcedure: "Standard"},
		},
	}
}

func numberedOrder(customerID string) *models.Order {
	return &models.Order{
		Row:           2,
		Run:           "TRUE",
		InvoiceID:     "20240301",
		InvoiceDate:   "05.03.2024",
		ExecutionDate: "29.02.2024",
		CustomerID:    customerID,
		Items: []models.LineItem{
			{ProductID: "P1", Amount: "3", UnitPrice: "10,50"},
			{ProductID: "P2", Amount: "1", UnitPrice: "1200"},
		},
		Total: "1 231,50 €",
	}
}

func TestVatNotice(t *testing.T) {
	notice, ok := render.VatNotice("Reverse Charge")
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(notice, "Reverse Charge:"))

	notice, ok = render.VatNotice("Kleinunternehmerregelung")
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(notice, "Gemäß § 19"))

	notice, ok = render.VatNotice("reverse charge")
	assert.False(t, ok)
	assert.Empty(t, notice)
}

func TestMonthYear(t *testing.T) {
	assert.Equal(t, "März 2024", render.MonthYear(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Januar 2025", render.MonthYear(time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Dezember 1999", render.MonthYear(time.Date(1999, time.December, 24, 0, 0, 0, 0, time.UTC)))
}

func TestResolve(t *testing.T) {
	order := numberedOrder("RC")
	before := *order
	before.Items = append([]models.LineItem(nil), order.Items...)

	inv, err := render.Resolve(order, references())
	require.NoError(t, err)

	assert.Equal(t, "Acme B.V.", inv.Customer.BusinessName)
	assert.Equal(t, "Februar 2024", inv.ServicePeriod)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), inv.IssuedAt)
	assert.True(t, inv.NoticeKnown)
	assert.True(t, strings.HasPrefix(inv.Notice, "Reverse Charge:"))
	assert.Equal(t, "20240301.pdf", inv.FileName())

	require.Len(t, inv.Lines, 2)
	assert.Equal(t, render.Line{
		Description: "Beratung",
		Amount:      "3",
		Unit:        "Std",
		UnitPrice:   "10,50 €",
		Total:       "31,50 €",
	}, inv.Lines[0])
	assert.Equal(t, "1 200,00 €", inv.Lines[1].UnitPrice)

	assert.Equal(t, before, *order)
}

func TestResolve_UnknownProcedure(t *testing.T) {
	inv, err := render.Resolve(numberedOrder("XX"), references())
	require.NoError(t, err)
	assert.False(t, inv.NoticeKnown)
	assert.Empty(t, inv.Notice)
}

func TestResolve_UnresolvedReferences(t *testing.T) {
	t.Run("customer", func(t *testing.T) {
		_, err := render.Resolve(numberedOrder("NOPE"), references())

		var unresolved *render.UnresolvedReferenceError
		require.ErrorAs(t, err, &unresolved)
		assert.Equal(t, "customer", unresolved.Kind)
		assert.Equal(t, "NOPE", unresolved.ID)
		assert.Equal(t, 2, unresolved.Row)
	})

	t.Run("product", func(t *testing.T) {
		order := numberedOrder("RC")
		order.Items = append(order.Items, models.LineItem{ProductID: "P9", Amount: "1", UnitPrice: "1,00"})

		_, err := render.Resolve(order, references())

		var unresolved *render.UnresolvedReferenceError
		require.ErrorAs(t, err, &unresolved)
		assert.Equal(t, "product", unresolved.Kind)
		assert.Equal(t, "P9", unresolved.ID)
		assert.Equal(t, 3, unresolved.Index)
		assert.ErrorIs(t, err, render.ErrUnresolvedReference)
	})
}

func TestRender(t *testing.T) {
	inv, err := render.Resolve(numberedOrder("KU"), references())
	require.NoError(t, err)

	doc, err := render.NewRenderer().Render(inv)
	require.NoError(t, err)

	assert.Equal(t, "20240301.pdf", doc.FileName)
	assert.Equal(t, "application/pdf", doc.MimeType)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF")), "output is not a PDF")
}

func TestRender_Deterministic(t *testing.T) {
	renderer := render.NewRenderer()

	renderOnce := func() []byte {
		inv, err := render.Resolve(numberedOrder("RC"), references())
		require.NoError(t, err)
		doc, err := renderer.Render(inv)
		require.NoError(t, err)
		return doc.Data
	}

	first := renderOnce()
	second := renderOnce()
	assert.True(t, bytes.Equal(first, second), "rendering the same invoice twice gave different bytes")
}

func TestRender_ManyItems(t *testing.T) {
	order := numberedOrder("XX")
	order.Items = nil
	for i := 0; i < 60; i++ {
		order.Items = append(order.Items, models.LineItem{ProductID: "P1", Amount: fmt.Sprint(i + 1), UnitPrice: "1,00"})
	}

	inv, err := render.Resolve(order, references())
	require.NoError(t, err)

	doc, err := render.NewRenderer().Render(inv)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Data)
}
