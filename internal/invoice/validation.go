package invoice

import (
	"strconv"

	"github.com/shopspring/decimal"

	"invoicer/internal/currency"
	"invoicer/pkg/models"
)

// LineSubtotal returns unit price times amount for the item at the 1-based index.
// The amount must be a non-negative integer and the product must not be zero.
func LineSubtotal(row, index int, item models.LineItem) (decimal.Decimal, error) {
	amount, err := strconv.Atoi(item.Amount)
	if err != nil || amount < 0 {
		return decimal.Zero, &InvalidAmountError{Row: row, Index: index, Field: "amount", Value: item.Amount, Err: err}
	}

	price, err := currency.Parse(item.UnitPrice)
	if err != nil {
		return decimal.Zero, &InvalidAmountError{Row: row, Index: index, Field: "price", Value: item.UnitPrice, Err: err}
	}

	subtotal := price.Mul(decimal.NewFromInt(int64(amount)))
	if subtotal.IsZero() {
		return decimal.Zero, &ZeroSubtotalError{
			Row:       row,
			Index:     index,
			ProductID: item.ProductID,
			Amount:    item.Amount,
			UnitPrice: item.UnitPrice,
		}
	}
	return subtotal, nil
}

// OrderTotal sums the subtotals of all line items of an order
func OrderTotal(order *models.Order) (decimal.Decimal, error) {
	sum := decimal.Zero
	for i, item := range order.Items {
		subtotal, err := LineSubtotal(order.Row, i+1, item)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(subtotal)
	}
	return currency.Round(sum), nil
}

// checkExpectedTotal compares the optional Total cell with the computed total
func checkExpectedTotal(order *models.Order, total decimal.Decimal) error {
	if order.ExpectedTotal == "" {
		return nil
	}

	expected, err := currency.Parse(order.ExpectedTotal)
	if err != nil {
		return &InvalidAmountError{Row: order.Row, Field: "total", Value: order.ExpectedTotal, Err: err}
	}
	if !expected.Equal(total) {
		return &TotalMismatchError{
			Row:      order.Row,
			Expected: order.ExpectedTotal,
			Computed: currency.Format(total),
		}
	}
	return nil
}
