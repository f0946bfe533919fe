package currency_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicer/internal/currency"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"comma decimals", "10,50", "10.5"},
		{"grouped with symbol", "1 234,56 €", "1234.56"},
		{"dot grouping", "1.234,56", "1234.56"},
		{"no-break space grouping", "1\u00a0234,00 €", "1234"},
		{"integer", "12", "12"},
		{"trailing comma", "10,", "10"},
		{"leading comma", ",5", "0.5"},
		{"leading minus", "-3,2", "-3.2"},
		{"parentheses", "(3,20)", "-3.2"},
		{"half up", "0,005", "0.01"},
		{"below half", "0,004", "0"},
		{"surrounding blanks", "  7,00 €  ", "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := currency.Parse(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "1,2,3", "1-2", "12 USD", "€"} {
		t.Run(input, func(t *testing.T) {
			_, err := currency.Parse(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, currency.ErrInvalidAmount)
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"31.5", "31,50 €"},
		{"0", "0,00 €"},
		{"999", "999,00 €"},
		{"1000", "1 000,00 €"},
		{"1234567.891", "1 234 567,89 €"},
		{"2.675", "2,68 €"},
		{"-1234.5", "-1 234,50 €"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, currency.Format(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for cents := int64(-250_000); cents <= 250_000; cents += 1237 {
		amount := decimal.New(cents, -2)
		parsed, err := currency.Parse(currency.Format(amount))
		require.NoError(t, err)
		assert.True(t, parsed.Equal(amount), "round trip of %s gave %s", amount, parsed)
	}
}

func TestLineSubtotal(t *testing.T) {
	price, err := currency.Parse("10,50")
	require.NoError(t, err)

	assert.Equal(t, "31,50 €", currency.Format(price.Mul(decimal.NewFromInt(3))))
}

func TestRound_HalfUp(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0.005", "0.01"},
		{"1.005", "1.01"},
		{"0.004", "0"},
		{"-0.005", "0"},
		{"-0.015", "-0.01"},
		{"-0.016", "-0.02"},
		{"-1.234", "-1.23"},
		{"12.5", "12.5"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := currency.Round(decimal.RequireFromString(tt.input))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestFromFloat(t *testing.T) {
	assert.Equal(t, "0,30 €", currency.Format(currency.FromFloat(0.1+0.2)))
}

func TestNormalize(t *testing.T) {
	got, err := currency.Normalize("1234,5")
	require.NoError(t, err)
	assert.Equal(t, "1 234,50 €", got)

	_, err = currency.Normalize("n/a")
	assert.ErrorIs(t, err, currency.ErrInvalidAmount)
}

func ExampleFormat() {
	amount, _ := currency.Parse("1234,5")
	fmt.Println(currency.Format(amount))
	// Output: 1 234,50 €
}

func ExampleParse() {
	amount, err := currency.Parse("1 234,56 €")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(amount.StringFixed(2))
	// Output: 1234.56
}
