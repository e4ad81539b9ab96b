package money

import "github.com/shopspring/decimal"

// Amount converts a cents value into a decimal amount for API payloads.
func Amount(cents int) decimal.Decimal {
	return decimal.NewFromInt(int64(cents)).Div(decimal.NewFromInt(100))
}

// String renders a cents value with two decimal places.
func String(cents int) string {
	return Amount(cents).StringFixed(2)
}
