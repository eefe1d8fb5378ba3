// Package money formats amounts for user-facing text.
package money

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Format rounds d to whole units and groups thousands with commas: 1234567.8 -> "1,234,568".
func Format(d decimal.Decimal) string {
	return humanize.Comma(d.Round(0).IntPart())
}

// FormatWith appends the currency symbol: "1,500 ₸".
func FormatWith(d decimal.Decimal, symbol string) string {
	if symbol == "" {
		return Format(d)
	}
	return Format(d) + " " + symbol
}

// Signed prefixes income with "+" and expense with "-".
func Signed(d decimal.Decimal, income bool, symbol string) string {
	sign := "-"
	if income {
		sign = "+"
	}
	return sign + FormatWith(d.Abs(), symbol)
}

// Percent returns part/total*100 rounded to one decimal place, or zero when total is zero.
func Percent(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(decimal.NewFromInt(100)).Round(1)
}
