package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const CurrencyCode = "PKR"

// Format renders amount with thousands separators and a fixed number of decimals.
// decimal does the half-up rounding; the printer only groups digits.
func Format(amount float64, places int32) string {
	fixed := decimal.NewFromFloat(amount).Round(places).InexactFloat64()
	return message.NewPrinter(language.English).Sprint(number.Decimal(fixed, number.Scale(int(places))))
}

// FormatPKR formats a whole-rupee amount the way printed invoices show it.
func FormatPKR(amount float64) string {
	return CurrencyCode + " " + Format(amount, 0)
}

// Sum adds amounts in decimal space and returns the float result. It is used for
// report totals only; invoice arithmetic stays in float64 to match the printed figures.
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(decimal.NewFromFloat(amount))
	}
	return total.InexactFloat64()
}
