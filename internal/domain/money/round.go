// Package money holds the rounding and formatting rules shared by payroll and invoicing.
package money

import "math"

// RoundHalfUp rounds to the nearest integer with ties going toward positive infinity,
// so -2.5 rounds to -2 and 2.5 rounds to 3.
func RoundHalfUp(amount float64) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return amount
	}
	whole := math.Floor(amount)
	if amount-whole >= 0.5 {
		return whole + 1
	}
	return whole
}

// RoundInvoiceAmount applies the three-zone rule used for invoice grand totals:
// fractions below .50 go down, fractions above .60 go up and anything in
// [.50, .60] is rounded to the nearest unit.
func RoundInvoiceAmount(amount float64) float64 {
	frac := amount - math.Floor(amount)
	switch {
	case frac > 0.60:
		return math.Ceil(amount)
	case frac < 0.50:
		return math.Floor(amount)
	default:
		return RoundHalfUp(amount)
	}
}
