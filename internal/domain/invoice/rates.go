// Package invoice computes labor invoice totals and stores the generated invoices.
package invoice

// RateTable holds the contractual rates an invoice is priced with.
type RateTable struct {
	SkilledRate   float64 `json:"skilledRate"`
	UnskilledRate float64 `json:"unskilledRate"`
	EOBIRate      float64 `json:"eobiRate"`
	GSTRate       float64 `json:"gstRate"`
	ReferenceDays float64 `json:"referenceDays"`
}

func DefaultRates() RateTable {
	return RateTable{
		SkilledRate:   2624.00,
		UnskilledRate: 1636.36,
		EOBIRate:      2220.00,
		GSTRate:       0.15,
		ReferenceDays: 22,
	}
}

// GSTFraction converts a percentage such as 15 into the multiplier used by Settle.
// A nil percentage means the table default; an explicit zero is a zero-rated invoice.
func (r RateTable) GSTFraction(percent *float64) float64 {
	if percent == nil {
		return r.GSTRate
	}
	return *percent / 100
}

// GSTPercent is the inverse of GSTFraction for display and storage.
func (r RateTable) GSTPercent(percent *float64) float64 {
	if percent == nil {
		return r.GSTRate * 100
	}
	return *percent
}
