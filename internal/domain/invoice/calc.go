package invoice

import "payscribe/internal/domain/money"

type InvoiceBreakdown struct {
	SkilledAmount   float64 `json:"skilledAmount"`
	UnskilledAmount float64 `json:"unskilledAmount"`
	SubTotal        float64 `json:"subTotal"`
	EOBIAmount      float64 `json:"eobiAmount"`
	TotalSum        float64 `json:"totalSum"`
	GSTAmount       float64 `json:"gstAmount"`
	TotalAmount     float64 `json:"totalAmount"`
}

// Settlement is the tail every invoice flow shares once its sub total is known.
type Settlement struct {
	SubTotal    float64 `json:"subTotal"`
	EOBIAmount  float64 `json:"eobiAmount"`
	TotalSum    float64 `json:"totalSum"`
	GSTAmount   float64 `json:"gstAmount"`
	TotalAmount float64 `json:"totalAmount"`
}

// Calculator is safe for concurrent use; it only reads its rate table.
type Calculator struct {
	rates RateTable
}

func NewCalculator(rates RateTable) Calculator {
	return Calculator{rates: rates}
}

func (c Calculator) Rates() RateTable {
	return c.rates
}

// CalculateInvoiceTotal prices skilled and unskilled labor days plus a service fee.
// The order of operations is fixed so results match previously issued invoices to the paisa.
func (c Calculator) CalculateInvoiceTotal(serviceFee float64, skilled, unskilled int) InvoiceBreakdown {
	skilledAmount := c.rates.SkilledRate * float64(skilled)
	unskilledAmount := c.rates.UnskilledRate * float64(unskilled)
	subTotal := serviceFee + skilledAmount + unskilledAmount
	eobiAmount := c.EOBIForAttendance(skilled + unskilled)
	settled := c.Settle(subTotal, eobiAmount, c.rates.GSTRate)

	return InvoiceBreakdown{
		SkilledAmount:   skilledAmount,
		UnskilledAmount: unskilledAmount,
		SubTotal:        settled.SubTotal,
		EOBIAmount:      settled.EOBIAmount,
		TotalSum:        settled.TotalSum,
		GSTAmount:       settled.GSTAmount,
		TotalAmount:     settled.TotalAmount,
	}
}

// EOBIForAttendance prorates the monthly EOBI contribution over total labor days.
func (c Calculator) EOBIForAttendance(days int) float64 {
	return money.RoundHalfUp(float64(days) / c.rates.ReferenceDays * c.rates.EOBIRate)
}

// EOBIForHeadcount runs the same proration with the persons-on-board count in place of days.
func (c Calculator) EOBIForHeadcount(pob int) float64 {
	return money.RoundHalfUp(float64(pob) / c.rates.ReferenceDays * c.rates.EOBIRate)
}

// Settle adds EOBI, charges GST on the sub total only and rounds the payable amount.
func (c Calculator) Settle(subTotal, eobiAmount, gstRate float64) Settlement {
	totalSum := subTotal + eobiAmount
	gstAmount := subTotal * gstRate
	return Settlement{
		SubTotal:    subTotal,
		EOBIAmount:  eobiAmount,
		TotalSum:    totalSum,
		GSTAmount:   gstAmount,
		TotalAmount: money.RoundInvoiceAmount(totalSum + gstAmount),
	}
}

var defaultCalculator = NewCalculator(DefaultRates())

func CalculateInvoiceTotal(serviceFee float64, skilled, unskilled int) InvoiceBreakdown {
	return defaultCalculator.CalculateInvoiceTotal(serviceFee, skilled, unskilled)
}
