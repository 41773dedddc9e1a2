package invoice

import (
	"strings"
	"time"
)

type Kind string

const (
	KindKPK         Kind = "kpk"
	KindProject     Kind = "project"
	KindWeedCutting Kind = "weed-cutting"
	KindDynamic     Kind = "dynamic"
)

const (
	StatusRecent   = "recent"
	StatusArchived = "archived"

	recentWindow = 30 * 24 * time.Hour

	DefaultNTN    = "5194834-7"
	DefaultKPKGST = "K-5194834-7"
)

// Header is the editable metadata printed above the invoice lines.
type Header struct {
	InvoiceNumber      string    `json:"invoiceNumber"`
	InvoiceDate        time.Time `json:"invoiceDate"`
	ContractNumber     string    `json:"contractNumber"`
	NTN                string    `json:"ntn"`
	KPKGST             string    `json:"kpkGst"`
	Month              string    `json:"month"`
	Year               int       `json:"year"`
	Department         string    `json:"department"`
	ServiceDescription string    `json:"serviceDescription"`
}

func (h Header) withDefaults(now time.Time) Header {
	h.InvoiceNumber = strings.TrimSpace(h.InvoiceNumber)
	h.ContractNumber = strings.TrimSpace(h.ContractNumber)
	h.Department = strings.TrimSpace(h.Department)
	h.ServiceDescription = strings.TrimSpace(h.ServiceDescription)
	if h.InvoiceDate.IsZero() {
		h.InvoiceDate = now
	}
	if h.NTN == "" {
		h.NTN = DefaultNTN
	}
	if h.KPKGST == "" {
		h.KPKGST = DefaultKPKGST
	}
	return h
}

type LineItem struct {
	Description string   `json:"description"`
	Rate        *float64 `json:"rate,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
	Attendance  *int     `json:"attendance,omitempty"`
	POB         *int     `json:"pob,omitempty"`
	Amount      float64  `json:"amount"`
}

// Invoice is a priced invoice, either a preview or a stored record. Amounts are fixed
// when the invoice is generated and never recomputed.
type Invoice struct {
	ID   string `json:"id,omitempty"`
	Kind Kind   `json:"kind"`
	Header
	LineItems       []LineItem `json:"lineItems"`
	ServiceFee      float64    `json:"serviceFee"`
	LocalManagement float64    `json:"localManagement"`
	SubTotal        float64    `json:"subTotal"`
	EOBIRate        float64    `json:"eobiRate"`
	EOBIPOB         *int       `json:"eobiPob,omitempty"`
	EOBIAmount      float64    `json:"eobiAmount"`
	TotalSum        float64    `json:"totalSum"`
	GSTRate         float64    `json:"gstRate"`
	GSTAmount       float64    `json:"gstAmount"`
	TotalAmount     float64    `json:"totalAmount"`
	GeneratedAt     time.Time  `json:"generatedAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	Status          string     `json:"status,omitempty"`
}

// StatusAt reports whether an invoice generated at generatedAt still counts as recent.
func StatusAt(generatedAt, now time.Time) string {
	if now.Sub(generatedAt) <= recentWindow {
		return StatusRecent
	}
	return StatusArchived
}

type ListFilter struct {
	Department string
	Year       int
	Limit      int
	Offset     int
}
