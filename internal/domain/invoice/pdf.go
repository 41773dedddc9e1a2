package invoice

import (
	"fmt"
	"io"
	"strconv"

	"payscribe/internal/domain/money"
	"payscribe/internal/platform/pdfdoc"
)

var invoiceTitles = map[Kind]string{
	KindKPK:         "KPK Sales Tax Invoice",
	KindProject:     "Project Invoice",
	KindWeedCutting: "Weed and Grass Cutting Invoice",
	KindDynamic:     "Sales Tax Invoice",
}

// WritePDF renders an invoice with the company letterhead.
func WritePDF(w io.Writer, head pdfdoc.Letterhead, inv Invoice) error {
	doc := pdfdoc.New(pdfdoc.Portrait, head)

	number := inv.InvoiceNumber
	if number == "" {
		number = "DRAFT"
	}
	doc.BillTo([]string{
		"Invoice #: " + number,
		"Date: " + inv.InvoiceDate.Format("02/01/2006"),
		"Contract #: " + inv.ContractNumber,
		"NTN #: " + inv.NTN,
		"KPK GST #: " + inv.KPKGST,
	})
	doc.Line(fmt.Sprintf("Invoice For Month: %s %s", inv.Month, yearText(inv.Year)), true)
	doc.Line("Service: "+inv.ServiceDescription, true)
	if inv.Department != "" {
		doc.Line("Department: "+inv.Department, true)
	}
	doc.Space(4)
	doc.Title(invoiceTitles[inv.Kind])

	if inv.Kind == KindKPK {
		writeKPKTable(doc, inv)
	} else {
		writeItemTable(doc, inv)
	}
	return doc.Write(w)
}

func writeKPKTable(doc *pdfdoc.Document, inv Invoice) {
	columns := doc.SpreadColumns([]pdfdoc.Column{
		{Header: "Description", Width: 5},
		{Header: "Rate", Width: 2, Align: "R"},
		{Header: "Attendance", Width: 2, Align: "R"},
		{Header: "POB", Width: 1.5, Align: "R"},
		{Header: "Amount", Width: 2.5, Align: "R"},
	})
	doc.HeaderRow(columns)
	for _, item := range inv.LineItems {
		doc.Row(columns, []string{
			item.Description,
			optionalAmount(item.Rate),
			optionalInt(item.Attendance),
			optionalInt(item.POB),
			money.Format(item.Amount, 2),
		}, false)
	}
	doc.Row(columns, []string{"Sub Total", "", "", "", money.Format(inv.SubTotal, 2)}, true)
	doc.Row(columns, []string{"EOBI", money.Format(inv.EOBIRate, 0), "-", optionalInt(inv.EOBIPOB), money.Format(inv.EOBIAmount, 0)}, false)
	doc.Row(columns, []string{"Total Sum", "", "", "", money.Format(inv.TotalSum, 2)}, true)
	writeTotals(doc, columns, inv)
}

func writeItemTable(doc *pdfdoc.Document, inv Invoice) {
	columns := doc.SpreadColumns([]pdfdoc.Column{
		{Header: "Description", Width: 7},
		{Header: "Quantity", Width: 1.5, Align: "R"},
		{Header: "Rate", Width: 2, Align: "R"},
		{Header: "Amount", Width: 2.5, Align: "R"},
	})
	doc.HeaderRow(columns)
	for _, item := range inv.LineItems {
		doc.Row(columns, []string{
			item.Description,
			optionalQuantity(item.Quantity),
			optionalAmount(item.Rate),
			money.Format(item.Amount, 2),
		}, false)
	}
	doc.Row(columns, []string{"Sub Total", "", "", money.Format(inv.SubTotal, 2)}, true)
	writeTotals(doc, columns, inv)
}

func writeTotals(doc *pdfdoc.Document, columns []pdfdoc.Column, inv Invoice) {
	doc.LabelRow(columns, "Add KPK GST @"+strconv.FormatFloat(inv.GSTRate, 'f', -1, 64)+"%", money.Format(inv.GSTAmount, 2), false)
	doc.LabelRow(columns, "TOTAL AMOUNT (PKR)", money.Format(inv.TotalAmount, 0), true)
}

func optionalAmount(v *float64) string {
	if v == nil {
		return "-"
	}
	return money.Format(*v, 2)
}

func optionalQuantity(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func optionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func yearText(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}
