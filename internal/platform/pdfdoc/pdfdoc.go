// Package pdfdoc draws the company letterhead and the simple tables every printed
// document (invoices, payroll registers, attendance sheets, bonus lists) is made of.
package pdfdoc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const (
	Portrait  = "P"
	Landscape = "L"

	margin     = 15.0
	bannerH    = 20.0
	footerH    = 25.0
	rowHeight  = 8.0
	fontFamily = "Helvetica"
)

// Letterhead is the branding drawn on every page.
type Letterhead struct {
	CompanyName string
	BillTo      []string
	FooterLines []string
}

func DefaultLetterhead(companyName string) Letterhead {
	if companyName == "" {
		companyName = "TAHIRA CONSTRUCTION & SERVICES"
	}
	return Letterhead{
		CompanyName: companyName,
		BillTo: []string{
			"Chief Finance Officer",
			"Mol Pakistan Oil & Gas Co. B.V.",
			"Islamabad Stock Exchange Towers, Floor No. 18,",
			"55-Jinnah Avenue, Islamabad, Pakistan 4400.",
			"NTN # 1938929-9",
			"STRN: 701270001264",
		},
		FooterLines: []string{
			"Address: VPO Makori Tehsil Banda Daud Shah District Karak",
			"Email: mshamidkhattak@gmail.com | Contact No: 03155157591",
		},
	}
}

type Column struct {
	Header string
	Width  float64
	Align  string
}

type Document struct {
	pdf       *gofpdf.Fpdf
	head      Letterhead
	tr        func(string) string
	tableFont float64
}

// New starts a document with the letterhead banner and footer on every page.
func New(orientation string, head Letterhead) *Document {
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	d := &Document{pdf: pdf, head: head, tr: pdf.UnicodeTranslatorFromDescriptor(""), tableFont: 10}
	pdf.SetMargins(margin, bannerH+8, margin)
	pdf.SetAutoPageBreak(true, footerH+5)
	pdf.SetHeaderFunc(d.drawBanner)
	pdf.SetFooterFunc(d.drawFooter)
	pdf.AddPage()
	return d
}

func (d *Document) PDF() *gofpdf.Fpdf {
	return d.pdf
}

func (d *Document) ContentWidth() float64 {
	width, _ := d.pdf.GetPageSize()
	return width - 2*margin
}

func (d *Document) drawBanner() {
	width, _ := d.pdf.GetPageSize()
	d.pdf.SetFillColor(173, 216, 230)
	d.pdf.Rect(0, 0, width, bannerH, "F")
	d.pdf.SetTextColor(255, 255, 255)
	d.pdf.SetFont(fontFamily, "B", 16)
	name := d.tr(d.head.CompanyName)
	d.pdf.Text((width-d.pdf.GetStringWidth(name))/2, 13, name)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.SetFont(fontFamily, "", 10)
	d.pdf.SetY(bannerH + 8)
}

func (d *Document) drawFooter() {
	width, height := d.pdf.GetPageSize()
	top := height - footerH
	d.pdf.SetFillColor(173, 216, 230)
	d.pdf.Rect(0, top, width, footerH, "F")
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.SetFont(fontFamily, "B", 9)
	y := top + 8
	for _, line := range d.head.FooterLines {
		line = d.tr(line)
		d.pdf.Text((width-d.pdf.GetStringWidth(line))/2, y, line)
		y += 6
	}
	d.pdf.SetFont(fontFamily, "", 10)
}

// SetTableFont changes the font size of subsequent table rows. Wide sheets use a smaller one.
func (d *Document) SetTableFont(size float64) {
	d.tableFont = size
}

func (d *Document) Title(text string) {
	d.pdf.SetFont(fontFamily, "B", 14)
	d.pdf.CellFormat(0, 10, d.tr(text), "", 1, "C", false, 0, "")
	d.pdf.SetFont(fontFamily, "", 10)
	d.pdf.Ln(2)
}

func (d *Document) Line(text string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	d.pdf.SetFont(fontFamily, style, 10)
	d.pdf.MultiCell(0, 6, d.tr(text), "", "L", false)
	d.pdf.SetFont(fontFamily, "", 10)
}

func (d *Document) Space(height float64) {
	d.pdf.Ln(height)
}

// BillTo draws the customer block on the left and the given details on the right.
func (d *Document) BillTo(details []string) {
	half := d.ContentWidth() / 2
	top := d.pdf.GetY()

	d.pdf.SetFont(fontFamily, "B", 10)
	d.pdf.CellFormat(half, 6, "Bill To:", "", 0, "L", false, 0, "")
	d.pdf.CellFormat(half, 6, "Invoice Details:", "", 1, "L", false, 0, "")
	d.pdf.SetFont(fontFamily, "", 10)

	rows := max(len(d.head.BillTo), len(details))
	for i := 0; i < rows; i++ {
		left, right := "", ""
		if i < len(d.head.BillTo) {
			left = d.head.BillTo[i]
		}
		if i < len(details) {
			right = details[i]
		}
		d.pdf.CellFormat(half, 5, d.tr(left), "", 0, "L", false, 0, "")
		d.pdf.CellFormat(half, 5, d.tr(right), "", 1, "L", false, 0, "")
	}
	if d.pdf.GetY() < top+40 {
		d.pdf.SetY(top + 40)
	}
	d.pdf.Ln(4)
}

// Table draws a header row followed by rows. Cells beyond the column count are ignored.
func (d *Document) Table(columns []Column, rows [][]string) {
	d.HeaderRow(columns)
	for _, row := range rows {
		d.Row(columns, row, false)
	}
}

func (d *Document) HeaderRow(columns []Column) {
	d.pdf.SetFont(fontFamily, "B", d.tableFont)
	d.pdf.SetFillColor(240, 240, 240)
	for _, col := range columns {
		d.pdf.CellFormat(col.Width, rowHeight, d.tr(col.Header), "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)
	d.pdf.SetFont(fontFamily, "", d.tableFont)
}

func (d *Document) Row(columns []Column, cells []string, bold bool) {
	if bold {
		d.pdf.SetFont(fontFamily, "B", d.tableFont)
		d.pdf.SetFillColor(240, 240, 240)
	}
	for i, col := range columns {
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		align := col.Align
		if align == "" {
			align = "L"
		}
		d.pdf.CellFormat(col.Width, rowHeight, d.tr(truncate(d.pdf, text, col.Width-2)), "1", 0, align, bold, 0, "")
	}
	d.pdf.Ln(-1)
	d.pdf.SetFont(fontFamily, "", d.tableFont)
}

// LabelRow spans the label across all but the last column and puts value in the last one.
func (d *Document) LabelRow(columns []Column, label, value string, bold bool) {
	if len(columns) == 0 {
		return
	}
	labelWidth := 0.0
	for _, col := range columns[:len(columns)-1] {
		labelWidth += col.Width
	}
	style := ""
	if bold {
		style = "B"
		d.pdf.SetFillColor(240, 240, 240)
	}
	d.pdf.SetFont(fontFamily, style, d.tableFont)
	d.pdf.CellFormat(labelWidth, rowHeight, d.tr(label), "1", 0, "L", bold, 0, "")
	d.pdf.CellFormat(columns[len(columns)-1].Width, rowHeight, d.tr(value), "1", 1, "R", bold, 0, "")
	d.pdf.SetFont(fontFamily, "", d.tableFont)
}

// SpreadColumns scales column widths so they fill the printable width.
func (d *Document) SpreadColumns(columns []Column) []Column {
	total := 0.0
	for _, col := range columns {
		total += col.Width
	}
	if total == 0 {
		return columns
	}
	scale := d.ContentWidth() / total
	out := make([]Column, len(columns))
	for i, col := range columns {
		col.Width *= scale
		out[i] = col
	}
	return out
}

func (d *Document) Write(w io.Writer) error {
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return d.pdf.Output(w)
}

func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(pdf *gofpdf.Fpdf, text string, width float64) string {
	if width <= 0 || pdf.GetStringWidth(text) <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
