package payroll

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"payscribe/internal/domain/money"
	"payscribe/internal/platform/pdfdoc"
)

const registerSheet = "Payroll"

var registerHeaders = []string{"Employee Name", "Department", "Basic Salary", "Working Days", "Total Salary", "Signature"}

// WriteRegisterPDF prints the monthly payroll register with a signature column.
func WriteRegisterPDF(w io.Writer, head pdfdoc.Letterhead, period Period, entries []Entry) error {
	doc := pdfdoc.New(pdfdoc.Landscape, head)
	title := fmt.Sprintf("Payroll Register - %s %d", period.Month, period.Year)
	if period.Department != "" {
		title += " - " + period.Department
	}
	doc.Title(title)

	columns := doc.SpreadColumns([]pdfdoc.Column{
		{Header: registerHeaders[0], Width: 4},
		{Header: registerHeaders[1], Width: 3},
		{Header: registerHeaders[2], Width: 2, Align: "R"},
		{Header: registerHeaders[3], Width: 2, Align: "R"},
		{Header: registerHeaders[4], Width: 2, Align: "R"},
		{Header: registerHeaders[5], Width: 3},
	})
	doc.HeaderRow(columns)
	for _, entry := range entries {
		doc.Row(columns, []string{
			entry.EmployeeName,
			entry.Department,
			money.Format(entry.BasicSalary, 0),
			money.Format(entry.WorkingDays, 0),
			money.Format(entry.CalculatedSalary, 0),
			"",
		}, false)
	}
	summary := Summarize(entries)
	doc.LabelRow(columns, fmt.Sprintf("Total Payroll (%d employees)", summary.EmployeeCount), money.FormatPKR(summary.TotalPayroll), true)
	doc.LabelRow(columns, "Average Salary", money.FormatPKR(summary.AverageSalary), false)
	return doc.Write(w)
}

// WriteRegisterXLSX writes the register as a single-sheet workbook.
func WriteRegisterXLSX(w io.Writer, period Period, entries []Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", registerSheet); err != nil {
		return err
	}
	header := make([]any, 0, len(registerHeaders)-1)
	for _, h := range registerHeaders[:len(registerHeaders)-1] {
		header = append(header, h)
	}
	header = append(header, "Month", "Year")
	if err := f.SetSheetRow(registerSheet, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(registerSheet, 1, 1, bold); err != nil {
		return err
	}

	for i, entry := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{entry.EmployeeName, entry.Department, entry.BasicSalary, entry.WorkingDays, entry.CalculatedSalary, period.Month, period.Year}
		if err := f.SetSheetRow(registerSheet, cell, &row); err != nil {
			return err
		}
	}

	summary := Summarize(entries)
	totalCell, err := excelize.CoordinatesToCellName(1, len(entries)+3)
	if err != nil {
		return err
	}
	totals := []any{"Total", "", "", "", summary.TotalPayroll}
	if err := f.SetSheetRow(registerSheet, totalCell, &totals); err != nil {
		return err
	}
	if err := f.SetColWidth(registerSheet, "A", "B", 28); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}
