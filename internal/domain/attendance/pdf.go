package attendance

import (
	"fmt"
	"io"
	"strconv"

	"payscribe/internal/platform/pdfdoc"
)

// WritePDF draws the sheet on a landscape page: one column per day and a total column.
func WritePDF(w io.Writer, head pdfdoc.Letterhead, sheet Sheet) error {
	doc := pdfdoc.New(pdfdoc.Landscape, head)
	doc.Title(fmt.Sprintf("Attendance Sheet: %s %d", sheet.Month, sheet.Year))
	doc.Line("Department: "+sheet.Department, true)
	doc.Space(3)

	const fixed = 8 + 42 + 20 + 14
	dayWidth := (doc.ContentWidth() - fixed) / float64(max(sheet.DaysInMonth, 1))
	columns := []pdfdoc.Column{{Header: "S.NO", Width: 8, Align: "C"}, {Header: "NAME", Width: 42}, {Header: "CATEGORY", Width: 20}}
	for day := 1; day <= sheet.DaysInMonth; day++ {
		columns = append(columns, pdfdoc.Column{Header: strconv.Itoa(day), Width: dayWidth, Align: "C"})
	}
	columns = append(columns, pdfdoc.Column{Header: "TOTAL", Width: 14, Align: "C"})

	doc.SetTableFont(7)
	doc.HeaderRow(columns)
	for i, record := range sheet.Records {
		cells := []string{strconv.Itoa(i + 1), record.Name, string(record.Category)}
		for _, status := range record.Days {
			cells = append(cells, string(status))
		}
		cells = append(cells, strconv.Itoa(record.TotalDays))
		doc.Row(columns, cells, false)
	}
	doc.LabelRow(columns, "Total Days", strconv.Itoa(sheet.Summary().TotalDays), true)
	return doc.Write(w)
}
