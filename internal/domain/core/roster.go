package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"payscribe/internal/domain/validation"
)

var rosterColumns = []string{"name", "cnic", "department", "category", "basicSalary", "workingDays"}

// RowError describes why one roster row was skipped. Row is the 1-based sheet row.
type RowError struct {
	Row    int    `json:"row"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

type RosterRow struct {
	Row   int
	Input EmployeeInput
}

type ImportResult struct {
	Imported []Employee `json:"imported"`
	Errors   []RowError `json:"errors"`
}

// ParseRoster reads the first sheet of an xlsx workbook. The first row is the header.
func ParseRoster(r io.Reader) ([]RosterRow, []RowError, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open roster: %w", err)
	}
	defer func() { _ = book.Close() }()

	rows, err := book.GetRows(book.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("read roster: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, invalid("file", "roster is empty")
	}

	index := map[string]int{}
	for i, header := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, column := range rosterColumns {
		if _, ok := index[strings.ToLower(column)]; !ok {
			return nil, nil, invalid("file", "missing column "+column)
		}
	}

	var parsed []RosterRow
	var rowErrors []RowError
	for i, cells := range rows[1:] {
		rowNumber := i + 2
		cell := func(column string) string {
			pos := index[strings.ToLower(column)]
			if pos >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[pos])
		}
		if isBlank(cells) {
			continue
		}

		basic, err := strconv.ParseFloat(cell("basicSalary"), 64)
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: rowNumber, Field: "basicSalary", Reason: "must be a number"})
			continue
		}
		days, err := strconv.ParseFloat(cell("workingDays"), 64)
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: rowNumber, Field: "workingDays", Reason: "must be a number"})
			continue
		}
		parsed = append(parsed, RosterRow{Row: rowNumber, Input: EmployeeInput{
			Name:        cell("name"),
			CNIC:        cell("cnic"),
			Department:  cell("department"),
			Category:    cell("category"),
			BasicSalary: basic,
			WorkingDays: days,
		}})
	}
	return parsed, rowErrors, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ImportRoster creates an employee for every valid row and reports the rest.
func (s *Service) ImportRoster(ctx context.Context, r io.Reader) (ImportResult, error) {
	rows, rowErrors, err := ParseRoster(r)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{Imported: []Employee{}, Errors: rowErrors}
	for _, row := range rows {
		emp, err := s.prepare(ctx, row.Input)
		if err == nil {
			emp, err = s.store.CreateEmployee(ctx, emp)
		}
		if err != nil {
			var fieldErr *validation.FieldError
			if errors.As(err, &fieldErr) {
				result.Errors = append(result.Errors, RowError{Row: row.Row, Field: fieldErr.Field, Reason: fieldErr.Reason})
				continue
			}
			return result, fmt.Errorf("row %d: %w", row.Row, err)
		}
		result.Imported = append(result.Imported, emp)
	}
	if result.Errors == nil {
		result.Errors = []RowError{}
	}
	if len(result.Imported) > 0 {
		s.refreshStats(ctx)
	}
	return result, nil
}

// WriteRosterTemplate writes an xlsx workbook with the roster header and one sample row.
func WriteRosterTemplate(w io.Writer) error {
	book := excelize.NewFile()
	defer func() { _ = book.Close() }()

	const sheet = "Employees"
	if err := book.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	header := make([]any, len(rosterColumns))
	for i, column := range rosterColumns {
		header[i] = column
	}
	if err := book.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	sample := []any{"Muhammad Ali", "14202-1234567-1", "BS", "Skilled", 36000, 26}
	if err := book.SetSheetRow(sheet, "A2", &sample); err != nil {
		return err
	}
	if err := book.SetColWidth(sheet, "A", "F", 18); err != nil {
		return err
	}
	_, err := book.WriteTo(w)
	return err
}
