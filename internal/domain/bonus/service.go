// Package bonus records yearly bonus amounts and prints the bonus report.
package bonus

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"payscribe/internal/domain/core"
	"payscribe/internal/domain/money"
	"payscribe/internal/domain/payroll"
	"payscribe/internal/domain/validation"
	"payscribe/internal/platform/pdfdoc"
)

type EmployeeSource interface {
	GetEmployee(ctx context.Context, id string) (core.Employee, error)
}

type Service struct {
	store      StoreAPI
	employees  EmployeeSource
	letterhead pdfdoc.Letterhead
}

func NewService(store StoreAPI, employees EmployeeSource, letterhead pdfdoc.Letterhead) *Service {
	return &Service{store: store, employees: employees, letterhead: letterhead}
}

func invalid(field, reason string) error {
	return validation.New(ErrInvalidInput, field, reason)
}

func checkYear(year int) error {
	if err := payroll.ValidateYear(year); err != nil {
		return invalid("year", "must have four digits")
	}
	return nil
}

// Save upserts one bonus per employee for the year. Employee name, department and
// category are copied at save time.
func (s *Service) Save(ctx context.Context, year int, entries []Entry) (Report, error) {
	if err := checkYear(year); err != nil {
		return Report{}, err
	}
	records := make([]Record, 0, len(entries))
	for i, entry := range entries {
		field := "entries[" + strconv.Itoa(i) + "]"
		if math.IsNaN(entry.BonusAmount) || math.IsInf(entry.BonusAmount, 0) || entry.BonusAmount < 0 {
			return Report{}, invalid(field+".bonusAmount", "must be a non-negative number")
		}
		emp, err := s.employees.GetEmployee(ctx, entry.EmployeeID)
		if err != nil {
			return Report{}, fmt.Errorf("%s: %w", field, err)
		}
		records = append(records, Record{
			EmployeeID:   emp.ID,
			EmployeeName: emp.Name,
			Department:   emp.Department,
			Category:     emp.Category,
			BonusYear:    year,
			BonusAmount:  entry.BonusAmount,
		})
	}
	if len(records) > 0 {
		if _, err := s.store.Upsert(ctx, records); err != nil {
			return Report{}, fmt.Errorf("save bonuses: %w", err)
		}
	}
	return s.Report(ctx, year)
}

func (s *Service) Report(ctx context.Context, year int) (Report, error) {
	if err := checkYear(year); err != nil {
		return Report{}, err
	}
	records, err := s.store.List(ctx, year)
	if err != nil {
		return Report{}, err
	}
	return Group(year, records), nil
}

// Group orders records by department and totals each department and the whole year.
func Group(year int, records []Record) Report {
	byDepartment := map[string][]Record{}
	for _, rec := range records {
		byDepartment[rec.Department] = append(byDepartment[rec.Department], rec)
	}
	names := make([]string, 0, len(byDepartment))
	for name := range byDepartment {
		names = append(names, name)
	}
	sort.Strings(names)

	report := Report{Year: year, Departments: make([]DepartmentGroup, 0, len(names)), EmployeeCount: len(records)}
	var all []float64
	for _, name := range names {
		group := DepartmentGroup{Department: name, Records: byDepartment[name]}
		amounts := make([]float64, 0, len(group.Records))
		for _, rec := range group.Records {
			amounts = append(amounts, rec.BonusAmount)
		}
		group.Subtotal = money.Sum(amounts...)
		all = append(all, amounts...)
		report.Departments = append(report.Departments, group)
	}
	report.GrandTotal = money.Sum(all...)
	return report
}

// Payable keeps only the records with a positive amount.
func Payable(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.BonusAmount > 0 {
			out = append(out, rec)
		}
	}
	return out
}

// RenderPDF prints the year's report with only the employees receiving a bonus.
func (s *Service) RenderPDF(ctx context.Context, w io.Writer, year int) error {
	if err := checkYear(year); err != nil {
		return err
	}
	records, err := s.store.List(ctx, year)
	if err != nil {
		return err
	}
	payable := Payable(records)
	if len(payable) == 0 {
		return invalid("entries", "no bonus amounts entered for the year")
	}
	return WritePDF(w, s.letterhead, Group(year, payable))
}

func WritePDF(w io.Writer, head pdfdoc.Letterhead, report Report) error {
	doc := pdfdoc.New(pdfdoc.Portrait, head)
	doc.Title(fmt.Sprintf("Yearly Bonus Report - %d", report.Year))

	columns := doc.SpreadColumns([]pdfdoc.Column{
		{Header: "S.No", Width: 20, Align: "C"},
		{Header: "Employee Name", Width: 60},
		{Header: "Department", Width: 40},
		{Header: "Category", Width: 30},
		{Header: "Bonus Amount (PKR)", Width: 40, Align: "R"},
	})
	doc.HeaderRow(columns)
	serial := 0
	for _, group := range report.Departments {
		doc.Line(group.Department+" Department", true)
		for _, rec := range group.Records {
			serial++
			doc.Row(columns, []string{
				strconv.Itoa(serial), rec.EmployeeName, rec.Department, string(rec.Category), money.Format(rec.BonusAmount, 0),
			}, false)
		}
		doc.LabelRow(columns, "Subtotal:", money.FormatPKR(group.Subtotal), true)
	}
	doc.LabelRow(columns, "GRAND TOTAL:", money.FormatPKR(report.GrandTotal), true)
	doc.Space(4)
	doc.Line(fmt.Sprintf("Total Employees Receiving Bonus: %d", report.EmployeeCount), false)
	doc.Line(fmt.Sprintf("Total Departments: %d", len(report.Departments)), false)
	return doc.Write(w)
}
