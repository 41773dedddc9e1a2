package attendance

import (
	"context"
	"fmt"
	"io"

	"payscribe/internal/domain/core"
	"payscribe/internal/domain/invoice"
	"payscribe/internal/domain/payroll"
	"payscribe/internal/platform/pdfdoc"
)

// EmployeeSource is the part of the employee service attendance needs.
type EmployeeSource interface {
	ListEmployees(ctx context.Context, filter core.EmployeeFilter) ([]core.Employee, error)
	ApplyWorkingDays(ctx context.Context, updates []core.WorkingDaysUpdate) ([]core.Employee, error)
}

type Service struct {
	employees  EmployeeSource
	calc       invoice.Calculator
	letterhead pdfdoc.Letterhead
}

func NewService(employees EmployeeSource, calc invoice.Calculator, letterhead pdfdoc.Letterhead) *Service {
	return &Service{employees: employees, calc: calc, letterhead: letterhead}
}

type SummaryResult struct {
	Summary Summary                  `json:"summary"`
	Invoice invoice.InvoiceBreakdown `json:"invoice"`
}

// Sheet builds the default sheet for a department's employees.
func (s *Service) Sheet(ctx context.Context, department, month string, year int) (Sheet, error) {
	period, err := payroll.Period{Month: month, Year: year, Department: department}.Normalize()
	if err != nil {
		return Sheet{}, err
	}
	if period.Department == "" {
		return Sheet{}, invalid("department", "is required")
	}
	employees, err := s.employees.ListEmployees(ctx, core.EmployeeFilter{Department: period.Department})
	if err != nil {
		return Sheet{}, fmt.Errorf("list employees: %w", err)
	}
	return BuildSheet(period.Department, period.Year, payroll.MonthNumber(period.Month), employees), nil
}

// Summarize totals the sheet and prices its attendance with the canonical labor rates.
func (s *Service) Summarize(sheet Sheet, serviceFee float64) (SummaryResult, error) {
	if err := sheet.Validate(); err != nil {
		return SummaryResult{}, err
	}
	summary := sheet.Summary()
	if err := invoice.ValidateLaborInput(serviceFee, summary.SkilledAttendance, summary.UnskilledAttendance); err != nil {
		return SummaryResult{}, err
	}
	return SummaryResult{
		Summary: summary,
		Invoice: s.calc.CalculateInvoiceTotal(serviceFee, summary.SkilledAttendance, summary.UnskilledAttendance),
	}, nil
}

// Apply stores each employee's present days as working days.
func (s *Service) Apply(ctx context.Context, sheet Sheet) ([]core.Employee, error) {
	if err := sheet.Validate(); err != nil {
		return nil, err
	}
	updates := make([]core.WorkingDaysUpdate, 0, len(sheet.Records))
	for _, record := range sheet.Records {
		updates = append(updates, core.WorkingDaysUpdate{EmployeeID: record.EmployeeID, WorkingDays: float64(record.TotalDays)})
	}
	return s.employees.ApplyWorkingDays(ctx, updates)
}

func (s *Service) RenderPDF(w io.Writer, sheet Sheet) error {
	if err := sheet.Validate(); err != nil {
		return err
	}
	return WritePDF(w, s.letterhead, sheet)
}
