// Package reports builds the dashboard figures.
package reports

import (
	"context"
	"time"

	"payscribe/internal/domain/money"
)

// Totals are the raw counts read from storage.
type Totals struct {
	Employees            int
	Departments          int
	MonthlySalary        float64
	CashPaymentEmployees int
	InvoicesThisYear     int
}

type Dashboard struct {
	TotalEmployees       int     `json:"totalEmployees"`
	TotalDepartments     int     `json:"totalDepartments"`
	MonthlySalary        float64 `json:"monthlySalary"`
	AverageSalary        float64 `json:"averageSalary"`
	CashPaymentEmployees int     `json:"cashPaymentEmployees"`
	InvoicesThisYear     int     `json:"invoicesThisYear"`
	Year                 int     `json:"year"`
}

type StoreAPI interface {
	Totals(ctx context.Context, year int) (Totals, error)
}

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	year := s.now().Year()
	totals, err := s.store.Totals(ctx, year)
	if err != nil {
		return Dashboard{}, err
	}
	return Build(year, totals), nil
}

func Build(year int, totals Totals) Dashboard {
	dash := Dashboard{
		TotalEmployees:       totals.Employees,
		TotalDepartments:     totals.Departments,
		MonthlySalary:        totals.MonthlySalary,
		CashPaymentEmployees: totals.CashPaymentEmployees,
		InvoicesThisYear:     totals.InvoicesThisYear,
		Year:                 year,
	}
	if totals.Employees > 0 {
		dash.AverageSalary = money.RoundHalfUp(totals.MonthlySalary / float64(totals.Employees))
	}
	return dash
}
