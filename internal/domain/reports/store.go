package reports

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Totals(ctx context.Context, year int) (Totals, error) {
	var totals Totals
	err := s.DB.QueryRow(ctx, `
    SELECT
      (SELECT COUNT(1) FROM employees),
      (SELECT COUNT(1) FROM departments),
      (SELECT COALESCE(SUM(calculated_salary), 0) FROM employees),
      (SELECT COUNT(1) FROM employees WHERE cash_payment),
      (SELECT COUNT(1) FROM invoices WHERE year = $1)
  `, year).Scan(&totals.Employees, &totals.Departments, &totals.MonthlySalary, &totals.CashPaymentEmployees, &totals.InvoicesThisYear)
	return totals, err
}
