package payroll

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListSources(ctx context.Context, department string) ([]Source, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, department, basic_salary, working_days
    FROM employees
    WHERE ($1 = '' OR department = $1)
    ORDER BY department, name
  `, department)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var src Source
		if err := rows.Scan(&src.EmployeeID, &src.Name, &src.Department, &src.BasicSalary, &src.WorkingDays); err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// UpsertEntries replaces the snapshot of each employee for the period in one transaction.
func (s *Store) UpsertEntries(ctx context.Context, period Period, entries []Entry) ([]Entry, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	saved := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		err := tx.QueryRow(ctx, `
      INSERT INTO payroll_entries (employee_id, employee_name, department, basic_salary, working_days, calculated_salary, month, year)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
      ON CONFLICT (employee_id, month, year) DO UPDATE
        SET employee_name = EXCLUDED.employee_name,
            department = EXCLUDED.department,
            basic_salary = EXCLUDED.basic_salary,
            working_days = EXCLUDED.working_days,
            calculated_salary = EXCLUDED.calculated_salary
      RETURNING id, created_at
    `, entry.EmployeeID, entry.EmployeeName, entry.Department, entry.BasicSalary, entry.WorkingDays,
			entry.CalculatedSalary, period.Month, period.Year).Scan(&entry.ID, &entry.CreatedAt)
		if err != nil {
			return nil, err
		}
		saved = append(saved, entry)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *Store) ListEntries(ctx context.Context, period Period) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, employee_name, department, basic_salary, working_days,
           calculated_salary, month, year, created_at
    FROM payroll_entries
    WHERE month = $1 AND year = $2 AND ($3 = '' OR department = $3)
    ORDER BY department, employee_name
  `, period.Month, period.Year, period.Department)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.EmployeeID, &entry.EmployeeName, &entry.Department, &entry.BasicSalary,
			&entry.WorkingDays, &entry.CalculatedSalary, &entry.Month, &entry.Year, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
