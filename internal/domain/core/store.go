package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	cryptoutil "payscribe/internal/platform/crypto"
)

type Store struct {
	DB     *pgxpool.Pool
	Sealer *cryptoutil.Sealer
}

func NewStore(db *pgxpool.Pool, sealer *cryptoutil.Sealer) *Store {
	return &Store{DB: db, Sealer: sealer}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const departmentColumns = `id, name, COALESCE(description, ''), employee_count, total_salary, created_at, updated_at`

func scanDepartment(row pgx.Row) (Department, error) {
	var dep Department
	err := row.Scan(&dep.ID, &dep.Name, &dep.Description, &dep.EmployeeCount, &dep.TotalSalary, &dep.CreatedAt, &dep.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Department{}, ErrDepartmentNotFound
	}
	return dep, err
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+departmentColumns+` FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deps []Department
	for rows.Next() {
		dep, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}
	return deps, rows.Err()
}

func (s *Store) GetDepartment(ctx context.Context, id string) (Department, error) {
	return scanDepartment(s.DB.QueryRow(ctx, `SELECT `+departmentColumns+` FROM departments WHERE id = $1`, id))
}

func (s *Store) DepartmentExists(ctx context.Context, name string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `SELECT COUNT(1) FROM departments WHERE name = $1`, name).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) CreateDepartment(ctx context.Context, in DepartmentInput) (Department, error) {
	dep, err := scanDepartment(s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, description)
    VALUES ($1, $2)
    RETURNING `+departmentColumns, in.Name, in.Description))
	if isUniqueViolation(err) {
		return Department{}, ErrDuplicateDepartment
	}
	return dep, err
}

// UpdateDepartment renames a department and moves its employees to the new name.
func (s *Store) UpdateDepartment(ctx context.Context, id string, in DepartmentInput) (Department, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Department{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var oldName string
	if err := tx.QueryRow(ctx, `SELECT name FROM departments WHERE id = $1 FOR UPDATE`, id).Scan(&oldName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Department{}, ErrDepartmentNotFound
		}
		return Department{}, err
	}

	dep, err := scanDepartment(tx.QueryRow(ctx, `
    UPDATE departments SET name = $2, description = $3, updated_at = now()
    WHERE id = $1
    RETURNING `+departmentColumns, id, in.Name, in.Description))
	if err != nil {
		if isUniqueViolation(err) {
			return Department{}, ErrDuplicateDepartment
		}
		return Department{}, err
	}

	if oldName != in.Name {
		if _, err := tx.Exec(ctx, `UPDATE employees SET department = $2, updated_at = now() WHERE department = $1`, oldName, in.Name); err != nil {
			return Department{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Department{}, err
	}
	return dep, nil
}

func (s *Store) DeleteDepartment(ctx context.Context, id string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var name string
	if err := tx.QueryRow(ctx, `SELECT name FROM departments WHERE id = $1 FOR UPDATE`, id).Scan(&name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDepartmentNotFound
		}
		return err
	}

	var employees int
	if err := tx.QueryRow(ctx, `SELECT COUNT(1) FROM employees WHERE department = $1`, name).Scan(&employees); err != nil {
		return err
	}
	if employees > 0 {
		return ErrDepartmentHasEmployees
	}

	if _, err := tx.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) RefreshDepartmentStats(ctx context.Context) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE departments d
    SET employee_count = COALESCE(stats.employee_count, 0),
        total_salary = COALESCE(stats.total_salary, 0),
        updated_at = now()
    FROM departments d2
    LEFT JOIN (
      SELECT department, COUNT(1) AS employee_count, SUM(calculated_salary) AS total_salary
      FROM employees
      GROUP BY department
    ) stats ON stats.department = d2.name
    WHERE d.id = d2.id
  `)
	return err
}

const employeeColumns = `id, name, COALESCE(cnic, ''), cnic_enc, department, category, basic_salary, working_days,
    calculated_salary, cash_payment, created_at, updated_at`

func (s *Store) scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	var cnicPlain string
	var cnicEnc []byte
	err := row.Scan(&emp.ID, &emp.Name, &cnicPlain, &cnicEnc, &emp.Department, &emp.Category, &emp.BasicSalary,
		&emp.WorkingDays, &emp.CalculatedSalary, &emp.CashPayment, &emp.CreatedAt, &emp.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	emp.CNIC = s.Sealer.OpenString(cnicEnc, cnicPlain)
	return emp, nil
}

// sealCNIC returns the plain and sealed column values. With encryption enabled the plain
// column is left empty.
func (s *Store) sealCNIC(cnic string) (any, []byte, error) {
	if !s.Sealer.Enabled() {
		return cnic, nil, nil
	}
	sealed, err := s.Sealer.SealString(cnic)
	if err != nil {
		return nil, nil, err
	}
	return nil, sealed, nil
}

func (s *Store) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE ($1 = '' OR department = $1) AND ($2 = '' OR category = $2)
    ORDER BY name
  `, filter.Department, string(filter.Category))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		emp, err := s.scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id string) (Employee, error) {
	return s.scanEmployee(s.DB.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
}

func (s *Store) CreateEmployee(ctx context.Context, emp Employee) (Employee, error) {
	cnicPlain, cnicEnc, err := s.sealCNIC(emp.CNIC)
	if err != nil {
		return Employee{}, err
	}
	return s.scanEmployee(s.DB.QueryRow(ctx, `
    INSERT INTO employees (name, cnic, cnic_enc, department, category, basic_salary, working_days, calculated_salary, cash_payment)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING `+employeeColumns,
		emp.Name, cnicPlain, cnicEnc, emp.Department, string(emp.Category), emp.BasicSalary, emp.WorkingDays,
		emp.CalculatedSalary, emp.CashPayment))
}

func (s *Store) UpdateEmployee(ctx context.Context, id string, emp Employee) (Employee, error) {
	cnicPlain, cnicEnc, err := s.sealCNIC(emp.CNIC)
	if err != nil {
		return Employee{}, err
	}
	return s.scanEmployee(s.DB.QueryRow(ctx, `
    UPDATE employees
    SET name = $2, cnic = $3, cnic_enc = $4, department = $5, category = $6, basic_salary = $7,
        working_days = $8, calculated_salary = $9, cash_payment = $10, updated_at = now()
    WHERE id = $1
    RETURNING `+employeeColumns,
		id, emp.Name, cnicPlain, cnicEnc, emp.Department, string(emp.Category), emp.BasicSalary, emp.WorkingDays,
		emp.CalculatedSalary, emp.CashPayment))
}

func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *Store) UpdateWorkingDays(ctx context.Context, employees []Employee) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, emp := range employees {
		tag, err := tx.Exec(ctx, `
      UPDATE employees SET working_days = $2, calculated_salary = $3, updated_at = now()
      WHERE id = $1
    `, emp.ID, emp.WorkingDays, emp.CalculatedSalary)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrEmployeeNotFound
		}
	}
	return tx.Commit(ctx)
}
