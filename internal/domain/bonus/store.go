package bonus

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

func (s *Store) Upsert(ctx context.Context, records []Record) ([]Record, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	saved := make([]Record, 0, len(records))
	for _, rec := range records {
		err := tx.QueryRow(ctx, `
      INSERT INTO yearly_bonus (employee_id, employee_name, department, category, bonus_year, bonus_amount)
      VALUES ($1,$2,$3,$4,$5,$6)
      ON CONFLICT (employee_id, bonus_year) DO UPDATE
        SET employee_name = EXCLUDED.employee_name,
            department = EXCLUDED.department,
            category = EXCLUDED.category,
            bonus_amount = EXCLUDED.bonus_amount,
            updated_at = now()
      RETURNING id, created_at, updated_at
    `, rec.EmployeeID, rec.EmployeeName, rec.Department, string(rec.Category), rec.BonusYear, rec.BonusAmount).
			Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
		if err != nil {
			return nil, err
		}
		saved = append(saved, rec)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *Store) List(ctx context.Context, year int) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, employee_name, department, category, bonus_year, bonus_amount, created_at, updated_at
    FROM yearly_bonus
    WHERE bonus_year = $1
    ORDER BY department, employee_name
  `, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.Department, &rec.Category,
			&rec.BonusYear, &rec.BonusAmount, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
