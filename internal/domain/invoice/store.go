package invoice

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const invoiceColumns = `
    id, kind, invoice_number, invoice_date, contract_number, ntn, kpk_gst, month, year, department,
    service_description, service_fee, local_management, sub_total, eobi_rate, eobi_pob, eobi_amount,
    total_sum, gst_rate, gst_amount, total_amount, generated_at, updated_at`

func scanInvoice(row pgx.Row) (Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.Kind, &inv.InvoiceNumber, &inv.InvoiceDate, &inv.ContractNumber, &inv.NTN, &inv.KPKGST,
		&inv.Month, &inv.Year, &inv.Department, &inv.ServiceDescription, &inv.ServiceFee, &inv.LocalManagement,
		&inv.SubTotal, &inv.EOBIRate, &inv.EOBIPOB, &inv.EOBIAmount, &inv.TotalSum, &inv.GSTRate, &inv.GSTAmount,
		&inv.TotalAmount, &inv.GeneratedAt, &inv.UpdatedAt)
	return inv, err
}

// Create stores the invoice header and its line items in one transaction.
func (s *Store) Create(ctx context.Context, inv Invoice) (Invoice, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Invoice{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
    INSERT INTO invoices (kind, invoice_number, invoice_date, contract_number, ntn, kpk_gst, month, year, department,
                          service_description, service_fee, local_management, sub_total, eobi_rate, eobi_pob,
                          eobi_amount, total_sum, gst_rate, gst_amount, total_amount, generated_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$21)
    RETURNING id
  `, inv.Kind, inv.InvoiceNumber, inv.InvoiceDate, inv.ContractNumber, inv.NTN, inv.KPKGST, inv.Month, inv.Year,
		inv.Department, inv.ServiceDescription, inv.ServiceFee, inv.LocalManagement, inv.SubTotal, inv.EOBIRate,
		inv.EOBIPOB, inv.EOBIAmount, inv.TotalSum, inv.GSTRate, inv.GSTAmount, inv.TotalAmount, inv.GeneratedAt).Scan(&inv.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Invoice{}, ErrDuplicateInvoiceNumber
		}
		return Invoice{}, err
	}

	for i, item := range inv.LineItems {
		if _, err := tx.Exec(ctx, `
      INSERT INTO invoice_line_items (invoice_id, position, description, rate, quantity, attendance, pob, amount)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    `, inv.ID, i, item.Description, item.Rate, item.Quantity, item.Attendance, item.POB, item.Amount); err != nil {
			return Invoice{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

func (s *Store) List(ctx context.Context, filter ListFilter) ([]Invoice, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM invoices
    WHERE ($1 = '' OR department = $1) AND ($2 = 0 OR year = $2)
  `, filter.Department, filter.Year).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT`+invoiceColumns+`
    FROM invoices
    WHERE ($1 = '' OR department = $1) AND ($2 = 0 OR year = $2)
    ORDER BY generated_at DESC
    LIMIT $3 OFFSET $4
  `, filter.Department, filter.Year, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, total, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Invoice, error) {
	inv, err := scanInvoice(s.DB.QueryRow(ctx, `SELECT`+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Invoice{}, ErrInvoiceNotFound
	}
	if err != nil {
		return Invoice{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT description, rate, quantity, attendance, pob, amount
    FROM invoice_line_items
    WHERE invoice_id = $1
    ORDER BY position
  `, id)
	if err != nil {
		return Invoice{}, err
	}
	defer rows.Close()

	inv.LineItems = []LineItem{}
	for rows.Next() {
		var item LineItem
		if err := rows.Scan(&item.Description, &item.Rate, &item.Quantity, &item.Attendance, &item.POB, &item.Amount); err != nil {
			return Invoice{}, err
		}
		inv.LineItems = append(inv.LineItems, item)
	}
	return inv, rows.Err()
}

// UpdateHeader changes printed metadata only. Amounts are left as generated.
func (s *Store) UpdateHeader(ctx context.Context, id string, header Header) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE invoices
    SET invoice_number = $2, invoice_date = $3, contract_number = $4, ntn = $5, kpk_gst = $6,
        month = $7, year = $8, department = $9, service_description = $10, updated_at = now()
    WHERE id = $1
  `, id, header.InvoiceNumber, header.InvoiceDate, header.ContractNumber, header.NTN, header.KPKGST,
		header.Month, header.Year, header.Department, header.ServiceDescription)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateInvoiceNumber
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}
