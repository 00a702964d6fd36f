package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository provides PostgreSQL backed persistence for the ledger.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const invoiceColumns = `i.id, i.invoice_no, i.contractor_id, c.name, i.date, i.total_amount, i.paid_amount, i.created_at`

const invoiceJoins = `FROM invoices i JOIN contractors c ON c.id = i.contractor_id`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.InvoiceNo, &inv.ContractorID, &inv.ContractorName,
		&inv.Date, &inv.TotalAmount, &inv.PaidAmount, &inv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: invoice", httpx.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan invoice: %v", httpx.ErrPersistence, err)
	}
	inv.Status = DeriveStatus(inv.TotalAmount, inv.PaidAmount)
	return &inv, nil
}

// CreateInvoice inserts an invoice and claims its trips in one transaction.
// Claiming uses a conditional update so a trip already on another invoice
// makes the whole batch fail instead of being silently skipped.
func (repo *Repository) CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*Invoice, error) {
	tx, err := repo.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return nil, fmt.Errorf("%w: begin create invoice: %v", httpx.ErrPersistence, err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO invoices (invoice_no, contractor_id, date, total_amount, paid_amount, created_at)
		VALUES ($1, $2, $3, $4, 0, NOW())
		RETURNING id`
	var id int64
	err = tx.QueryRow(ctx, query, input.InvoiceNo, input.ContractorID, input.Date, input.TotalAmount).Scan(&id)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: invoice number already used", httpx.ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: create invoice: %v", httpx.ErrPersistence, err)
	}

	if len(input.TripIDs) > 0 {
		claim := `UPDATE trips SET invoice_id = $1 WHERE id = ANY($2) AND invoice_id IS NULL`
		result, err := tx.Exec(ctx, claim, id, input.TripIDs)
		if err != nil {
			return nil, fmt.Errorf("%w: attach trips: %v", httpx.ErrPersistence, err)
		}
		if int(result.RowsAffected()) != len(input.TripIDs) {
			return nil, fmt.Errorf("%w: some trips are missing or already invoiced", httpx.ErrValidation)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: commit create invoice: %v", httpx.ErrPersistence, err)
	}
	return repo.GetInvoice(ctx, id)
}

// GetInvoice returns one invoice with its contractor name.
func (repo *Repository) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` ` + invoiceJoins + ` WHERE i.id = $1`
	return scanInvoice(repo.pool.QueryRow(ctx, query, id))
}

// ListInvoices returns invoices newest first, optionally for one contractor.
func (repo *Repository) ListInvoices(ctx context.Context, contractorID int64) ([]Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` ` + invoiceJoins
	args := []any{}
	if contractorID > 0 {
		query += ` WHERE i.contractor_id = $1`
		args = append(args, contractorID)
	}
	query += ` ORDER BY i.date DESC, i.id DESC`

	rows, err := repo.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list invoices: %v", httpx.ErrPersistence, err)
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.InvoiceNo, &inv.ContractorID, &inv.ContractorName,
			&inv.Date, &inv.TotalAmount, &inv.PaidAmount, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan invoice: %v", httpx.ErrPersistence, err)
		}
		inv.Status = DeriveStatus(inv.TotalAmount, inv.PaidAmount)
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list invoices: %v", httpx.ErrPersistence, err)
	}
	return invoices, nil
}

// DeleteInvoice removes an invoice and releases its trips back to unbilled.
func (repo *Repository) DeleteInvoice(ctx context.Context, id int64) error {
	tx, err := repo.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("%w: begin delete invoice: %v", httpx.ErrPersistence, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE trips SET invoice_id = NULL WHERE invoice_id = $1`, id); err != nil {
		return fmt.Errorf("%w: release trips: %v", httpx.ErrPersistence, err)
	}
	result, err := tx.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete invoice: %v", httpx.ErrPersistence, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice", httpx.ErrNotFound)
	}
	return tx.Commit(ctx)
}

const paymentColumns = `id, invoice_id, date, type, amount, cheque_no, bank_name, cheque_image_url, created_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.InvoiceID, &p.Date, &p.Type, &p.Amount,
		&p.ChequeNo, &p.BankName, &p.ChequeImageURL, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: payment", httpx.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan payment: %v", httpx.ErrPersistence, err)
	}
	return &p, nil
}

// GetPayment returns one payment.
func (repo *Repository) GetPayment(ctx context.Context, id int64) (*Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return scanPayment(repo.pool.QueryRow(ctx, query, id))
}

// ListPayments returns an invoice's payments in insertion order.
func (repo *Repository) ListPayments(ctx context.Context, invoiceID int64) ([]Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE invoice_id = $1 ORDER BY id`
	rows, err := repo.pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: list payments: %v", httpx.ErrPersistence, err)
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.Date, &p.Type, &p.Amount,
			&p.ChequeNo, &p.BankName, &p.ChequeImageURL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan payment: %v", httpx.ErrPersistence, err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list payments: %v", httpx.ErrPersistence, err)
	}
	return payments, nil
}

// WithTx wraps callback in a repeatable-read transaction.
func (repo *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := repo.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("%w: begin tx: %v", httpx.ErrPersistence, err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, &txRepo{db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type txRepo struct {
	db querier
}

// GetInvoiceForUpdate locks the invoice row for the rest of the transaction.
func (t *txRepo) GetInvoiceForUpdate(ctx context.Context, id int64) (*Invoice, error) {
	query := `
		SELECT id, invoice_no, contractor_id, date, total_amount, paid_amount, created_at
		FROM invoices WHERE id = $1 FOR UPDATE`
	var inv Invoice
	err := t.db.QueryRow(ctx, query, id).Scan(&inv.ID, &inv.InvoiceNo, &inv.ContractorID,
		&inv.Date, &inv.TotalAmount, &inv.PaidAmount, &inv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: invoice", httpx.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: lock invoice: %v", httpx.ErrPersistence, err)
	}
	inv.Status = DeriveStatus(inv.TotalAmount, inv.PaidAmount)
	return &inv, nil
}

// GetPaymentForUpdate locks the payment row so a concurrent move of the
// same payment cannot slip between the read and the recompute.
func (t *txRepo) GetPaymentForUpdate(ctx context.Context, id int64) (*Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 FOR UPDATE`
	return scanPayment(t.db.QueryRow(ctx, query, id))
}

func (t *txRepo) InsertPayment(ctx context.Context, input RecordPaymentInput) (*Payment, error) {
	query := `
		INSERT INTO payments (invoice_id, date, type, amount, cheque_no, bank_name, cheque_image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING ` + paymentColumns
	return scanPayment(t.db.QueryRow(ctx, query,
		input.InvoiceID, input.Date, input.Type, input.Amount,
		input.ChequeNo, input.BankName, input.ChequeImageURL))
}

func (t *txRepo) UpdatePaymentRow(ctx context.Context, id int64, input RecordPaymentInput) (*Payment, error) {
	query := `
		UPDATE payments
		SET invoice_id = $2, date = $3, type = $4, amount = $5, cheque_no = $6, bank_name = $7, cheque_image_url = $8
		WHERE id = $1
		RETURNING ` + paymentColumns
	return scanPayment(t.db.QueryRow(ctx, query,
		id, input.InvoiceID, input.Date, input.Type, input.Amount,
		input.ChequeNo, input.BankName, input.ChequeImageURL))
}

func (t *txRepo) DeletePaymentRow(ctx context.Context, id int64) error {
	result, err := t.db.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete payment: %v", httpx.ErrPersistence, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment", httpx.ErrNotFound)
	}
	return nil
}

// RecomputePaidAmount rewrites the cached paid amount from the payment rows.
// Running it twice in a row is a no-op.
func (t *txRepo) RecomputePaidAmount(ctx context.Context, invoiceID int64) (float64, error) {
	query := `
		UPDATE invoices
		SET paid_amount = COALESCE((SELECT SUM(amount) FROM payments WHERE invoice_id = $1), 0)
		WHERE id = $1
		RETURNING paid_amount`
	var paid float64
	if err := t.db.QueryRow(ctx, query, invoiceID).Scan(&paid); err != nil {
		return 0, fmt.Errorf("%w: recompute paid amount: %v", httpx.ErrPersistence, err)
	}
	return paid, nil
}
