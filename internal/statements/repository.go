package statements

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

// Repository persists statement snapshots and reads ledger data for the
// builder. The details column is JSONB holding the rendered document.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveStatement inserts a snapshot. Snapshots are insert-only.
func (repo *Repository) SaveStatement(ctx context.Context, st *Statement) error {
	details, err := json.Marshal(st.Document)
	if err != nil {
		return fmt.Errorf("%w: marshal statement: %v", httpx.ErrPersistence, err)
	}
	query := `
		INSERT INTO statements (id, contractor_id, site_id, name, type, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := repo.pool.Exec(ctx, query, st.ID, st.ContractorID, st.SiteID, st.Name, st.Type, details, st.CreatedAt); err != nil {
		return fmt.Errorf("%w: save statement: %v", httpx.ErrPersistence, err)
	}
	return nil
}

// GetStatement returns one snapshot.
func (repo *Repository) GetStatement(ctx context.Context, id string) (*Statement, error) {
	query := `SELECT id, contractor_id, site_id, name, type, details, created_at FROM statements WHERE id = $1`
	var st Statement
	var details []byte
	err := repo.pool.QueryRow(ctx, query, id).Scan(&st.ID, &st.ContractorID, &st.SiteID, &st.Name, &st.Type, &details, &st.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: statement", httpx.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get statement: %v", httpx.ErrPersistence, err)
	}
	if err := json.Unmarshal(details, &st.Document); err != nil {
		return nil, fmt.Errorf("%w: decode statement: %v", httpx.ErrPersistence, err)
	}
	return &st, nil
}

// ListStatements returns snapshots newest first.
func (repo *Repository) ListStatements(ctx context.Context, contractorID int64) ([]Statement, error) {
	query := `SELECT id, contractor_id, site_id, name, type, details, created_at FROM statements`
	args := []any{}
	if contractorID > 0 {
		query += ` WHERE contractor_id = $1`
		args = append(args, contractorID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := repo.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list statements: %v", httpx.ErrPersistence, err)
	}
	defer rows.Close()

	var statements []Statement
	for rows.Next() {
		var st Statement
		var details []byte
		if err := rows.Scan(&st.ID, &st.ContractorID, &st.SiteID, &st.Name, &st.Type, &details, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan statement: %v", httpx.ErrPersistence, err)
		}
		if err := json.Unmarshal(details, &st.Document); err != nil {
			return nil, fmt.Errorf("%w: decode statement: %v", httpx.ErrPersistence, err)
		}
		statements = append(statements, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list statements: %v", httpx.ErrPersistence, err)
	}
	return statements, nil
}

// Source reads the ledger tables feeding the builder.
type Source struct {
	pool *pgxpool.Pool
}

// NewSource constructs a ledger source.
func NewSource(pool *pgxpool.Pool) *Source {
	return &Source{pool: pool}
}

// ContractorName looks up a contractor's display name.
func (src *Source) ContractorName(ctx context.Context, contractorID int64) (string, error) {
	var name string
	err := src.pool.QueryRow(ctx, `SELECT name FROM contractors WHERE id = $1`, contractorID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: contractor", httpx.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("%w: contractor name: %v", httpx.ErrPersistence, err)
	}
	return name, nil
}

// SiteInfo looks up a site's display name and LPO number.
func (src *Source) SiteInfo(ctx context.Context, siteID int64) (string, string, error) {
	var name, lpoNo string
	err := src.pool.QueryRow(ctx, `SELECT name, lpo_no FROM sites WHERE id = $1`, siteID).Scan(&name, &lpoNo)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", fmt.Errorf("%w: site", httpx.ErrNotFound)
	}
	if err != nil {
		return "", "", fmt.Errorf("%w: site info: %v", httpx.ErrPersistence, err)
	}
	return name, lpoNo, nil
}

// ListInvoiceEntries returns the selected invoices of a contractor as
// credit entries, in insertion order. Selected IDs belonging to another
// contractor are dropped.
func (src *Source) ListInvoiceEntries(ctx context.Context, contractorID int64, invoiceIDs []int64) ([]LedgerEntry, error) {
	if len(invoiceIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT date, 'Invoice ' || invoice_no, total_amount
		FROM invoices
		WHERE contractor_id = $1 AND id = ANY($2)
		ORDER BY id`
	return src.listEntries(ctx, query, contractorID, invoiceIDs)
}

// ListPaymentEntries returns the selected payments against the contractor's
// invoices as debit entries, in insertion order.
func (src *Source) ListPaymentEntries(ctx context.Context, contractorID int64, paymentIDs []int64) ([]LedgerEntry, error) {
	if len(paymentIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT p.date,
			CASE WHEN p.cheque_no <> '' THEN 'Payment cheque ' || p.cheque_no ELSE 'Payment' END,
			p.amount
		FROM payments p
		JOIN invoices i ON i.id = p.invoice_id
		WHERE i.contractor_id = $1 AND p.id = ANY($2)
		ORDER BY p.id`
	return src.listEntries(ctx, query, contractorID, paymentIDs)
}

func (src *Source) listEntries(ctx context.Context, query string, contractorID int64, ids []int64) ([]LedgerEntry, error) {
	rows, err := src.pool.Query(ctx, query, contractorID, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: list ledger entries: %v", httpx.ErrPersistence, err)
	}
	defer rows.Close()

	var entries []LedgerEntry
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(&e.Date, &e.Description, &e.Amount); err != nil {
			return nil, fmt.Errorf("%w: scan ledger entry: %v", httpx.ErrPersistence, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list ledger entries: %v", httpx.ErrPersistence, err)
	}
	return entries, nil
}
