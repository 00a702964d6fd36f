package dashboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

// Repository reads the overview aggregates straight from the ledger tables.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TripCounts returns total and unbilled trip counts.
func (repo *Repository) TripCounts(ctx context.Context) (TripCounts, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE invoice_id IS NULL)
		FROM trips`
	var counts TripCounts
	if err := repo.pool.QueryRow(ctx, query).Scan(&counts.Total, &counts.Unbilled); err != nil {
		return TripCounts{}, fmt.Errorf("%w: trip counts: %v", httpx.ErrPersistence, err)
	}
	return counts, nil
}

// ReceivableTotals sums the invoice ledger. An invoice is open while its
// cached paid_amount is below its total.
func (repo *Repository) ReceivableTotals(ctx context.Context) (ReceivableTotals, error) {
	query := `
		SELECT COUNT(*) FILTER (WHERE paid_amount < total_amount),
			COALESCE(SUM(total_amount), 0),
			COALESCE(SUM(paid_amount), 0)
		FROM invoices`
	var totals ReceivableTotals
	if err := repo.pool.QueryRow(ctx, query).Scan(&totals.OpenInvoices, &totals.Invoiced, &totals.Paid); err != nil {
		return ReceivableTotals{}, fmt.Errorf("%w: receivable totals: %v", httpx.ErrPersistence, err)
	}
	totals.Outstanding = totals.Invoiced - totals.Paid
	return totals, nil
}

// DieselMonthTotals sums fuel liters and spend for one YYYY-MM month.
func (repo *Repository) DieselMonthTotals(ctx context.Context, month string) (DieselTotals, error) {
	query := `
		SELECT COALESCE(SUM(liters), 0), COALESCE(SUM(amount), 0)
		FROM diesel_records
		WHERE to_char(date, 'YYYY-MM') = $1`
	totals := DieselTotals{Month: month}
	if err := repo.pool.QueryRow(ctx, query, month).Scan(&totals.Liters, &totals.Amount); err != nil {
		return DieselTotals{}, fmt.Errorf("%w: diesel totals: %v", httpx.ErrPersistence, err)
	}
	return totals, nil
}
