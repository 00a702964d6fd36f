package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerIntegrityChecker finds invoices whose cached paid amount drifted
// from the payment sum and optionally repairs them. Drift should not happen
// while all mutations recompute in-transaction; the scan exists to catch
// rows touched outside the application.
type LedgerIntegrityChecker struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewLedgerIntegrityChecker constructs a checker.
func NewLedgerIntegrityChecker(pool *pgxpool.Pool, logger *slog.Logger) *LedgerIntegrityChecker {
	return &LedgerIntegrityChecker{pool: pool, logger: logger}
}

type driftRow struct {
	InvoiceID int64
	Cached    float64
	Actual    float64
}

// Run scans for drift and logs every mismatch. With repair set, the cached
// amounts are rewritten to the payment sums.
func (c *LedgerIntegrityChecker) Run(ctx context.Context, invoiceID int64, repair bool) (int, error) {
	query := `
		SELECT i.id, i.paid_amount, COALESCE(SUM(p.amount), 0)
		FROM invoices i
		LEFT JOIN payments p ON p.invoice_id = i.id
		WHERE ($1 = 0 OR i.id = $1)
		GROUP BY i.id, i.paid_amount
		HAVING ABS(i.paid_amount - COALESCE(SUM(p.amount), 0)) > 0.001`
	rows, err := c.pool.Query(ctx, query, invoiceID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var drifted []driftRow
	for rows.Next() {
		var d driftRow
		if err := rows.Scan(&d.InvoiceID, &d.Cached, &d.Actual); err != nil {
			return 0, err
		}
		drifted = append(drifted, d)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, d := range drifted {
		c.logger.Warn("invoice paid amount drift",
			slog.Int64("invoice_id", d.InvoiceID),
			slog.Float64("cached", d.Cached),
			slog.Float64("actual", d.Actual),
		)
		if !repair {
			continue
		}
		fix := `
			UPDATE invoices
			SET paid_amount = COALESCE((SELECT SUM(amount) FROM payments WHERE invoice_id = $1), 0)
			WHERE id = $1`
		if _, err := c.pool.Exec(ctx, fix, d.InvoiceID); err != nil {
			return len(drifted), err
		}
	}

	c.logger.Info("ledger integrity scan done",
		slog.String("job", TaskLedgerIntegrity),
		slog.Int("drifted", len(drifted)),
		slog.Bool("repair", repair),
	)
	return len(drifted), nil
}

// HandleTask adapts the checker to the Asynq handler signature.
func (c *LedgerIntegrityChecker) HandleTask(ctx context.Context, t *asynq.Task) error {
	var payload LedgerIntegrityPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	_, err := c.Run(ctx, payload.InvoiceID, payload.Repair)
	return err
}
