package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/haulbooks/haulbooks/internal/rates"
)

// RunRateConflictScan audits the price list for entries that share a
// normalized route but disagree on price, and logs each one.
func RunRateConflictScan(ctx context.Context, svc *rates.Service, logger *slog.Logger) error {
	conflicts, err := svc.ConflictReport(ctx)
	if err != nil {
		return err
	}
	for _, c := range conflicts {
		logger.Warn("conflicting price list entries",
			slog.String("material", c.Material),
			slog.String("from", c.From),
			slog.String("to", c.To),
			slog.Int("entries", len(c.Entries)),
		)
	}
	logger.Info("rate conflict scan done",
		slog.String("job", TaskRateConflictScan),
		slog.Int("conflicts", len(conflicts)),
	)
	return nil
}

// NewRateConflictScanHandler adapts the scan to the Asynq handler signature.
func NewRateConflictScanHandler(svc *rates.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		return RunRateConflictScan(ctx, svc, logger)
	}
}
