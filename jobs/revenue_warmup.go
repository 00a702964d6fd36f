package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/haulbooks/haulbooks/internal/rates"
)

// RunRevenueWarmup computes the revenue estimate so the first dashboard
// request after a price list change hits a warm cache.
func RunRevenueWarmup(ctx context.Context, svc *rates.Service, logger *slog.Logger) error {
	est, err := svc.EstimateRevenue(ctx)
	if err != nil {
		return err
	}
	logger.Info("revenue cache warmed",
		slog.String("job", TaskRevenueWarmup),
		slog.Int("matched", est.MatchedCount),
		slog.Int("total", est.TotalCount),
		slog.Float64("revenue", est.TotalRevenue),
	)
	return nil
}

// NewRevenueWarmupHandler adapts the warmup to the Asynq handler signature.
func NewRevenueWarmupHandler(svc *rates.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		return RunRevenueWarmup(ctx, svc, logger)
	}
}
