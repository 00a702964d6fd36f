package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/haulbooks/haulbooks/internal/rates"
)

// StatsPort supplies the ledger-side aggregates.
type StatsPort interface {
	TripCounts(ctx context.Context) (TripCounts, error)
	ReceivableTotals(ctx context.Context) (ReceivableTotals, error)
	DieselMonthTotals(ctx context.Context, month string) (DieselTotals, error)
}

// RateReportPort supplies the pricing-side reports.
type RateReportPort interface {
	EstimateRevenue(ctx context.Context) (rates.BatchEstimate, error)
	ConflictReport(ctx context.Context) ([]rates.Conflict, error)
}

// Service aggregates the overview numbers shown on the landing screen.
type Service struct {
	stats StatsPort
	rates RateReportPort
	now   func() time.Time
}

// NewService builds a Service instance.
func NewService(stats StatsPort, rateReports RateReportPort) *Service {
	return &Service{stats: stats, rates: rateReports, now: time.Now}
}

// Summary fans the independent aggregate queries out concurrently and
// fails fast if any of them errors.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	var summary Summary

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		counts, err := s.stats.TripCounts(ctx)
		if err != nil {
			return err
		}
		summary.Trips = counts
		return nil
	})

	g.Go(func() error {
		totals, err := s.stats.ReceivableTotals(ctx)
		if err != nil {
			return err
		}
		summary.Receivables = totals
		return nil
	})

	g.Go(func() error {
		diesel, err := s.stats.DieselMonthTotals(ctx, s.now().Format("2006-01"))
		if err != nil {
			return err
		}
		summary.Diesel = diesel
		return nil
	})

	g.Go(func() error {
		estimate, err := s.rates.EstimateRevenue(ctx)
		if err != nil {
			return err
		}
		summary.Revenue = estimate
		return nil
	})

	g.Go(func() error {
		conflicts, err := s.rates.ConflictReport(ctx)
		if err != nil {
			return err
		}
		summary.Conflicts = len(conflicts)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return summary, nil
}
