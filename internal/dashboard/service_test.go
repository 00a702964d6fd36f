package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haulbooks/haulbooks/internal/rates"
)

type staticStats struct {
	trips       TripCounts
	receivables ReceivableTotals
	diesel      DieselTotals
	err         error
}

func (s *staticStats) TripCounts(context.Context) (TripCounts, error) {
	return s.trips, s.err
}

func (s *staticStats) ReceivableTotals(context.Context) (ReceivableTotals, error) {
	return s.receivables, s.err
}

func (s *staticStats) DieselMonthTotals(_ context.Context, month string) (DieselTotals, error) {
	d := s.diesel
	d.Month = month
	return d, s.err
}

type staticRateReports struct {
	estimate  rates.BatchEstimate
	conflicts []rates.Conflict
}

func (s *staticRateReports) EstimateRevenue(context.Context) (rates.BatchEstimate, error) {
	return s.estimate, nil
}

func (s *staticRateReports) ConflictReport(context.Context) ([]rates.Conflict, error) {
	return s.conflicts, nil
}

func TestSummaryAggregates(t *testing.T) {
	stats := &staticStats{
		trips:       TripCounts{Total: 40, Unbilled: 12},
		receivables: ReceivableTotals{OpenInvoices: 3, Invoiced: 9000, Paid: 6500, Outstanding: 2500},
		diesel:      DieselTotals{Liters: 800, Amount: 2400},
	}
	reports := &staticRateReports{
		estimate:  rates.BatchEstimate{MatchedCount: 35, TotalCount: 40, TotalRevenue: 8800},
		conflicts: []rates.Conflict{{Material: "sand"}},
	}

	svc := NewService(stats, reports)
	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	require.Equal(t, int64(12), summary.Trips.Unbilled)
	require.InDelta(t, 2500, summary.Receivables.Outstanding, 0.001)
	require.Equal(t, 1, summary.Conflicts)
	require.Equal(t, 35, summary.Revenue.MatchedCount)
	require.NotEmpty(t, summary.Diesel.Month)
}

func TestSummaryPropagatesErrors(t *testing.T) {
	stats := &staticStats{err: errors.New("pool closed")}
	svc := NewService(stats, &staticRateReports{})

	_, err := svc.Summary(context.Background())
	require.Error(t, err)
}
