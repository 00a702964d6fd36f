package fuel

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

type memoryFuelRepo struct {
	records map[int64]*DieselRecord
	nextID  int64
}

func newMemoryFuelRepo() *memoryFuelRepo {
	return &memoryFuelRepo{records: map[int64]*DieselRecord{}, nextID: 1}
}

func (m *memoryFuelRepo) CreateRecord(_ context.Context, input CreateDieselInput) (*DieselRecord, error) {
	rec := &DieselRecord{
		ID:        m.nextID,
		Date:      input.Date,
		VehicleID: input.VehicleID,
		DriverID:  input.DriverID,
		Liters:    input.Liters,
		Amount:    input.Amount,
		Station:   input.Station,
		Odometer:  input.Odometer,
		CreatedAt: time.Now(),
	}
	m.records[m.nextID] = rec
	m.nextID++
	return rec, nil
}

func (m *memoryFuelRepo) GetRecord(_ context.Context, id int64) (*DieselRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: diesel record", httpx.ErrNotFound)
	}
	return rec, nil
}

func (m *memoryFuelRepo) ListRecords(_ context.Context, vehicleID int64) ([]DieselRecord, error) {
	var out []DieselRecord
	for _, rec := range m.records {
		if vehicleID > 0 && rec.VehicleID != vehicleID {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (m *memoryFuelRepo) UpdateRecord(_ context.Context, id int64, input CreateDieselInput) (*DieselRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: diesel record", httpx.ErrNotFound)
	}
	rec.Date = input.Date
	rec.VehicleID = input.VehicleID
	rec.DriverID = input.DriverID
	rec.Liters = input.Liters
	rec.Amount = input.Amount
	rec.Station = input.Station
	rec.Odometer = input.Odometer
	return rec, nil
}

func (m *memoryFuelRepo) DeleteRecord(_ context.Context, id int64) error {
	if _, ok := m.records[id]; !ok {
		return fmt.Errorf("%w: diesel record", httpx.ErrNotFound)
	}
	delete(m.records, id)
	return nil
}

func (m *memoryFuelRepo) MonthlySummaries(_ context.Context, month string) ([]MonthlySummary, error) {
	byVehicle := map[int64]*MonthlySummary{}
	for _, rec := range m.records {
		if rec.Date.Format("2006-01") != month {
			continue
		}
		s, ok := byVehicle[rec.VehicleID]
		if !ok {
			s = &MonthlySummary{VehicleID: rec.VehicleID, Month: month}
			byVehicle[rec.VehicleID] = s
		}
		s.TotalLiters += rec.Liters
		s.TotalAmount += rec.Amount
		s.FillCount++
	}
	var out []MonthlySummary
	for _, s := range byVehicle {
		out = append(out, *s)
	}
	return out, nil
}

func validDiesel() CreateDieselInput {
	return CreateDieselInput{
		Date:      time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		VehicleID: 1,
		DriverID:  2,
		Liters:    120,
		Amount:    360,
		Station:   "ENOC",
		Odometer:  154300,
	}
}

func TestCreateRecordValidation(t *testing.T) {
	svc := NewService(newMemoryFuelRepo())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateDieselInput)
	}{
		{"missing date", func(in *CreateDieselInput) { in.Date = time.Time{} }},
		{"missing vehicle", func(in *CreateDieselInput) { in.VehicleID = 0 }},
		{"zero liters", func(in *CreateDieselInput) { in.Liters = 0 }},
		{"negative amount", func(in *CreateDieselInput) { in.Amount = -5 }},
		{"negative odometer", func(in *CreateDieselInput) { in.Odometer = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validDiesel()
			tc.mutate(&input)
			_, err := svc.CreateRecord(ctx, input)
			require.True(t, errors.Is(err, httpx.ErrValidation))
		})
	}
}

func TestMonthlySummaryAggregation(t *testing.T) {
	svc := NewService(newMemoryFuelRepo())
	ctx := context.Background()

	first := validDiesel()
	_, err := svc.CreateRecord(ctx, first)
	require.NoError(t, err)

	second := validDiesel()
	second.Date = time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	second.Liters = 80
	second.Amount = 240
	_, err = svc.CreateRecord(ctx, second)
	require.NoError(t, err)

	other := validDiesel()
	other.Date = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.CreateRecord(ctx, other)
	require.NoError(t, err)

	summaries, err := svc.MonthlySummaries(ctx, "2025-06")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.InDelta(t, 200, summaries[0].TotalLiters, 0.001)
	require.InDelta(t, 600, summaries[0].TotalAmount, 0.001)
	require.EqualValues(t, 2, summaries[0].FillCount)
}

func TestMonthlySummaryRejectsBadMonth(t *testing.T) {
	svc := NewService(newMemoryFuelRepo())

	_, err := svc.MonthlySummaries(context.Background(), "June 2025")
	require.True(t, errors.Is(err, httpx.ErrValidation))
}
