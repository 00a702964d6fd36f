package trips

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

type memoryTripRepo struct {
	trips  map[int64]*Trip
	nextID int64
}

func newMemoryTripRepo() *memoryTripRepo {
	return &memoryTripRepo{trips: map[int64]*Trip{}, nextID: 1}
}

func (m *memoryTripRepo) CreateTrip(_ context.Context, input CreateTripInput) (*Trip, error) {
	t := &Trip{
		ID:           m.nextID,
		Date:         input.Date,
		MaterialType: input.MaterialType,
		FromLocation: input.FromLocation,
		ToLocation:   input.ToLocation,
		DriverID:     input.DriverID,
		VehicleID:    input.VehicleID,
		CreatedAt:    time.Now(),
	}
	m.trips[m.nextID] = t
	m.nextID++
	return t, nil
}

func (m *memoryTripRepo) GetTrip(_ context.Context, id int64) (*Trip, error) {
	t, ok := m.trips[id]
	if !ok {
		return nil, fmt.Errorf("%w: trip", httpx.ErrNotFound)
	}
	return t, nil
}

func (m *memoryTripRepo) ListTrips(_ context.Context, req ListTripsRequest) ([]Trip, error) {
	var out []Trip
	for _, t := range m.trips {
		if req.DriverID > 0 && t.DriverID != req.DriverID {
			continue
		}
		if req.Unbilled && t.InvoiceID != nil {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (m *memoryTripRepo) UpdateTrip(_ context.Context, id int64, input CreateTripInput) (*Trip, error) {
	t, ok := m.trips[id]
	if !ok {
		return nil, fmt.Errorf("%w: trip", httpx.ErrNotFound)
	}
	t.Date = input.Date
	t.MaterialType = input.MaterialType
	t.FromLocation = input.FromLocation
	t.ToLocation = input.ToLocation
	t.DriverID = input.DriverID
	t.VehicleID = input.VehicleID
	return t, nil
}

func (m *memoryTripRepo) DeleteTrip(_ context.Context, id int64) error {
	if _, ok := m.trips[id]; !ok {
		return fmt.Errorf("%w: trip", httpx.ErrNotFound)
	}
	delete(m.trips, id)
	return nil
}

func validInput() CreateTripInput {
	return CreateTripInput{
		Date:         time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		MaterialType: "Sand",
		FromLocation: "Pit 1",
		ToLocation:   "Site A",
		DriverID:     1,
		VehicleID:    2,
	}
}

func TestCreateTripValidation(t *testing.T) {
	svc := NewService(newMemoryTripRepo())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateTripInput)
	}{
		{"missing date", func(in *CreateTripInput) { in.Date = time.Time{} }},
		{"missing material", func(in *CreateTripInput) { in.MaterialType = "  " }},
		{"missing from", func(in *CreateTripInput) { in.FromLocation = "" }},
		{"missing to", func(in *CreateTripInput) { in.ToLocation = "" }},
		{"missing driver", func(in *CreateTripInput) { in.DriverID = 0 }},
		{"missing vehicle", func(in *CreateTripInput) { in.VehicleID = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)
			_, err := svc.CreateTrip(ctx, input)
			require.True(t, errors.Is(err, httpx.ErrValidation))
		})
	}
}

func TestCreateAndGetTrip(t *testing.T) {
	svc := NewService(newMemoryTripRepo())
	ctx := context.Background()

	created, err := svc.CreateTrip(ctx, validInput())
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := svc.GetTrip(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Sand", got.MaterialType)
}

func TestDeleteInvoicedTripRejected(t *testing.T) {
	repo := newMemoryTripRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.CreateTrip(ctx, validInput())
	require.NoError(t, err)

	invoiceID := int64(7)
	repo.trips[created.ID].InvoiceID = &invoiceID

	err = svc.DeleteTrip(ctx, created.ID)
	require.True(t, errors.Is(err, httpx.ErrValidation))

	_, err = svc.GetTrip(ctx, created.ID)
	require.NoError(t, err)
}

func TestDeleteUnbilledTrip(t *testing.T) {
	svc := NewService(newMemoryTripRepo())
	ctx := context.Background()

	created, err := svc.CreateTrip(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTrip(ctx, created.ID))

	_, err = svc.GetTrip(ctx, created.ID)
	require.True(t, errors.Is(err, httpx.ErrNotFound))
}

func TestListTripsDefaultLimit(t *testing.T) {
	repo := newMemoryTripRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.CreateTrip(ctx, validInput())
	require.NoError(t, err)

	list, err := svc.ListTrips(ctx, ListTripsRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
}
