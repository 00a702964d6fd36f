package trips

import (
	"context"
	"fmt"
	"strings"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

// RepositoryPort defines data access methods for trips.
type RepositoryPort interface {
	CreateTrip(ctx context.Context, input CreateTripInput) (*Trip, error)
	GetTrip(ctx context.Context, id int64) (*Trip, error)
	ListTrips(ctx context.Context, req ListTripsRequest) ([]Trip, error)
	UpdateTrip(ctx context.Context, id int64, input CreateTripInput) (*Trip, error)
	DeleteTrip(ctx context.Context, id int64) error
}

// Service handles trip business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func validateTripInput(input CreateTripInput) error {
	if input.Date.IsZero() {
		return fmt.Errorf("%w: trip date is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(input.MaterialType) == "" {
		return fmt.Errorf("%w: material type is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(input.FromLocation) == "" || strings.TrimSpace(input.ToLocation) == "" {
		return fmt.Errorf("%w: both locations are required", httpx.ErrValidation)
	}
	if input.DriverID == 0 {
		return fmt.Errorf("%w: driver is required", httpx.ErrValidation)
	}
	if input.VehicleID == 0 {
		return fmt.Errorf("%w: vehicle is required", httpx.ErrValidation)
	}
	return nil
}

// CreateTrip logs a haul.
func (s *Service) CreateTrip(ctx context.Context, input CreateTripInput) (*Trip, error) {
	if err := validateTripInput(input); err != nil {
		return nil, err
	}
	return s.repo.CreateTrip(ctx, input)
}

// GetTrip returns a single trip.
func (s *Service) GetTrip(ctx context.Context, id int64) (*Trip, error) {
	return s.repo.GetTrip(ctx, id)
}

// ListTrips returns trips matching the filter.
func (s *Service) ListTrips(ctx context.Context, req ListTripsRequest) ([]Trip, error) {
	if req.Limit <= 0 || req.Limit > 500 {
		req.Limit = 100
	}
	return s.repo.ListTrips(ctx, req)
}

// UpdateTrip overwrites a trip's fields. Invoiced trips stay editable in
// practice; revenue reporting tolerates this because estimates resolve at
// read time.
func (s *Service) UpdateTrip(ctx context.Context, id int64, input CreateTripInput) (*Trip, error) {
	if err := validateTripInput(input); err != nil {
		return nil, err
	}
	return s.repo.UpdateTrip(ctx, id, input)
}

// DeleteTrip removes a trip. Trips already billed on an invoice are kept.
func (s *Service) DeleteTrip(ctx context.Context, id int64) error {
	trip, err := s.repo.GetTrip(ctx, id)
	if err != nil {
		return err
	}
	if trip.InvoiceID != nil {
		return fmt.Errorf("%w: trip is attached to an invoice", httpx.ErrValidation)
	}
	return s.repo.DeleteTrip(ctx, id)
}
