package fleet

import (
	"context"
	"fmt"
	"strings"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

// RepositoryPort defines data access methods for vehicles and drivers.
type RepositoryPort interface {
	CreateVehicle(ctx context.Context, input CreateVehicleInput) (*Vehicle, error)
	GetVehicle(ctx context.Context, id int64) (*Vehicle, error)
	ListVehicles(ctx context.Context, activeOnly bool) ([]Vehicle, error)
	UpdateVehicle(ctx context.Context, id int64, input CreateVehicleInput) (*Vehicle, error)
	DeleteVehicle(ctx context.Context, id int64) error
	CountVehicleTrips(ctx context.Context, vehicleID int64) (int64, error)

	CreateDriver(ctx context.Context, input CreateDriverInput) (*Driver, error)
	GetDriver(ctx context.Context, id int64) (*Driver, error)
	ListDrivers(ctx context.Context, activeOnly bool) ([]Driver, error)
	UpdateDriver(ctx context.Context, id int64, input CreateDriverInput) (*Driver, error)
	DeleteDriver(ctx context.Context, id int64) error
	CountDriverTrips(ctx context.Context, driverID int64) (int64, error)
}

// Service handles fleet business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateVehicle registers a vehicle.
func (s *Service) CreateVehicle(ctx context.Context, input CreateVehicleInput) (*Vehicle, error) {
	if strings.TrimSpace(input.PlateNo) == "" {
		return nil, fmt.Errorf("%w: plate number is required", httpx.ErrValidation)
	}
	return s.repo.CreateVehicle(ctx, input)
}

// GetVehicle returns a single vehicle.
func (s *Service) GetVehicle(ctx context.Context, id int64) (*Vehicle, error) {
	return s.repo.GetVehicle(ctx, id)
}

// ListVehicles returns vehicles, optionally only active ones.
func (s *Service) ListVehicles(ctx context.Context, activeOnly bool) ([]Vehicle, error) {
	return s.repo.ListVehicles(ctx, activeOnly)
}

// UpdateVehicle overwrites a vehicle's fields.
func (s *Service) UpdateVehicle(ctx context.Context, id int64, input CreateVehicleInput) (*Vehicle, error) {
	if strings.TrimSpace(input.PlateNo) == "" {
		return nil, fmt.Errorf("%w: plate number is required", httpx.ErrValidation)
	}
	return s.repo.UpdateVehicle(ctx, id, input)
}

// DeleteVehicle removes a vehicle with no logged trips. Vehicles with trip
// history are deactivated instead to keep old trips resolvable.
func (s *Service) DeleteVehicle(ctx context.Context, id int64) error {
	count, err := s.repo.CountVehicleTrips(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: vehicle has %d trips; deactivate it instead", httpx.ErrValidation, count)
	}
	return s.repo.DeleteVehicle(ctx, id)
}

// CreateDriver registers a driver.
func (s *Service) CreateDriver(ctx context.Context, input CreateDriverInput) (*Driver, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: driver name is required", httpx.ErrValidation)
	}
	return s.repo.CreateDriver(ctx, input)
}

// GetDriver returns a single driver.
func (s *Service) GetDriver(ctx context.Context, id int64) (*Driver, error) {
	return s.repo.GetDriver(ctx, id)
}

// ListDrivers returns drivers, optionally only active ones.
func (s *Service) ListDrivers(ctx context.Context, activeOnly bool) ([]Driver, error) {
	return s.repo.ListDrivers(ctx, activeOnly)
}

// UpdateDriver overwrites a driver's fields.
func (s *Service) UpdateDriver(ctx context.Context, id int64, input CreateDriverInput) (*Driver, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: driver name is required", httpx.ErrValidation)
	}
	return s.repo.UpdateDriver(ctx, id, input)
}

// DeleteDriver removes a driver with no logged trips.
func (s *Service) DeleteDriver(ctx context.Context, id int64) error {
	count, err := s.repo.CountDriverTrips(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: driver has %d trips; deactivate them instead", httpx.ErrValidation, count)
	}
	return s.repo.DeleteDriver(ctx, id)
}
