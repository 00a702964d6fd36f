package fuel

import (
	"context"
	"fmt"
	"regexp"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

// RepositoryPort defines data access methods for diesel records.
type RepositoryPort interface {
	CreateRecord(ctx context.Context, input CreateDieselInput) (*DieselRecord, error)
	GetRecord(ctx context.Context, id int64) (*DieselRecord, error)
	ListRecords(ctx context.Context, vehicleID int64) ([]DieselRecord, error)
	UpdateRecord(ctx context.Context, id int64, input CreateDieselInput) (*DieselRecord, error)
	DeleteRecord(ctx context.Context, id int64) error
	MonthlySummaries(ctx context.Context, month string) ([]MonthlySummary, error)
}

// Service handles diesel tracking business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

func validateDieselInput(input CreateDieselInput) error {
	if input.Date.IsZero() {
		return fmt.Errorf("%w: date is required", httpx.ErrValidation)
	}
	if input.VehicleID == 0 {
		return fmt.Errorf("%w: vehicle is required", httpx.ErrValidation)
	}
	if input.Liters <= 0 {
		return fmt.Errorf("%w: liters must be positive", httpx.ErrValidation)
	}
	if input.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", httpx.ErrValidation)
	}
	if input.Odometer < 0 {
		return fmt.Errorf("%w: odometer cannot be negative", httpx.ErrValidation)
	}
	return nil
}

// CreateRecord logs a refuelling.
func (s *Service) CreateRecord(ctx context.Context, input CreateDieselInput) (*DieselRecord, error) {
	if err := validateDieselInput(input); err != nil {
		return nil, err
	}
	return s.repo.CreateRecord(ctx, input)
}

// GetRecord returns a single diesel record.
func (s *Service) GetRecord(ctx context.Context, id int64) (*DieselRecord, error) {
	return s.repo.GetRecord(ctx, id)
}

// ListRecords returns records, optionally filtered by vehicle.
func (s *Service) ListRecords(ctx context.Context, vehicleID int64) ([]DieselRecord, error) {
	return s.repo.ListRecords(ctx, vehicleID)
}

// UpdateRecord overwrites a record's fields.
func (s *Service) UpdateRecord(ctx context.Context, id int64, input CreateDieselInput) (*DieselRecord, error) {
	if err := validateDieselInput(input); err != nil {
		return nil, err
	}
	return s.repo.UpdateRecord(ctx, id, input)
}

// DeleteRecord removes a record.
func (s *Service) DeleteRecord(ctx context.Context, id int64) error {
	return s.repo.DeleteRecord(ctx, id)
}

// MonthlySummaries aggregates per-vehicle fuel spend for a YYYY-MM month.
func (s *Service) MonthlySummaries(ctx context.Context, month string) ([]MonthlySummary, error) {
	if !monthPattern.MatchString(month) {
		return nil, fmt.Errorf("%w: month must be YYYY-MM", httpx.ErrValidation)
	}
	return s.repo.MonthlySummaries(ctx, month)
}
