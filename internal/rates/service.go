package rates

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

// RepositoryPort defines data access methods for the price list.
type RepositoryPort interface {
	ListRates(ctx context.Context) ([]Rate, error)
	GetRate(ctx context.Context, id int64) (*Rate, error)
	CreateRate(ctx context.Context, input CreateRateInput) (*Rate, error)
	UpdateRate(ctx context.Context, id int64, input CreateRateInput) (*Rate, error)
	DeleteRate(ctx context.Context, id int64) error
}

// TripSourcePort supplies the trip view consumed by reports. Implemented by
// the trips repository; kept as a port so reports run against fakes in tests.
type TripSourcePort interface {
	ListTripRefs(ctx context.Context) ([]TripRef, error)
}

// Service handles price list maintenance and the read-only reports.
type Service struct {
	repo  RepositoryPort
	trips TripSourcePort
	cache *Cache
	group singleflight.Group
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, trips TripSourcePort, cache *Cache) *Service {
	return &Service{repo: repo, trips: trips, cache: cache}
}

func validateRateInput(input CreateRateInput) error {
	if input.SiteID == 0 {
		return fmt.Errorf("%w: site is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(input.Material) == "" {
		return fmt.Errorf("%w: material is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(input.LocationFrom) == "" || strings.TrimSpace(input.LocationTo) == "" {
		return fmt.Errorf("%w: both locations are required", httpx.ErrValidation)
	}
	if input.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", httpx.ErrValidation)
	}
	return nil
}

// CreateRate adds a priced route and invalidates cached reports.
func (s *Service) CreateRate(ctx context.Context, input CreateRateInput) (*Rate, error) {
	if err := validateRateInput(input); err != nil {
		return nil, err
	}
	rate, err := s.repo.CreateRate(ctx, input)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Bump(ctx)
	return rate, nil
}

// UpdateRate overwrites a rate's fields and invalidates cached reports.
func (s *Service) UpdateRate(ctx context.Context, id int64, input CreateRateInput) (*Rate, error) {
	if err := validateRateInput(input); err != nil {
		return nil, err
	}
	rate, err := s.repo.UpdateRate(ctx, id, input)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Bump(ctx)
	return rate, nil
}

// DeleteRate removes a rate and invalidates cached reports.
func (s *Service) DeleteRate(ctx context.Context, id int64) error {
	if err := s.repo.DeleteRate(ctx, id); err != nil {
		return err
	}
	return s.cache.Bump(ctx)
}

// GetRate returns a single rate.
func (s *Service) GetRate(ctx context.Context, id int64) (*Rate, error) {
	return s.repo.GetRate(ctx, id)
}

// ListRates returns the full price list in creation order.
func (s *Service) ListRates(ctx context.Context) ([]Rate, error) {
	return s.repo.ListRates(ctx)
}

// EstimateRevenue runs the batch revenue estimate over every trip on record.
// Results are cached per price-list version and concurrent builds of the
// same key collapse into one.
func (s *Service) EstimateRevenue(ctx context.Context) (BatchEstimate, error) {
	key, err := s.cache.BuildKey(ctx, "rates", "revenue")
	if err != nil {
		return BatchEstimate{}, err
	}
	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		var est BatchEstimate
		err := s.cache.FetchJSON(ctx, key, &est, func(ctx context.Context) (interface{}, error) {
			return s.buildEstimate(ctx)
		})
		return est, err
	})
	if err != nil {
		return BatchEstimate{}, err
	}
	return value.(BatchEstimate), nil
}

func (s *Service) buildEstimate(ctx context.Context) (BatchEstimate, error) {
	list, err := s.repo.ListRates(ctx)
	if err != nil {
		return BatchEstimate{}, err
	}
	trips, err := s.trips.ListTripRefs(ctx)
	if err != nil {
		return BatchEstimate{}, err
	}
	return NewResolver(list).EstimateBatch(trips), nil
}

// ConflictReport audits the price list for inconsistently priced routes.
func (s *Service) ConflictReport(ctx context.Context) ([]Conflict, error) {
	list, err := s.repo.ListRates(ctx)
	if err != nil {
		return nil, err
	}
	return DetectConflicts(list), nil
}

// MismatchReport flags trips with a likely wrong origin. Advisory only; it
// never mutates anything.
func (s *Service) MismatchReport(ctx context.Context) (MismatchResult, error) {
	list, err := s.repo.ListRates(ctx)
	if err != nil {
		return MismatchResult{}, err
	}
	trips, err := s.trips.ListTripRefs(ctx)
	if err != nil {
		return MismatchResult{}, err
	}
	return DetectMismatches(list, trips), nil
}
