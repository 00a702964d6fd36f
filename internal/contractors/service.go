package contractors

import (
	"context"
	"fmt"
	"strings"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

// RepositoryPort defines data access methods for contractors and sites.
type RepositoryPort interface {
	CreateContractor(ctx context.Context, input CreateContractorInput) (*Contractor, error)
	GetContractor(ctx context.Context, id int64) (*Contractor, error)
	ListContractors(ctx context.Context) ([]Contractor, error)
	UpdateContractor(ctx context.Context, id int64, input CreateContractorInput) (*Contractor, error)
	DeleteContractor(ctx context.Context, id int64) error
	CountContractorSites(ctx context.Context, contractorID int64) (int64, error)

	CreateSite(ctx context.Context, input CreateSiteInput) (*Site, error)
	GetSite(ctx context.Context, id int64) (*Site, error)
	ListSites(ctx context.Context, contractorID int64) ([]Site, error)
	UpdateSite(ctx context.Context, id int64, input CreateSiteInput) (*Site, error)
	DeleteSite(ctx context.Context, id int64) error
	CountSiteRates(ctx context.Context, siteID int64) (int64, error)
}

// Service handles contractor business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateContractor registers a contractor.
func (s *Service) CreateContractor(ctx context.Context, input CreateContractorInput) (*Contractor, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: contractor name is required", httpx.ErrValidation)
	}
	return s.repo.CreateContractor(ctx, input)
}

// GetContractor returns a single contractor.
func (s *Service) GetContractor(ctx context.Context, id int64) (*Contractor, error) {
	return s.repo.GetContractor(ctx, id)
}

// ListContractors returns all contractors.
func (s *Service) ListContractors(ctx context.Context) ([]Contractor, error) {
	return s.repo.ListContractors(ctx)
}

// UpdateContractor overwrites a contractor's fields.
func (s *Service) UpdateContractor(ctx context.Context, id int64, input CreateContractorInput) (*Contractor, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: contractor name is required", httpx.ErrValidation)
	}
	return s.repo.UpdateContractor(ctx, id, input)
}

// DeleteContractor removes a contractor with no sites.
func (s *Service) DeleteContractor(ctx context.Context, id int64) error {
	count, err := s.repo.CountContractorSites(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: contractor has %d sites", httpx.ErrValidation, count)
	}
	return s.repo.DeleteContractor(ctx, id)
}

// CreateSite registers a work site under a contractor.
func (s *Service) CreateSite(ctx context.Context, input CreateSiteInput) (*Site, error) {
	if input.ContractorID == 0 {
		return nil, fmt.Errorf("%w: contractor is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: site name is required", httpx.ErrValidation)
	}
	if _, err := s.repo.GetContractor(ctx, input.ContractorID); err != nil {
		return nil, err
	}
	return s.repo.CreateSite(ctx, input)
}

// GetSite returns a single site.
func (s *Service) GetSite(ctx context.Context, id int64) (*Site, error) {
	return s.repo.GetSite(ctx, id)
}

// ListSites returns sites, optionally filtered by contractor.
func (s *Service) ListSites(ctx context.Context, contractorID int64) ([]Site, error) {
	return s.repo.ListSites(ctx, contractorID)
}

// UpdateSite overwrites a site's fields.
func (s *Service) UpdateSite(ctx context.Context, id int64, input CreateSiteInput) (*Site, error) {
	if input.ContractorID == 0 {
		return nil, fmt.Errorf("%w: contractor is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: site name is required", httpx.ErrValidation)
	}
	return s.repo.UpdateSite(ctx, id, input)
}

// DeleteSite removes a site that has no price list entries.
func (s *Service) DeleteSite(ctx context.Context, id int64) error {
	count, err := s.repo.CountSiteRates(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: site has %d rates; remove them first", httpx.ErrValidation, count)
	}
	return s.repo.DeleteSite(ctx, id)
}
