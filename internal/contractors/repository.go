package contractors

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for contractors.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateContractor inserts a contractor.
func (repo *Repository) CreateContractor(ctx context.Context, input CreateContractorInput) (*Contractor, error) {
	query := `
		INSERT INTO contractors (name, phone, trn, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, name, phone, trn, created_at`
	var c Contractor
	err := repo.pool.QueryRow(ctx, query, input.Name, input.Phone, input.TRN).
		Scan(&c.ID, &c.Name, &c.Phone, &c.TRN, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: create contractor: %v", httpx.ErrPersistence, err)
	}
	return &c, nil
}

// GetContractor returns one contractor.
func (repo *Repository) GetContractor(ctx context.Context, id int64) (*Contractor, error) {
	query := `SELECT id, name, phone, trn, created_at FROM contractors WHERE id = $1`
	var c Contractor
	err := repo.pool.QueryRow(ctx, query, id).
		Scan(&c.ID, &c.Name, &c.Phone, &c.TRN, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: contractor", httpx.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get contractor: %v", httpx.ErrPersistence, err)
	}
	return &c, nil
}

// ListContractors returns contractors ordered by name.
func (repo *Repository) ListContractors(ctx context.Context) ([]Contractor, error) {
	query := `SELECT id, name, phone, trn, created_at FROM contractors ORDER BY name`
	rows, err := repo.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list contractors: %v", httpx.ErrPersistence, err)
	}
	defer rows.Close()

	var contractors []Contractor
	for rows.Next() {
		var c Contractor
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.TRN, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan contractor: %v", httpx.ErrPersistence, err)
		}
		contractors = append(contractors, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list contractors: %v", httpx.ErrPersistence, err)
	}
	return contractors, nil
}

// UpdateContractor overwrites a contractor's fields.
func (repo *Repository) UpdateContractor(ctx context.Context, id int64, input CreateContractorInput) (*Contractor, error) {
	query := `
		UPDATE contractors
		SET name = $2, phone = $3, trn = $4
		WHERE id = $1
		RETURNING id, name, phone, trn, created_at`
	var c Contractor
	err := repo.pool.QueryRow(ctx, query, id, input.Name, input.Phone, input.TRN).
		Scan(&c.ID, &c.Name, &c.Phone, &c.TRN, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: contractor", httpx.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: update contractor: %v", httpx.ErrPersistence, err)
	}
	return &c, nil
}

// DeleteContractor removes a contractor.
func (repo *Repository) DeleteContractor(ctx context.Context, id int64) error {
	result, err := repo.pool.Exec(ctx, `DELETE FROM contractors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete contractor: %v", httpx.ErrPersistence, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: contractor", httpx.ErrNotFound)
	}
	return nil
}

// CountContractorSites counts sites registered under a contractor.
func (repo *Repository) CountContractorSites(ctx context.Context, contractorID int64) (int64, error) {
	var count int64
	err := repo.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sites WHERE contractor_id = $1`, contractorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: count contractor sites: %v", httpx.ErrPersistence, err)
	}
	return count, nil
}

const siteColumns = `s.id, s.contractor_id, c.name, s.name, s.location, s.lpo_no, s.created_at`

const siteJoins = `FROM sites s JOIN contractors c ON c.id = s.contractor_id`

func scanSite(row pgx.Row) (*Site, error) {
	var s Site
	err := row.Scan(&s.ID, &s.ContractorID, &s.ContractorName, &s.Name, &s.Location, &s.LPONo, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: site", httpx.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan site: %v", httpx.ErrPersistence, err)
	}
	return &s, nil
}

// CreateSite inserts a site.
func (repo *Repository) CreateSite(ctx context.Context, input CreateSiteInput) (*Site, error) {
	query := `
		INSERT INTO sites (contractor_id, name, location, lpo_no, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id`
	var id int64
	err := repo.pool.QueryRow(ctx, query, input.ContractorID, input.Name, input.Location, input.LPONo).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("%w: create site: %v", httpx.ErrPersistence, err)
	}
	return repo.GetSite(ctx, id)
}

// GetSite returns one site with its contractor name.
func (repo *Repository) GetSite(ctx context.Context, id int64) (*Site, error) {
	query := `SELECT ` + siteColumns + ` ` + siteJoins + ` WHERE s.id = $1`
	return scanSite(repo.pool.QueryRow(ctx, query, id))
}

// ListSites returns sites, optionally filtered by contractor.
func (repo *Repository) ListSites(ctx context.Context, contractorID int64) ([]Site, error) {
	query := `SELECT ` + siteColumns + ` ` + siteJoins
	args := []any{}
	if contractorID > 0 {
		query += ` WHERE s.contractor_id = $1`
		args = append(args, contractorID)
	}
	query += ` ORDER BY c.name, s.name`

	rows, err := repo.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list sites: %v", httpx.ErrPersistence, err)
	}
	defer rows.Close()

	var sites []Site
	for rows.Next() {
		var s Site
		if err := rows.Scan(&s.ID, &s.ContractorID, &s.ContractorName, &s.Name, &s.Location, &s.LPONo, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan site: %v", httpx.ErrPersistence, err)
		}
		sites = append(sites, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list sites: %v", httpx.ErrPersistence, err)
	}
	return sites, nil
}

// UpdateSite overwrites a site's fields.
func (repo *Repository) UpdateSite(ctx context.Context, id int64, input CreateSiteInput) (*Site, error) {
	query := `
		UPDATE sites
		SET contractor_id = $2, name = $3, location = $4, lpo_no = $5
		WHERE id = $1`
	result, err := repo.pool.Exec(ctx, query, id, input.ContractorID, input.Name, input.Location, input.LPONo)
	if err != nil {
		return nil, fmt.Errorf("%w: update site: %v", httpx.ErrPersistence, err)
	}
	if result.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: site", httpx.ErrNotFound)
	}
	return repo.GetSite(ctx, id)
}

// DeleteSite removes a site.
func (repo *Repository) DeleteSite(ctx context.Context, id int64) error {
	result, err := repo.pool.Exec(ctx, `DELETE FROM sites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete site: %v", httpx.ErrPersistence, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: site", httpx.ErrNotFound)
	}
	return nil
}

// CountSiteRates counts price list entries attached to a site.
func (repo *Repository) CountSiteRates(ctx context.Context, siteID int64) (int64, error) {
	var count int64
	err := repo.pool.QueryRow(ctx, `SELECT COUNT(*) FROM site_material_rates WHERE site_id = $1`, siteID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: count site rates: %v", httpx.ErrPersistence, err)
	}
	return count, nil
}
