package rates

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for the price list.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const rateColumns = `r.id, r.site_id, s.name, s.contractor_id, c.name,
	r.material, r.location_from, r.location_to, r.price, r.unit, r.created_at`

const rateJoins = `FROM site_material_rates r
	JOIN sites s ON s.id = r.site_id
	JOIN contractors c ON c.id = s.contractor_id`

func scanRate(row pgx.Row) (*Rate, error) {
	var r Rate
	err := row.Scan(
		&r.ID, &r.SiteID, &r.SiteName, &r.ContractorID, &r.ContractorName,
		&r.Material, &r.LocationFrom, &r.LocationTo, &r.Price, &r.Unit, &r.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: rate", httpx.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan rate: %v", httpx.ErrPersistence, err)
	}
	return &r, nil
}

// ListRates returns the full price list in creation order. Creation order
// matters: the resolver's last-write-wins map build depends on it.
func (repo *Repository) ListRates(ctx context.Context) ([]Rate, error) {
	query := `SELECT ` + rateColumns + ` ` + rateJoins + ` ORDER BY r.id`
	rows, err := repo.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list rates: %v", httpx.ErrPersistence, err)
	}
	defer rows.Close()

	var list []Rate
	for rows.Next() {
		var r Rate
		if err := rows.Scan(
			&r.ID, &r.SiteID, &r.SiteName, &r.ContractorID, &r.ContractorName,
			&r.Material, &r.LocationFrom, &r.LocationTo, &r.Price, &r.Unit, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scan rate: %v", httpx.ErrPersistence, err)
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list rates: %v", httpx.ErrPersistence, err)
	}
	return list, nil
}

// GetRate returns one rate with site and contractor names.
func (repo *Repository) GetRate(ctx context.Context, id int64) (*Rate, error) {
	query := `SELECT ` + rateColumns + ` ` + rateJoins + ` WHERE r.id = $1`
	return scanRate(repo.pool.QueryRow(ctx, query, id))
}

// CreateRate inserts a priced route.
func (repo *Repository) CreateRate(ctx context.Context, input CreateRateInput) (*Rate, error) {
	query := `
		INSERT INTO site_material_rates (site_id, material, location_from, location_to, price, unit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id`
	var id int64
	err := repo.pool.QueryRow(ctx, query,
		input.SiteID, input.Material, input.LocationFrom, input.LocationTo, input.Price, input.Unit,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("%w: create rate: %v", httpx.ErrPersistence, err)
	}
	return repo.GetRate(ctx, id)
}

// UpdateRate overwrites a rate's fields.
func (repo *Repository) UpdateRate(ctx context.Context, id int64, input CreateRateInput) (*Rate, error) {
	query := `
		UPDATE site_material_rates
		SET site_id = $2, material = $3, location_from = $4, location_to = $5, price = $6, unit = $7
		WHERE id = $1`
	result, err := repo.pool.Exec(ctx, query,
		id, input.SiteID, input.Material, input.LocationFrom, input.LocationTo, input.Price, input.Unit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: update rate: %v", httpx.ErrPersistence, err)
	}
	if result.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: rate", httpx.ErrNotFound)
	}
	return repo.GetRate(ctx, id)
}

// DeleteRate removes a rate.
func (repo *Repository) DeleteRate(ctx context.Context, id int64) error {
	result, err := repo.pool.Exec(ctx, `DELETE FROM site_material_rates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete rate: %v", httpx.ErrPersistence, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: rate", httpx.ErrNotFound)
	}
	return nil
}
