package trips

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
	"github.com/haulbooks/haulbooks/internal/rates"
)

// Repository provides PostgreSQL backed persistence for trips.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const tripColumns = `t.id, t.date, t.material_type, t.from_location, t.to_location,
	t.driver_id, d.name, t.vehicle_id, v.plate_no, t.invoice_id, t.created_at`

const tripJoins = `FROM trips t
	JOIN drivers d ON d.id = t.driver_id
	JOIN vehicles v ON v.id = t.vehicle_id`

func scanTrip(row pgx.Row) (*Trip, error) {
	var t Trip
	var invoiceID pgtype.Int8
	err := row.Scan(
		&t.ID, &t.Date, &t.MaterialType, &t.FromLocation, &t.ToLocation,
		&t.DriverID, &t.DriverName, &t.VehicleID, &t.VehiclePlateNo, &invoiceID, &t.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: trip", httpx.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan trip: %v", httpx.ErrPersistence, err)
	}
	if invoiceID.Valid {
		t.InvoiceID = &invoiceID.Int64
	}
	return &t, nil
}

// CreateTrip inserts a trip record.
func (repo *Repository) CreateTrip(ctx context.Context, input CreateTripInput) (*Trip, error) {
	query := `
		INSERT INTO trips (date, material_type, from_location, to_location, driver_id, vehicle_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id`
	var id int64
	err := repo.pool.QueryRow(ctx, query,
		input.Date, input.MaterialType, input.FromLocation, input.ToLocation, input.DriverID, input.VehicleID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("%w: create trip: %v", httpx.ErrPersistence, err)
	}
	return repo.GetTrip(ctx, id)
}

// GetTrip returns one trip with driver and vehicle names.
func (repo *Repository) GetTrip(ctx context.Context, id int64) (*Trip, error) {
	query := `SELECT ` + tripColumns + ` ` + tripJoins + ` WHERE t.id = $1`
	return scanTrip(repo.pool.QueryRow(ctx, query, id))
}

// ListTrips returns trips matching the filter, newest first.
func (repo *Repository) ListTrips(ctx context.Context, req ListTripsRequest) ([]Trip, error) {
	query := `SELECT ` + tripColumns + ` ` + tripJoins + ` WHERE 1=1`
	args := []any{}
	argNum := 1

	if req.DriverID > 0 {
		query += fmt.Sprintf(" AND t.driver_id = $%d", argNum)
		args = append(args, req.DriverID)
		argNum++
	}
	if req.VehicleID > 0 {
		query += fmt.Sprintf(" AND t.vehicle_id = $%d", argNum)
		args = append(args, req.VehicleID)
		argNum++
	}
	if req.InvoiceID > 0 {
		query += fmt.Sprintf(" AND t.invoice_id = $%d", argNum)
		args = append(args, req.InvoiceID)
		argNum++
	}
	if req.Unbilled {
		query += " AND t.invoice_id IS NULL"
	}
	if !req.FromDate.IsZero() {
		query += fmt.Sprintf(" AND t.date >= $%d", argNum)
		args = append(args, req.FromDate)
		argNum++
	}
	if !req.ToDate.IsZero() {
		query += fmt.Sprintf(" AND t.date <= $%d", argNum)
		args = append(args, req.ToDate)
		argNum++
	}

	query += " ORDER BY t.date DESC, t.id DESC"

	if req.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, req.Limit)
		argNum++
	}
	if req.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, req.Offset)
	}

	rows, err := repo.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list trips: %v", httpx.ErrPersistence, err)
	}
	defer rows.Close()

	var trips []Trip
	for rows.Next() {
		var t Trip
		var invoiceID pgtype.Int8
		if err := rows.Scan(
			&t.ID, &t.Date, &t.MaterialType, &t.FromLocation, &t.ToLocation,
			&t.DriverID, &t.DriverName, &t.VehicleID, &t.VehiclePlateNo, &invoiceID, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scan trip: %v", httpx.ErrPersistence, err)
		}
		if invoiceID.Valid {
			t.InvoiceID = &invoiceID.Int64
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list trips: %v", httpx.ErrPersistence, err)
	}
	return trips, nil
}

// UpdateTrip overwrites a trip's fields.
func (repo *Repository) UpdateTrip(ctx context.Context, id int64, input CreateTripInput) (*Trip, error) {
	query := `
		UPDATE trips
		SET date = $2, material_type = $3, from_location = $4, to_location = $5, driver_id = $6, vehicle_id = $7
		WHERE id = $1`
	result, err := repo.pool.Exec(ctx, query,
		id, input.Date, input.MaterialType, input.FromLocation, input.ToLocation, input.DriverID, input.VehicleID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: update trip: %v", httpx.ErrPersistence, err)
	}
	if result.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: trip", httpx.ErrNotFound)
	}
	return repo.GetTrip(ctx, id)
}

// DeleteTrip removes a trip.
func (repo *Repository) DeleteTrip(ctx context.Context, id int64) error {
	result, err := repo.pool.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete trip: %v", httpx.ErrPersistence, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: trip", httpx.ErrNotFound)
	}
	return nil
}

// ListTripRefs supplies the minimal trip view the rates reports consume,
// with each vehicle's free-form capacity joined in for Per Ton pricing.
func (repo *Repository) ListTripRefs(ctx context.Context) ([]rates.TripRef, error) {
	query := `
		SELECT t.id, t.date, t.material_type, t.from_location, t.to_location, v.capacity
		FROM trips t
		JOIN vehicles v ON v.id = t.vehicle_id
		ORDER BY t.id`
	rows, err := repo.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list trip refs: %v", httpx.ErrPersistence, err)
	}
	defer rows.Close()

	var refs []rates.TripRef
	for rows.Next() {
		var ref rates.TripRef
		if err := rows.Scan(&ref.ID, &ref.Date, &ref.Material, &ref.From, &ref.To, &ref.VehicleCapacity); err != nil {
			return nil, fmt.Errorf("%w: scan trip ref: %v", httpx.ErrPersistence, err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list trip refs: %v", httpx.ErrPersistence, err)
	}
	return refs, nil
}
