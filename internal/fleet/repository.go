package fleet

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for the fleet.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// CreateVehicle inserts a vehicle.
func (repo *Repository) CreateVehicle(ctx context.Context, input CreateVehicleInput) (*Vehicle, error) {
	query := `
		INSERT INTO vehicles (plate_no, make, capacity, active, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, plate_no, make, capacity, active, created_at`
	var v Vehicle
	err := repo.pool.QueryRow(ctx, query, input.PlateNo, input.Make, input.Capacity, input.Active).
		Scan(&v.ID, &v.PlateNo, &v.Make, &v.Capacity, &v.Active, &v.CreatedAt)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: plate number already registered", httpx.ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: create vehicle: %v", httpx.ErrPersistence, err)
	}
	return &v, nil
}

// GetVehicle returns one vehicle.
func (repo *Repository) GetVehicle(ctx context.Context, id int64) (*Vehicle, error) {
	query := `SELECT id, plate_no, make, capacity, active, created_at FROM vehicles WHERE id = $1`
	var v Vehicle
	err := repo.pool.QueryRow(ctx, query, id).
		Scan(&v.ID, &v.PlateNo, &v.Make, &v.Capacity, &v.Active, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: vehicle", httpx.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get vehicle: %v", httpx.ErrPersistence, err)
	}
	return &v, nil
}

// ListVehicles returns vehicles ordered by plate number.
func (repo *Repository) ListVehicles(ctx context.Context, activeOnly bool) ([]Vehicle, error) {
	query := `SELECT id, plate_no, make, capacity, active, created_at FROM vehicles`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY plate_no`

	rows, err := repo.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list vehicles: %v", httpx.ErrPersistence, err)
	}
	defer rows.Close()

	var vehicles []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.PlateNo, &v.Make, &v.Capacity, &v.Active, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan vehicle: %v", httpx.ErrPersistence, err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list vehicles: %v", httpx.ErrPersistence, err)
	}
	return vehicles, nil
}

// UpdateVehicle overwrites a vehicle's fields.
func (repo *Repository) UpdateVehicle(ctx context.Context, id int64, input CreateVehicleInput) (*Vehicle, error) {
	query := `
		UPDATE vehicles
		SET plate_no = $2, make = $3, capacity = $4, active = $5
		WHERE id = $1
		RETURNING id, plate_no, make, capacity, active, created_at`
	var v Vehicle
	err := repo.pool.QueryRow(ctx, query, id, input.PlateNo, input.Make, input.Capacity, input.Active).
		Scan(&v.ID, &v.PlateNo, &v.Make, &v.Capacity, &v.Active, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: vehicle", httpx.ErrNotFound)
	}
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: plate number already registered", httpx.ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: update vehicle: %v", httpx.ErrPersistence, err)
	}
	return &v, nil
}

// DeleteVehicle removes a vehicle.
func (repo *Repository) DeleteVehicle(ctx context.Context, id int64) error {
	result, err := repo.pool.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete vehicle: %v", httpx.ErrPersistence, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: vehicle", httpx.ErrNotFound)
	}
	return nil
}

// CountVehicleTrips counts trips logged against a vehicle.
func (repo *Repository) CountVehicleTrips(ctx context.Context, vehicleID int64) (int64, error) {
	var count int64
	err := repo.pool.QueryRow(ctx, `SELECT COUNT(*) FROM trips WHERE vehicle_id = $1`, vehicleID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: count vehicle trips: %v", httpx.ErrPersistence, err)
	}
	return count, nil
}

// CreateDriver inserts a driver.
func (repo *Repository) CreateDriver(ctx context.Context, input CreateDriverInput) (*Driver, error) {
	query := `
		INSERT INTO drivers (name, phone, license_no, active, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, name, phone, license_no, active, created_at`
	var d Driver
	err := repo.pool.QueryRow(ctx, query, input.Name, input.Phone, input.LicenseNo, input.Active).
		Scan(&d.ID, &d.Name, &d.Phone, &d.LicenseNo, &d.Active, &d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: create driver: %v", httpx.ErrPersistence, err)
	}
	return &d, nil
}

// GetDriver returns one driver.
func (repo *Repository) GetDriver(ctx context.Context, id int64) (*Driver, error) {
	query := `SELECT id, name, phone, license_no, active, created_at FROM drivers WHERE id = $1`
	var d Driver
	err := repo.pool.QueryRow(ctx, query, id).
		Scan(&d.ID, &d.Name, &d.Phone, &d.LicenseNo, &d.Active, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: driver", httpx.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get driver: %v", httpx.ErrPersistence, err)
	}
	return &d, nil
}

// ListDrivers returns drivers ordered by name.
func (repo *Repository) ListDrivers(ctx context.Context, activeOnly bool) ([]Driver, error) {
	query := `SELECT id, name, phone, license_no, active, created_at FROM drivers`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name`

	rows, err := repo.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list drivers: %v", httpx.ErrPersistence, err)
	}
	defer rows.Close()

	var drivers []Driver
	for rows.Next() {
		var d Driver
		if err := rows.Scan(&d.ID, &d.Name, &d.Phone, &d.LicenseNo, &d.Active, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan driver: %v", httpx.ErrPersistence, err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list drivers: %v", httpx.ErrPersistence, err)
	}
	return drivers, nil
}

// UpdateDriver overwrites a driver's fields.
func (repo *Repository) UpdateDriver(ctx context.Context, id int64, input CreateDriverInput) (*Driver, error) {
	query := `
		UPDATE drivers
		SET name = $2, phone = $3, license_no = $4, active = $5
		WHERE id = $1
		RETURNING id, name, phone, license_no, active, created_at`
	var d Driver
	err := repo.pool.QueryRow(ctx, query, id, input.Name, input.Phone, input.LicenseNo, input.Active).
		Scan(&d.ID, &d.Name, &d.Phone, &d.LicenseNo, &d.Active, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: driver", httpx.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: update driver: %v", httpx.ErrPersistence, err)
	}
	return &d, nil
}

// DeleteDriver removes a driver.
func (repo *Repository) DeleteDriver(ctx context.Context, id int64) error {
	result, err := repo.pool.Exec(ctx, `DELETE FROM drivers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete driver: %v", httpx.ErrPersistence, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: driver", httpx.ErrNotFound)
	}
	return nil
}

// CountDriverTrips counts trips logged against a driver.
func (repo *Repository) CountDriverTrips(ctx context.Context, driverID int64) (int64, error) {
	var count int64
	err := repo.pool.QueryRow(ctx, `SELECT COUNT(*) FROM trips WHERE driver_id = $1`, driverID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: count driver trips: %v", httpx.ErrPersistence, err)
	}
	return count, nil
}
