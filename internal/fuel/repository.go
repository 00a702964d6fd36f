package fuel

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for diesel records.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const dieselColumns = `r.id, r.date, r.vehicle_id, v.plate_no, r.driver_id, d.name, r.liters, r.amount, r.station, r.odometer, r.created_at`

const dieselJoins = `FROM diesel_records r
	JOIN vehicles v ON v.id = r.vehicle_id
	JOIN drivers d ON d.id = r.driver_id`

func scanRecord(row pgx.Row) (*DieselRecord, error) {
	var rec DieselRecord
	err := row.Scan(&rec.ID, &rec.Date, &rec.VehicleID, &rec.VehiclePlateNo,
		&rec.DriverID, &rec.DriverName, &rec.Liters, &rec.Amount, &rec.Station, &rec.Odometer, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: diesel record", httpx.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan diesel record: %v", httpx.ErrPersistence, err)
	}
	return &rec, nil
}

// CreateRecord inserts a diesel record.
func (repo *Repository) CreateRecord(ctx context.Context, input CreateDieselInput) (*DieselRecord, error) {
	query := `
		INSERT INTO diesel_records (date, vehicle_id, driver_id, liters, amount, station, odometer, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id`
	var id int64
	err := repo.pool.QueryRow(ctx, query,
		input.Date, input.VehicleID, input.DriverID, input.Liters, input.Amount, input.Station, input.Odometer,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("%w: create diesel record: %v", httpx.ErrPersistence, err)
	}
	return repo.GetRecord(ctx, id)
}

// GetRecord returns one diesel record.
func (repo *Repository) GetRecord(ctx context.Context, id int64) (*DieselRecord, error) {
	query := `SELECT ` + dieselColumns + ` ` + dieselJoins + ` WHERE r.id = $1`
	return scanRecord(repo.pool.QueryRow(ctx, query, id))
}

// ListRecords returns records newest first, optionally for one vehicle.
func (repo *Repository) ListRecords(ctx context.Context, vehicleID int64) ([]DieselRecord, error) {
	query := `SELECT ` + dieselColumns + ` ` + dieselJoins
	args := []any{}
	if vehicleID > 0 {
		query += ` WHERE r.vehicle_id = $1`
		args = append(args, vehicleID)
	}
	query += ` ORDER BY r.date DESC, r.id DESC`

	rows, err := repo.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list diesel records: %v", httpx.ErrPersistence, err)
	}
	defer rows.Close()

	var records []DieselRecord
	for rows.Next() {
		var rec DieselRecord
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.VehicleID, &rec.VehiclePlateNo,
			&rec.DriverID, &rec.DriverName, &rec.Liters, &rec.Amount, &rec.Station, &rec.Odometer, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan diesel record: %v", httpx.ErrPersistence, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list diesel records: %v", httpx.ErrPersistence, err)
	}
	return records, nil
}

// UpdateRecord overwrites a record's fields.
func (repo *Repository) UpdateRecord(ctx context.Context, id int64, input CreateDieselInput) (*DieselRecord, error) {
	query := `
		UPDATE diesel_records
		SET date = $2, vehicle_id = $3, driver_id = $4, liters = $5, amount = $6, station = $7, odometer = $8
		WHERE id = $1`
	result, err := repo.pool.Exec(ctx, query,
		id, input.Date, input.VehicleID, input.DriverID, input.Liters, input.Amount, input.Station, input.Odometer)
	if err != nil {
		return nil, fmt.Errorf("%w: update diesel record: %v", httpx.ErrPersistence, err)
	}
	if result.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: diesel record", httpx.ErrNotFound)
	}
	return repo.GetRecord(ctx, id)
}

// DeleteRecord removes a record.
func (repo *Repository) DeleteRecord(ctx context.Context, id int64) error {
	result, err := repo.pool.Exec(ctx, `DELETE FROM diesel_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete diesel record: %v", httpx.ErrPersistence, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: diesel record", httpx.ErrNotFound)
	}
	return nil
}

// MonthlySummaries aggregates per-vehicle fuel spend for a YYYY-MM month.
func (repo *Repository) MonthlySummaries(ctx context.Context, month string) ([]MonthlySummary, error) {
	query := `
		SELECT r.vehicle_id, v.plate_no, SUM(r.liters), SUM(r.amount), COUNT(*)
		FROM diesel_records r
		JOIN vehicles v ON v.id = r.vehicle_id
		WHERE to_char(r.date, 'YYYY-MM') = $1
		GROUP BY r.vehicle_id, v.plate_no
		ORDER BY v.plate_no`
	rows, err := repo.pool.Query(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("%w: monthly summaries: %v", httpx.ErrPersistence, err)
	}
	defer rows.Close()

	var summaries []MonthlySummary
	for rows.Next() {
		s := MonthlySummary{Month: month}
		if err := rows.Scan(&s.VehicleID, &s.VehiclePlateNo, &s.TotalLiters, &s.TotalAmount, &s.FillCount); err != nil {
			return nil, fmt.Errorf("%w: scan summary: %v", httpx.ErrPersistence, err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: monthly summaries: %v", httpx.ErrPersistence, err)
	}
	return summaries, nil
}
