package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"freight-marketplace-service/internal/domain"
)

// Postgres-backed implementation of the DriverRepository port.
type PostgresDriverRepository struct{ DB *sql.DB }

func NewPostgresDriverRepository(db *sql.DB) *PostgresDriverRepository {
	return &PostgresDriverRepository{DB: db}
}

const driverColumns = `
	id, owner_id, user_id, name, phone, license_no, status,
	vehicle_id, last_lat, last_lon, last_seen, created_at, updated_at`

func scanDriver(row interface{ Scan(...any) error }) (*domain.Driver, error) {
	var d domain.Driver
	err := row.Scan(
		&d.ID, &d.OwnerID, &d.UserID, &d.Name, &d.Phone, &d.LicenseNo, &d.Status,
		&d.VehicleID, &d.LastLat, &d.LastLon, &d.LastSeen, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PostgresDriverRepository) Create(ctx context.Context, d *domain.Driver) error {
	if r.DB == nil {
		return errors.New("driver repository: DB is nil")
	}

	query := `
	INSERT INTO drivers (id, owner_id, user_id, name, phone, license_no, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.DB.ExecContext(ctx, query,
		d.ID, d.OwnerID, d.UserID, d.Name, d.Phone, d.LicenseNo, d.Status)
	if err != nil {
		return fmt.Errorf("create driver: insert: %w", err)
	}
	return nil
}

func (r *PostgresDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	if r.DB == nil {
		return nil, errors.New("driver repository: DB is nil")
	}

	d, err := scanDriver(r.DB.QueryRowContext(ctx,
		`SELECT `+driverColumns+` FROM drivers WHERE id = $1;`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get driver %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get driver: scan: %w", err)
	}
	return d, nil
}

func (r *PostgresDriverRepository) GetByUserID(ctx context.Context, userID string) (*domain.Driver, error) {
	if r.DB == nil {
		return nil, errors.New("driver repository: DB is nil")
	}
	if userID == "" {
		return nil, fmt.Errorf("get driver by user: empty user id: %w", domain.ErrNotFound)
	}

	d, err := scanDriver(r.DB.QueryRowContext(ctx,
		`SELECT `+driverColumns+` FROM drivers WHERE user_id = $1;`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get driver for user %s: %w", userID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get driver by user: scan: %w", err)
	}
	return d, nil
}

// List scopes to an owner unless ownerID is empty (admin).
func (r *PostgresDriverRepository) List(ctx context.Context, ownerID string) ([]*domain.Driver, error) {
	if r.DB == nil {
		return nil, errors.New("driver repository: DB is nil")
	}

	query := `SELECT ` + driverColumns + ` FROM drivers`
	args := []any{}
	if ownerID != "" {
		query += ` WHERE owner_id = $1`
		args = append(args, ownerID)
	}
	query += ` ORDER BY created_at DESC;`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list drivers: query: %w", err)
	}
	defer rows.Close()

	drivers := make([]*domain.Driver, 0, 16)
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("list drivers: scan row: %w", err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list drivers: row iteration: %w", err)
	}
	return drivers, nil
}

// AssignVehicle pairs an available driver with an active vehicle and marks
// both busy, all in one transaction.
func (r *PostgresDriverRepository) AssignVehicle(ctx context.Context, driverID, vehicleID string) error {
	if r.DB == nil {
		return errors.New("driver repository: DB is nil")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("assign vehicle: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var vehicleStatus domain.VehicleStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM vehicles WHERE id = $1 FOR UPDATE;`, vehicleID).Scan(&vehicleStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("assign vehicle: vehicle %s: %w", vehicleID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("assign vehicle: load vehicle: %w", err)
	}
	if vehicleStatus != domain.VehicleActive {
		return fmt.Errorf("assign vehicle: vehicle %s is %s: %w", vehicleID, vehicleStatus, domain.ErrConflict)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE drivers SET vehicle_id = $1, status = 'on_trip', updated_at = now()
		WHERE id = $2 AND status = 'available';
	`, vehicleID, driverID)
	if err != nil {
		return fmt.Errorf("assign vehicle: update driver: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("assign vehicle: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("assign vehicle: driver %s not available: %w", driverID, domain.ErrConflict)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE vehicles SET status = 'in_use', updated_at = now() WHERE id = $1;
	`, vehicleID); err != nil {
		return fmt.Errorf("assign vehicle: update vehicle: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("assign vehicle: commit tx: %w", err)
	}
	return nil
}

func (r *PostgresDriverRepository) UpdateLocation(ctx context.Context, driverID string, lat, lon float64, at time.Time) error {
	if r.DB == nil {
		return errors.New("driver repository: DB is nil")
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE drivers SET last_lat = $1, last_lon = $2, last_seen = $3, updated_at = now()
		WHERE id = $4;
	`, lat, lon, at, driverID)
	if err != nil {
		return fmt.Errorf("update driver location: update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update driver location: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update driver %s location: %w", driverID, domain.ErrNotFound)
	}
	return nil
}
