package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freight-marketplace-service/internal/domain"
)

// Postgres-backed implementation of the VehicleRepository port.
type PostgresVehicleRepository struct{ DB *sql.DB }

func NewPostgresVehicleRepository(db *sql.DB) *PostgresVehicleRepository {
	return &PostgresVehicleRepository{DB: db}
}

const vehicleColumns = `
	id, owner_id, plate, type, capacity_kg, model, year, status, created_at, updated_at`

func scanVehicle(row interface{ Scan(...any) error }) (*domain.Vehicle, error) {
	var v domain.Vehicle
	err := row.Scan(
		&v.ID, &v.OwnerID, &v.Plate, &v.Type, &v.CapacityKg,
		&v.Model, &v.Year, &v.Status, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *PostgresVehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	if r.DB == nil {
		return errors.New("vehicle repository: DB is nil")
	}

	query := `
	INSERT INTO vehicles (id, owner_id, plate, type, capacity_kg, model, year, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.DB.ExecContext(ctx, query,
		v.ID, v.OwnerID, v.Plate, v.Type, v.CapacityKg, v.Model, v.Year, v.Status)
	if err != nil {
		return fmt.Errorf("create vehicle: insert: %w", err)
	}
	return nil
}

func (r *PostgresVehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	if r.DB == nil {
		return nil, errors.New("vehicle repository: DB is nil")
	}

	v, err := scanVehicle(r.DB.QueryRowContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1;`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get vehicle %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get vehicle: scan: %w", err)
	}
	return v, nil
}

func (r *PostgresVehicleRepository) List(ctx context.Context, ownerID string) ([]*domain.Vehicle, error) {
	if r.DB == nil {
		return nil, errors.New("vehicle repository: DB is nil")
	}

	query := `SELECT ` + vehicleColumns + ` FROM vehicles`
	args := []any{}
	if ownerID != "" {
		query += ` WHERE owner_id = $1`
		args = append(args, ownerID)
	}
	query += ` ORDER BY created_at DESC;`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: query: %w", err)
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0, 16)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("list vehicles: scan row: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: row iteration: %w", err)
	}
	return vehicles, nil
}

func (r *PostgresVehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	if r.DB == nil {
		return errors.New("vehicle repository: DB is nil")
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE vehicles
		SET plate = $1, type = $2, capacity_kg = $3, model = $4, year = $5,
		    status = $6, updated_at = now()
		WHERE id = $7;
	`, v.Plate, v.Type, v.CapacityKg, v.Model, v.Year, v.Status, v.ID)
	if err != nil {
		return fmt.Errorf("update vehicle: update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update vehicle: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update vehicle %s: %w", v.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresVehicleRepository) Delete(ctx context.Context, id string) error {
	if r.DB == nil {
		return errors.New("vehicle repository: DB is nil")
	}

	res, err := r.DB.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete vehicle: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete vehicle %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
