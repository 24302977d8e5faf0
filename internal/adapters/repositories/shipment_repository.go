package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freight-marketplace-service/internal/domain"
	"freight-marketplace-service/internal/ports"
)

// Postgres-backed implementation of the ShipmentRepository port.
type PostgresShipmentRepository struct{ DB *sql.DB }

func NewPostgresShipmentRepository(db *sql.DB) *PostgresShipmentRepository {
	return &PostgresShipmentRepository{DB: db}
}

const shipmentColumns = `
	id, shipper_id, carrier_id, accepted_bid_id,
	origin_city, origin_state, destination_city, destination_state,
	weight_kg, rate, equipment_type, commodity,
	status, bid_count, pickup_date, delivery_date,
	created_at, updated_at`

func scanShipment(row interface{ Scan(...any) error }) (*domain.Shipment, error) {
	var s domain.Shipment
	err := row.Scan(
		&s.ID, &s.ShipperID, &s.CarrierID, &s.AcceptedBidID,
		&s.OriginCity, &s.OriginState, &s.DestinationCity, &s.DestinationState,
		&s.WeightKg, &s.Rate, &s.Equipment, &s.Commodity,
		&s.Status, &s.BidCount, &s.PickupDate, &s.DeliveryDate,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresShipmentRepository) Create(ctx context.Context, s *domain.Shipment) error {
	if r.DB == nil {
		return errors.New("shipment repository: DB is nil")
	}

	query := `
	INSERT INTO shipments (
		id, shipper_id,
		origin_city, origin_state, destination_city, destination_state,
		weight_kg, rate, equipment_type, commodity,
		status, pickup_date, delivery_date
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.DB.ExecContext(ctx, query,
		s.ID, s.ShipperID,
		s.OriginCity, s.OriginState, s.DestinationCity, s.DestinationState,
		s.WeightKg, s.Rate, s.Equipment, s.Commodity,
		s.Status, s.PickupDate, s.DeliveryDate,
	)
	if err != nil {
		return fmt.Errorf("create shipment: insert: %w", err)
	}
	return nil
}

func (r *PostgresShipmentRepository) GetByID(ctx context.Context, id string) (*domain.Shipment, error) {
	if r.DB == nil {
		return nil, errors.New("shipment repository: DB is nil")
	}

	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE id = $1;`
	s, err := scanShipment(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get shipment %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get shipment: scan: %w", err)
	}
	return s, nil
}

// List applies the role-derived filter built by the caller. A carrier scope
// optionally includes the open marketplace (posted shipments).
func (r *PostgresShipmentRepository) List(ctx context.Context, f ports.ShipmentFilter) ([]*domain.Shipment, error) {
	if r.DB == nil {
		return nil, errors.New("shipment repository: DB is nil")
	}

	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE 1=1`
	args := []any{}

	if f.ShipperID != "" {
		args = append(args, f.ShipperID)
		query += fmt.Sprintf(" AND shipper_id = $%d", len(args))
	}
	if f.CarrierID != "" {
		args = append(args, f.CarrierID)
		if f.IncludePostedForCarrier {
			query += fmt.Sprintf(" AND (carrier_id = $%d OR status = 'posted')", len(args))
		} else {
			query += fmt.Sprintf(" AND carrier_id = $%d", len(args))
		}
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d;", len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shipments: query: %w", err)
	}
	defer rows.Close()

	shipments := make([]*domain.Shipment, 0, limit)
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("list shipments: scan row: %w", err)
		}
		shipments = append(shipments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shipments: row iteration: %w", err)
	}

	return shipments, nil
}

// TransitionStatus is a compare-and-swap: the update only lands when the row
// is still in the expected from status, which is what keeps concurrent
// transitions from trampling each other.
func (r *PostgresShipmentRepository) TransitionStatus(ctx context.Context, id string, from, to domain.ShipmentStatus) error {
	if r.DB == nil {
		return errors.New("shipment repository: DB is nil")
	}
	if err := domain.ValidateTransition(from, to); err != nil {
		return err
	}

	query := `
	UPDATE shipments
	SET status = $1, updated_at = now()
	WHERE id = $2 AND status = $3;
	`
	res, err := r.DB.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("transition shipment %s: update: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("transition shipment %s: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("transition shipment %s: not in status %s: %w", id, from, domain.ErrConflict)
	}
	return nil
}
