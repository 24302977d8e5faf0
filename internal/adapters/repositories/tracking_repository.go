package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freight-marketplace-service/internal/domain"
)

// Postgres-backed implementation of the TrackingRepository port.
// tracking_events is append-only; there is deliberately no update or delete.
type PostgresTrackingRepository struct{ DB *sql.DB }

func NewPostgresTrackingRepository(db *sql.DB) *PostgresTrackingRepository {
	return &PostgresTrackingRepository{DB: db}
}

func (r *PostgresTrackingRepository) Append(ctx context.Context, e *domain.TrackingEvent) error {
	if r.DB == nil {
		return errors.New("tracking repository: DB is nil")
	}

	query := `
	INSERT INTO tracking_events (id, shipment_id, event_type, description, lat, lon, created_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.DB.ExecContext(ctx, query,
		e.ID, e.ShipmentID, e.Type, e.Description, e.Lat, e.Lon, e.CreatedBy)
	if err != nil {
		return fmt.Errorf("append tracking event: insert: %w", err)
	}
	return nil
}

func (r *PostgresTrackingRepository) ListByShipment(ctx context.Context, shipmentID string) ([]*domain.TrackingEvent, error) {
	if r.DB == nil {
		return nil, errors.New("tracking repository: DB is nil")
	}

	query := `
	SELECT id, shipment_id, event_type, description, lat, lon, created_by, created_at
	FROM tracking_events
	WHERE shipment_id = $1
	ORDER BY created_at ASC, id ASC;
	`
	rows, err := r.DB.QueryContext(ctx, query, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list tracking events: query: %w", err)
	}
	defer rows.Close()

	events := make([]*domain.TrackingEvent, 0, 16)
	for rows.Next() {
		var e domain.TrackingEvent
		if err := rows.Scan(&e.ID, &e.ShipmentID, &e.Type, &e.Description,
			&e.Lat, &e.Lon, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("list tracking events: scan row: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tracking events: row iteration: %w", err)
	}
	return events, nil
}
