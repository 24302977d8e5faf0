package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freight-marketplace-service/internal/domain"
)

// Postgres-backed implementation of the ProofRepository port.
// delivery_proofs is insert-only, like tracking_events.
type PostgresProofRepository struct{ DB *sql.DB }

func NewPostgresProofRepository(db *sql.DB) *PostgresProofRepository {
	return &PostgresProofRepository{DB: db}
}

func (r *PostgresProofRepository) Create(ctx context.Context, p *domain.DeliveryProof) error {
	if r.DB == nil {
		return errors.New("proof repository: DB is nil")
	}

	query := `
	INSERT INTO delivery_proofs (id, shipment_id, uploaded_by, photo_url, signer_name, notes)
	VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.DB.ExecContext(ctx, query,
		p.ID, p.ShipmentID, p.UploadedBy, p.PhotoURL, p.SignerName, p.Notes)
	if err != nil {
		return fmt.Errorf("create delivery proof: insert: %w", err)
	}
	return nil
}

func (r *PostgresProofRepository) ListByShipment(ctx context.Context, shipmentID string) ([]*domain.DeliveryProof, error) {
	if r.DB == nil {
		return nil, errors.New("proof repository: DB is nil")
	}

	query := `
	SELECT id, shipment_id, uploaded_by, photo_url, signer_name, notes, created_at
	FROM delivery_proofs
	WHERE shipment_id = $1
	ORDER BY created_at ASC;
	`
	rows, err := r.DB.QueryContext(ctx, query, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list delivery proofs: query: %w", err)
	}
	defer rows.Close()

	proofs := make([]*domain.DeliveryProof, 0, 2)
	for rows.Next() {
		var p domain.DeliveryProof
		if err := rows.Scan(&p.ID, &p.ShipmentID, &p.UploadedBy,
			&p.PhotoURL, &p.SignerName, &p.Notes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("list delivery proofs: scan row: %w", err)
		}
		proofs = append(proofs, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list delivery proofs: row iteration: %w", err)
	}
	return proofs, nil
}
