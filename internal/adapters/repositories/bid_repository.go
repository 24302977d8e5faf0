package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"freight-marketplace-service/internal/domain"
	"freight-marketplace-service/internal/ports"
)

// Postgres-backed implementation of the BidRepository port.
type PostgresBidRepository struct{ DB *sql.DB }

func NewPostgresBidRepository(db *sql.DB) *PostgresBidRepository {
	return &PostgresBidRepository{DB: db}
}

const bidColumns = `id, shipment_id, carrier_id, amount, notes, status, created_at, updated_at`

func scanBid(row interface{ Scan(...any) error }) (*domain.Bid, error) {
	var b domain.Bid
	err := row.Scan(
		&b.ID, &b.ShipmentID, &b.CarrierID, &b.Amount,
		&b.Notes, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a pending bid and bumps the shipment's bid counter in one
// transaction. The insert only succeeds while the shipment is still posted.
func (r *PostgresBidRepository) Create(ctx context.Context, b *domain.Bid) error {
	if r.DB == nil {
		return errors.New("bid repository: DB is nil")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create bid: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Counter update doubles as the posted-state guard.
	res, err := tx.ExecContext(ctx, `
		UPDATE shipments SET bid_count = bid_count + 1, updated_at = now()
		WHERE id = $1 AND status = 'posted';
	`, b.ShipmentID)
	if err != nil {
		return fmt.Errorf("create bid: bump bid_count: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create bid: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("create bid: shipment %s not open for bidding: %w", b.ShipmentID, domain.ErrConflict)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bids (id, shipment_id, carrier_id, amount, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6);
	`, b.ID, b.ShipmentID, b.CarrierID, b.Amount, b.Notes, b.Status)
	if err != nil {
		return fmt.Errorf("create bid: insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create bid: commit tx: %w", err)
	}
	return nil
}

func (r *PostgresBidRepository) GetByID(ctx context.Context, id string) (*domain.Bid, error) {
	if r.DB == nil {
		return nil, errors.New("bid repository: DB is nil")
	}

	query := `SELECT ` + bidColumns + ` FROM bids WHERE id = $1;`
	b, err := scanBid(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get bid %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get bid: scan: %w", err)
	}
	return b, nil
}

func (r *PostgresBidRepository) ListByShipment(ctx context.Context, shipmentID, carrierID string) ([]*domain.Bid, error) {
	if r.DB == nil {
		return nil, errors.New("bid repository: DB is nil")
	}

	query := `SELECT ` + bidColumns + ` FROM bids WHERE shipment_id = $1`
	args := []any{shipmentID}
	if carrierID != "" {
		args = append(args, carrierID)
		query += ` AND carrier_id = $2`
	}
	query += ` ORDER BY created_at ASC;`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bids: query: %w", err)
	}
	defer rows.Close()

	bids := make([]*domain.Bid, 0, 8)
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("list bids: scan row: %w", err)
		}
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bids: row iteration: %w", err)
	}
	return bids, nil
}

// Accept performs the whole acceptance as one transaction so that two
// concurrent accepts on the same shipment cannot both win:
//
//  1. lock the bid row and check it is still pending
//  2. conditional update shipment posted -> assigned (the CAS step)
//  3. mark the bid accepted
//  4. auto-reject every other pending bid on the shipment
//  5. append the tracking event
//
// Step 2 affecting zero rows means another accept got there first; the
// transaction rolls back and the caller sees a conflict.
func (r *PostgresBidRepository) Accept(ctx context.Context, bidID, callerID string) (*ports.AcceptOutcome, error) {
	if r.DB == nil {
		return nil, errors.New("bid repository: DB is nil")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("accept bid: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	bid, err := scanBid(tx.QueryRowContext(ctx,
		`SELECT `+bidColumns+` FROM bids WHERE id = $1 FOR UPDATE;`, bidID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("accept bid %s: %w", bidID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("accept bid: load bid: %w", err)
	}
	if bid.Status != domain.BidPending {
		return nil, fmt.Errorf("accept bid %s: bid is %s: %w", bidID, bid.Status, domain.ErrConflict)
	}

	var shipperID string
	err = tx.QueryRowContext(ctx,
		`SELECT shipper_id FROM shipments WHERE id = $1;`, bid.ShipmentID).Scan(&shipperID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("accept bid: shipment %s: %w", bid.ShipmentID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("accept bid: load shipment owner: %w", err)
	}
	if shipperID != callerID {
		return nil, fmt.Errorf("accept bid: caller is not the shipper: %w", domain.ErrForbidden)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE shipments
		SET status = 'assigned', carrier_id = $1, accepted_bid_id = $2, updated_at = now()
		WHERE id = $3 AND status = 'posted';
	`, bid.CarrierID, bid.ID, bid.ShipmentID)
	if err != nil {
		return nil, fmt.Errorf("accept bid: assign shipment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("accept bid: rows affected: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("accept bid: shipment %s already left posted: %w", bid.ShipmentID, domain.ErrConflict)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE bids SET status = 'accepted', updated_at = now() WHERE id = $1;
	`, bid.ID); err != nil {
		return nil, fmt.Errorf("accept bid: mark accepted: %w", err)
	}
	bid.Status = domain.BidAccepted

	// Competing pending bids become rejected in the same transaction, so the
	// "at most one accepted" invariant is readable straight off the rows.
	rows, err := tx.QueryContext(ctx, `
		UPDATE bids SET status = 'rejected', updated_at = now()
		WHERE shipment_id = $1 AND status = 'pending' AND id <> $2
		RETURNING carrier_id;
	`, bid.ShipmentID, bid.ID)
	if err != nil {
		return nil, fmt.Errorf("accept bid: reject competing bids: %w", err)
	}
	rejected := []string{}
	for rows.Next() {
		var cid string
		if err := rows.Scan(&cid); err != nil {
			rows.Close()
			return nil, fmt.Errorf("accept bid: scan rejected carrier: %w", err)
		}
		rejected = append(rejected, cid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("accept bid: rejected rows iteration: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO tracking_events (id, shipment_id, event_type, description, created_by)
		VALUES ($1, $2, $3, $4, $5);
	`, uuid.NewString(), bid.ShipmentID, domain.TrackingBidAccepted,
		fmt.Sprintf("bid accepted at %.2f, shipment assigned", bid.Amount), callerID,
	); err != nil {
		return nil, fmt.Errorf("accept bid: append tracking event: %w", err)
	}

	shipment, err := scanShipment(tx.QueryRowContext(ctx,
		`SELECT `+shipmentColumns+` FROM shipments WHERE id = $1;`, bid.ShipmentID))
	if err != nil {
		return nil, fmt.Errorf("accept bid: reload shipment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("accept bid: commit tx: %w", err)
	}

	return &ports.AcceptOutcome{
		Bid:                bid,
		Shipment:           shipment,
		RejectedCarrierIDs: rejected,
	}, nil
}

func (r *PostgresBidRepository) SetStatus(ctx context.Context, id string, from, to domain.BidStatus) error {
	if r.DB == nil {
		return errors.New("bid repository: DB is nil")
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE bids SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3;
	`, to, id, from)
	if err != nil {
		return fmt.Errorf("set bid %s status: update: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set bid %s status: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("set bid %s status: not in status %s: %w", id, from, domain.ErrConflict)
	}
	return nil
}

// RejectStale is the sweeper's backstop for pending bids whose shipment has
// already left posted (rows written before auto-reject existed).
func (r *PostgresBidRepository) RejectStale(ctx context.Context) (int64, error) {
	if r.DB == nil {
		return 0, errors.New("bid repository: DB is nil")
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE bids SET status = 'rejected', updated_at = now()
		WHERE status = 'pending'
		  AND shipment_id IN (SELECT id FROM shipments WHERE status <> 'posted');
	`)
	if err != nil {
		return 0, fmt.Errorf("reject stale bids: update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reject stale bids: rows affected: %w", err)
	}
	return n, nil
}

var _ ports.BidRepository = (*PostgresBidRepository)(nil)
