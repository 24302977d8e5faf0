package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres schema. Statements are idempotent so dbtool can be
// re-run safely.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			role TEXT NOT NULL,
			company TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,

		`CREATE TABLE IF NOT EXISTS customers (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			company TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,

		`CREATE TABLE IF NOT EXISTS shipments (
			id TEXT PRIMARY KEY,
			shipper_id TEXT NOT NULL,
			carrier_id TEXT,
			accepted_bid_id TEXT,
			origin_city TEXT NOT NULL,
			origin_state TEXT NOT NULL DEFAULT '',
			destination_city TEXT NOT NULL,
			destination_state TEXT NOT NULL DEFAULT '',
			weight_kg DOUBLE PRECISION NOT NULL,
			rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			equipment_type TEXT NOT NULL,
			commodity TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			bid_count INTEGER NOT NULL DEFAULT 0,
			pickup_date TIMESTAMPTZ,
			delivery_date TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,

		`CREATE INDEX IF NOT EXISTS idx_shipments_shipper ON shipments(shipper_id);`,
		`CREATE INDEX IF NOT EXISTS idx_shipments_carrier ON shipments(carrier_id);`,
		`CREATE INDEX IF NOT EXISTS idx_shipments_status ON shipments(status);`,

		`CREATE TABLE IF NOT EXISTS bids (
			id TEXT PRIMARY KEY,
			shipment_id TEXT NOT NULL REFERENCES shipments(id),
			carrier_id TEXT NOT NULL,
			amount DOUBLE PRECISION NOT NULL CHECK (amount > 0),
			notes TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,

		`CREATE INDEX IF NOT EXISTS idx_bids_shipment ON bids(shipment_id);`,
		`CREATE INDEX IF NOT EXISTS idx_bids_carrier ON bids(carrier_id);`,

		// Enforced at the storage level on top of the acceptance transaction.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_bids_one_accepted
			ON bids(shipment_id) WHERE status = 'accepted';`,

		`CREATE TABLE IF NOT EXISTS tracking_events (
			id TEXT PRIMARY KEY,
			shipment_id TEXT NOT NULL REFERENCES shipments(id),
			event_type TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			lat DOUBLE PRECISION,
			lon DOUBLE PRECISION,
			created_by TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,

		`CREATE INDEX IF NOT EXISTS idx_tracking_shipment_time
			ON tracking_events(shipment_id, created_at);`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			related_id TEXT NOT NULL DEFAULT '',
			read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,

		`CREATE INDEX IF NOT EXISTS idx_notifications_user_read
			ON notifications(user_id, read);`,

		`CREATE TABLE IF NOT EXISTS drivers (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			user_id TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			license_no TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			vehicle_id TEXT,
			last_lat DOUBLE PRECISION,
			last_lon DOUBLE PRECISION,
			last_seen TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,

		`CREATE TABLE IF NOT EXISTS vehicles (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			plate TEXT NOT NULL UNIQUE,
			type TEXT NOT NULL,
			capacity_kg DOUBLE PRECISION NOT NULL DEFAULT 0,
			model TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,

		`CREATE TABLE IF NOT EXISTS issues (
			id TEXT PRIMARY KEY,
			shipment_id TEXT NOT NULL REFERENCES shipments(id),
			reporter_id TEXT NOT NULL,
			type TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			resolved_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,

		`CREATE TABLE IF NOT EXISTS delivery_proofs (
			id TEXT PRIMARY KEY,
			shipment_id TEXT NOT NULL REFERENCES shipments(id),
			uploaded_by TEXT NOT NULL,
			photo_url TEXT NOT NULL DEFAULT '',
			signer_name TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
