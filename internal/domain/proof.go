package domain

import "time"

// DeliveryProof confirms a completed delivery. Inserting one drives the
// shipment from in_transit to delivered; rows are insert-only.
type DeliveryProof struct {
	ID         string
	ShipmentID string
	UploadedBy string
	PhotoURL   string
	SignerName string
	Notes      string
	CreatedAt  time.Time
}
