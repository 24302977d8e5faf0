package domain

import "time"

type BidStatus string

const (
	BidPending   BidStatus = "pending"
	BidAccepted  BidStatus = "accepted"
	BidRejected  BidStatus = "rejected"
	BidWithdrawn BidStatus = "withdrawn"
)

// Bid is a carrier's priced offer against a posted shipment.
// At most one bid per shipment may ever reach "accepted".
type Bid struct {
	ID         string
	ShipmentID string
	CarrierID  string
	Amount     float64
	Notes      string
	Status     BidStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValidateBidAmount rejects non-positive amounts before anything touches storage.
func ValidateBidAmount(amount float64) error {
	if amount <= 0 {
		return Invalid("bid amount must be greater than zero")
	}
	return nil
}
