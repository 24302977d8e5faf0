package ports

import (
	"context"

	"freight-marketplace-service/internal/domain"
)

// AcceptOutcome reports what the acceptance transaction changed.
type AcceptOutcome struct {
	Bid      *domain.Bid
	Shipment *domain.Shipment

	// Carriers whose pending bids were auto-rejected in the same transaction.
	RejectedCarrierIDs []string
}

type BidRepository interface {
	Create(ctx context.Context, b *domain.Bid) error
	GetByID(ctx context.Context, id string) (*domain.Bid, error)

	// ListByShipment returns bids for a shipment; carrierID narrows the
	// result to one carrier's own bids when non-empty.
	ListByShipment(ctx context.Context, shipmentID, carrierID string) ([]*domain.Bid, error)

	// Accept runs the whole acceptance as one transaction: bid to accepted,
	// shipment posted to assigned (conditional update), all other pending
	// bids rejected, tracking event appended. Returns domain.ErrConflict
	// when the shipment already left posted or the bid is not pending, and
	// domain.ErrForbidden when callerID is not the shipment's shipper.
	Accept(ctx context.Context, bidID, callerID string) (*AcceptOutcome, error)

	// SetStatus is a compare-and-swap on bid status (reject, withdraw).
	SetStatus(ctx context.Context, id string, from, to domain.BidStatus) error

	// RejectStale rejects pending bids whose shipment has left posted.
	// Returns the number of rows changed.
	RejectStale(ctx context.Context) (int64, error)
}
