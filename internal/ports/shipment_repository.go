package ports

import (
	"context"

	"freight-marketplace-service/internal/domain"
)

// ShipmentFilter scopes a listing to what the caller's role may see.
// Empty fields mean "no restriction" (admin).
type ShipmentFilter struct {
	ShipperID string
	CarrierID string
	Status    domain.ShipmentStatus

	// IncludePostedForCarrier widens a carrier-scoped query with the open
	// marketplace (posted shipments are visible to every carrier).
	IncludePostedForCarrier bool

	Offset int
	Limit  int
}

type ShipmentRepository interface {
	Create(ctx context.Context, s *domain.Shipment) error
	GetByID(ctx context.Context, id string) (*domain.Shipment, error)
	List(ctx context.Context, f ShipmentFilter) ([]*domain.Shipment, error)

	// TransitionStatus performs a compare-and-swap status update and returns
	// domain.ErrConflict when the shipment is no longer in the from status.
	TransitionStatus(ctx context.Context, id string, from, to domain.ShipmentStatus) error
}
