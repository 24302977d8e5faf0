package ports

import (
	"context"

	"freight-marketplace-service/internal/domain"
)

type TrackingRepository interface {
	// Append inserts a new event; tracking history is never updated in place.
	Append(ctx context.Context, e *domain.TrackingEvent) error
	ListByShipment(ctx context.Context, shipmentID string) ([]*domain.TrackingEvent, error)
}
