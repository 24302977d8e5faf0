package ports

import (
	"context"
	"time"

	"freight-marketplace-service/internal/domain"
)

type DriverRepository interface {
	Create(ctx context.Context, d *domain.Driver) error
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// GetByUserID resolves the driver record behind an authenticated user,
	// which is how driver callers are linked to their employer's shipments.
	GetByUserID(ctx context.Context, userID string) (*domain.Driver, error)

	List(ctx context.Context, ownerID string) ([]*domain.Driver, error)
	AssignVehicle(ctx context.Context, driverID, vehicleID string) error
	UpdateLocation(ctx context.Context, driverID string, lat, lon float64, at time.Time) error
}

type VehicleRepository interface {
	Create(ctx context.Context, v *domain.Vehicle) error
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)
	List(ctx context.Context, ownerID string) ([]*domain.Vehicle, error)
	Update(ctx context.Context, v *domain.Vehicle) error
	Delete(ctx context.Context, id string) error
}
