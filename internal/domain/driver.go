package domain

import "time"

type DriverStatus string

const (
	DriverAvailable DriverStatus = "available"
	DriverOnTrip    DriverStatus = "on_trip"
	DriverOffDuty   DriverStatus = "off_duty"
)

type Driver struct {
	ID        string
	OwnerID   string
	UserID    string
	Name      string
	Phone     string
	LicenseNo string
	Status    DriverStatus
	VehicleID *string

	// Last reported position; nil until the first location update.
	LastLat  *float64
	LastLon  *float64
	LastSeen *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
