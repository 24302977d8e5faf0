package domain

import "time"

type VehicleStatus string

const (
	VehicleActive      VehicleStatus = "active"
	VehicleInUse       VehicleStatus = "in_use"
	VehicleMaintenance VehicleStatus = "maintenance"
	VehicleRetired     VehicleStatus = "retired"
)

type Vehicle struct {
	ID         string
	OwnerID    string
	Plate      string
	Type       EquipmentType
	CapacityKg float64
	Model      string
	Year       int
	Status     VehicleStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
