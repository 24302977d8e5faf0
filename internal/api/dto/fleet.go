package dto

import "time"

type CreateDriverRequest struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	LicenseNo string `json:"license_no"`
}

type AssignVehicleRequest struct {
	VehicleID string `json:"vehicle_id"`
}

type DriverLocationRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type DriverResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	LicenseNo string     `json:"license_no"`
	Status    string     `json:"status"`
	VehicleID *string    `json:"vehicle_id"`
	LastLat   *float64   `json:"last_lat"`
	LastLon   *float64   `json:"last_lon"`
	LastSeen  *time.Time `json:"last_seen"`
	CreatedAt time.Time  `json:"created_at"`
}

type VehicleRequest struct {
	Plate      string  `json:"plate"`
	Type       string  `json:"type"`
	CapacityKg float64 `json:"capacity_kg"`
	Model      string  `json:"model"`
	Year       int     `json:"year"`
	Status     string  `json:"status"`
}

type VehicleResponse struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Plate      string    `json:"plate"`
	Type       string    `json:"type"`
	CapacityKg float64   `json:"capacity_kg"`
	Model      string    `json:"model"`
	Year       int       `json:"year"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
