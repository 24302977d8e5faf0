package domain

import "time"

// Role is the capability class of an authenticated user. It drives both
// endpoint-level policy checks and row-level query filtering.
type Role string

const (
	RoleShipper      Role = "shipper"
	RoleCarrier      Role = "carrier"
	RoleAdmin        Role = "admin"
	RoleCompany      Role = "company"
	RoleDriver       Role = "driver"
	RoleFleetManager Role = "fleet_manager"
)

func (r Role) Valid() bool {
	switch r {
	case RoleShipper, RoleCarrier, RoleAdmin, RoleCompany, RoleDriver, RoleFleetManager:
		return true
	}
	return false
}

type User struct {
	ID        string
	Email     string
	Name      string
	Role      Role
	Company   string
	CreatedAt time.Time
}
