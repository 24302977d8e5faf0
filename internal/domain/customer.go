package domain

import "time"

type Customer struct {
	ID        string
	OwnerID   string
	Name      string
	Email     string
	Phone     string
	Company   string
	City      string
	State     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
