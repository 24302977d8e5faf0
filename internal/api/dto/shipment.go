package dto

import "time"

type CreateShipmentRequest struct {
	OriginCity       string     `json:"origin_city"`
	OriginState      string     `json:"origin_state"`
	DestinationCity  string     `json:"destination_city"`
	DestinationState string     `json:"destination_state"`
	WeightKg         float64    `json:"weight_kg"`
	Rate             float64    `json:"rate"`
	EquipmentType    string     `json:"equipment_type"`
	Commodity        string     `json:"commodity"`
	PickupDate       *time.Time `json:"pickup_date"`
	DeliveryDate     *time.Time `json:"delivery_date"`
}

type UpdateShipmentStatusRequest struct {
	Status      string `json:"status"`
	Description string `json:"description"`
}

type ShipmentResponse struct {
	ID               string     `json:"id"`
	ShipperID        string     `json:"shipper_id"`
	CarrierID        *string    `json:"carrier_id"`
	AcceptedBidID    *string    `json:"accepted_bid_id"`
	OriginCity       string     `json:"origin_city"`
	OriginState      string     `json:"origin_state"`
	DestinationCity  string     `json:"destination_city"`
	DestinationState string     `json:"destination_state"`
	WeightKg         float64    `json:"weight_kg"`
	Rate             float64    `json:"rate"`
	EquipmentType    string     `json:"equipment_type"`
	Commodity        string     `json:"commodity"`
	Status           string     `json:"status"`
	BidCount         int        `json:"bid_count"`
	PickupDate       *time.Time `json:"pickup_date"`
	DeliveryDate     *time.Time `json:"delivery_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
