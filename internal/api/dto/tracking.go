package dto

import "time"

type AppendTrackingRequest struct {
	Description string   `json:"description"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
}

type TrackingEventResponse struct {
	ID          string    `json:"id"`
	ShipmentID  string    `json:"shipment_id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Lat         *float64  `json:"lat"`
	Lon         *float64  `json:"lon"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}
