package dto

import "time"

type SubmitBidRequest struct {
	Amount float64 `json:"amount"`
	Notes  string  `json:"notes"`
}

type BidResponse struct {
	ID         string    `json:"id"`
	ShipmentID string    `json:"shipment_id"`
	CarrierID  string    `json:"carrier_id"`
	Amount     float64   `json:"amount"`
	Notes      string    `json:"notes"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type AcceptBidResponse struct {
	Bid      BidResponse      `json:"bid"`
	Shipment ShipmentResponse `json:"shipment"`
}
