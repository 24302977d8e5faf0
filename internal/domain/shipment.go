package domain

import (
	"fmt"
	"time"
)

// ShipmentStatus is persisted as a string column.
type ShipmentStatus string

const (
	ShipmentPosted    ShipmentStatus = "posted"
	ShipmentAssigned  ShipmentStatus = "assigned"
	ShipmentInTransit ShipmentStatus = "in_transit"
	ShipmentDelivered ShipmentStatus = "delivered"
	ShipmentCancelled ShipmentStatus = "cancelled"
)

// EquipmentType constrains what kind of trailer a shipment requires.
type EquipmentType string

const (
	EquipmentDryVan       EquipmentType = "dry_van"
	EquipmentFlatbed      EquipmentType = "flatbed"
	EquipmentRefrigerated EquipmentType = "refrigerated"
	EquipmentTanker       EquipmentType = "tanker"
	EquipmentContainer    EquipmentType = "container"
)

func (e EquipmentType) Valid() bool {
	switch e {
	case EquipmentDryVan, EquipmentFlatbed, EquipmentRefrigerated, EquipmentTanker, EquipmentContainer:
		return true
	}
	return false
}

// Shipment is a transport job posted by a shipper.
//
// CarrierID and AcceptedBidID are set together when a bid is accepted and the
// shipment leaves "posted"; they are never set while the shipment is open.
type Shipment struct {
	ID            string
	ShipperID     string
	CarrierID     *string
	AcceptedBidID *string

	OriginCity       string
	OriginState      string
	DestinationCity  string
	DestinationState string

	WeightKg  float64
	Rate      float64
	Equipment EquipmentType
	Commodity string

	Status   ShipmentStatus
	BidCount int

	PickupDate   *time.Time
	DeliveryDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// shipmentTransitions is the allowed status flow as an adjacency list.
// Terminal states have no outgoing edges.
var shipmentTransitions = map[ShipmentStatus][]ShipmentStatus{
	ShipmentPosted:    {ShipmentAssigned, ShipmentCancelled},
	ShipmentAssigned:  {ShipmentInTransit, ShipmentCancelled},
	ShipmentInTransit: {ShipmentDelivered},
	ShipmentDelivered: {},
	ShipmentCancelled: {},
}

// CanTransition reports whether from -> to is an allowed status change.
func CanTransition(from, to ShipmentStatus) bool {
	allowed, ok := shipmentTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a conflict error describing an illegal move.
func ValidateTransition(from, to ShipmentStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("shipment status %s -> %s: %w", from, to, ErrConflict)
	}
	return nil
}
